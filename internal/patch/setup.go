package patch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/log"
	"github.com/pkg/errors"
)

// SetupEnvironment provisions the external tools: installs the Java
// runtime, downloads and installs the decompiler into Config.BinDir,
// downloads the signer jar into the working directory, and fetches the
// signing credential from keystoreURL. Returns the WorkDir-relative path
// of the fetched keystore.
func (p *Patcher) SetupEnvironment(ctx context.Context, keystoreURL string) (string, error) {
	log.Infof("Setting up the environment")
	c := p.Config

	if err := p.Runner.Run(ctx, "update package index", "sudo", "apt-get", "update"); err != nil {
		return "", err
	}
	if err := p.Runner.Run(ctx, "install Java runtime", "sudo", "apt-get", "install", c.JavaPackage, "-y"); err != nil {
		return "", err
	}

	if err := p.Runner.Run(ctx, "download decompiler launcher", "wget", "-q", c.ApktoolURL, "-O", c.ApktoolName); err != nil {
		return "", err
	}
	if err := p.Runner.Run(ctx, "download decompiler jar", "wget", "-q", c.ApktoolJarURL, "-O", c.ApktoolJarName); err != nil {
		return "", err
	}

	if err := p.installDecompiler(); err != nil {
		return "", err
	}

	if err := p.Runner.Run(ctx, "download signer jar", "wget", "-q", c.SignerJarURL, "-O", c.SignerJarName); err != nil {
		return "", err
	}

	if err := p.Fetcher.Fetch(ctx, keystoreURL, c.abs(c.KeystoreName)); err != nil {
		return "", errors.Wrap(err, "download keystore")
	}

	log.Donef("Environment setup complete")
	return c.KeystoreName, nil
}

// installDecompiler moves the downloaded launcher and jar into BinDir and
// marks the launcher executable.
func (p *Patcher) installDecompiler() error {
	c := p.Config

	if err := os.MkdirAll(c.BinDir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", c.BinDir)
	}

	launcher := filepath.Join(c.BinDir, c.ApktoolName)
	if err := os.Rename(c.abs(c.ApktoolName), launcher); err != nil {
		return errors.Wrap(err, "install decompiler launcher")
	}
	if err := os.Rename(c.abs(c.ApktoolJarName), filepath.Join(c.BinDir, c.ApktoolJarName)); err != nil {
		return errors.Wrap(err, "install decompiler jar")
	}
	if err := os.Chmod(launcher, 0o755); err != nil {
		return errors.Wrap(err, "mark decompiler launcher executable")
	}
	return nil
}
