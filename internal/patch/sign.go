package patch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/log"
	"github.com/pkg/errors"

	"apkpatcher/internal/apk"
)

// Recompile repackages both decompiled trees into Config.OutputDir under
// the fixed recompiled names. Returns the two WorkDir-relative output
// paths.
func (p *Patcher) Recompile(ctx context.Context, baseDir, splitDir string) (string, string, error) {
	log.Infof("Recompiling APKs")
	c := p.Config

	basePath := filepath.Join(c.OutputDir, c.RecompiledBaseName)
	splitPath := filepath.Join(c.OutputDir, c.RecompiledSplitName)

	if err := p.Tool.Build(ctx, baseDir, basePath); err != nil {
		return "", "", err
	}
	if err := p.Tool.Build(ctx, splitDir, splitPath); err != nil {
		return "", "", err
	}

	log.Donef("Recompilation complete")
	return basePath, splitPath, nil
}

// Sign signs both recompiled packages with the credential at
// keystorePath. The credential file must exist before the first signer
// invocation; otherwise the stage fails with ErrMissingCredential.
func (p *Patcher) Sign(ctx context.Context, keystorePath, basePath, splitPath string) error {
	log.Infof("Signing APKs")
	c := p.Config

	if _, err := os.Stat(c.abs(keystorePath)); err != nil {
		return errors.Wrapf(ErrMissingCredential, "%s", keystorePath)
	}

	ks := apk.Keystore{
		Path:      keystorePath,
		Alias:     c.KeystoreAlias,
		StorePass: c.KeystorePass,
		KeyPass:   c.KeystoreKeyPass,
	}

	if err := p.Signer.Sign(ctx, basePath, ks); err != nil {
		return err
	}
	if err := p.Signer.Sign(ctx, splitPath, ks); err != nil {
		return err
	}

	log.Donef("Signing complete")
	return nil
}
