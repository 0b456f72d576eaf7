package patch

import (
	"context"

	"github.com/bitrise-io/go-utils/log"
	"github.com/pkg/errors"

	"apkpatcher/internal/apk"
)

// FetchAndDecompile downloads the base and split packages and decompiles
// each into its own directory tree. Returns the two WorkDir-relative
// decode directories. Both downloads and both decompiles are sequential;
// the first failure aborts with nothing else attempted.
func (p *Patcher) FetchAndDecompile(ctx context.Context, baseURL, splitURL string) (string, string, error) {
	log.Infof("Downloading and decompiling APKs")
	c := p.Config

	if err := p.Fetcher.Fetch(ctx, baseURL, c.abs(c.BaseAPKName)); err != nil {
		return "", "", errors.Wrap(err, "download base APK")
	}
	if err := p.Fetcher.Fetch(ctx, splitURL, c.abs(c.SplitAPKName)); err != nil {
		return "", "", errors.Wrap(err, "download split APK")
	}

	p.logManifest(c.abs(c.BaseAPKName))
	p.logManifest(c.abs(c.SplitAPKName))

	baseDir, err := p.Tool.Decode(ctx, c.BaseAPKName)
	if err != nil {
		return "", "", err
	}
	splitDir, err := p.Tool.Decode(ctx, c.SplitAPKName)
	if err != nil {
		return "", "", err
	}

	log.Printf("decompiled %s -> %s", c.BaseAPKName, baseDir)
	log.Printf("decompiled %s -> %s", c.SplitAPKName, splitDir)
	log.Donef("Decompilation complete")
	return baseDir, splitDir, nil
}

// logManifest reports package and version of a downloaded APK. Advisory
// only: a package that apkparser cannot read is still patchable.
func (p *Patcher) logManifest(apkPath string) {
	info, err := apk.Inspect(apkPath)
	if err != nil {
		log.Warnf("could not inspect %s: %s", apkPath, err)
		return
	}
	log.Printf("%s: package %s, version %s", apkPath, info.Package, info.VersionName)
}
