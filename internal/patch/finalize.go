package patch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/log"
	"github.com/pkg/errors"

	"apkpatcher/internal/bundle"
)

// Finalize locates the signer's outputs for both recompiled packages and
// moves them into Config.FinalDir under their canonical names. Both
// signed files are verified before either is moved, so a missing artifact
// leaves the final directory unpopulated.
func (p *Patcher) Finalize(ctx context.Context) error {
	log.Infof("Finalizing APKs")
	c := p.Config

	signedBase := p.Signer.SignedName(filepath.Join(c.OutputDir, c.RecompiledBaseName))
	signedSplit := p.Signer.SignedName(filepath.Join(c.OutputDir, c.RecompiledSplitName))

	finalDir := c.abs(c.FinalDir)
	if err := os.MkdirAll(finalDir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", finalDir)
	}

	for _, signed := range []string{signedBase, signedSplit} {
		if _, err := os.Stat(c.abs(signed)); err != nil {
			return &MissingArtifactError{Path: signed}
		}
	}

	if err := os.Rename(c.abs(signedBase), filepath.Join(finalDir, c.FinalBaseName)); err != nil {
		return errors.Wrap(err, "move signed base APK")
	}
	if err := os.Rename(c.abs(signedSplit), filepath.Join(finalDir, c.FinalSplitName)); err != nil {
		return errors.Wrap(err, "move signed split APK")
	}

	log.Donef("Finalization complete")
	return nil
}

// Bundle archives everything under the final directory into the
// distributable bundle at Config.ArchiveName.
func (p *Patcher) Bundle() error {
	log.Infof("Building bundle")
	c := p.Config
	return bundle.Create(c.abs(c.FinalDir), c.abs(c.ArchiveName))
}
