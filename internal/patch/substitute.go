package patch

import (
	"context"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/log"
	"github.com/pkg/errors"
)

// SubstituteNativeLib swaps the native library inside splitDir's
// architecture subdirectory: the original (if present) is renamed to the
// backup name and kept on disk, then the replacement is downloaded from
// libURL directly onto the original path. A missing original is not an
// error — the download still happens, only the backup is skipped.
func (p *Patcher) SubstituteNativeLib(ctx context.Context, libURL, splitDir string) error {
	log.Infof("Substituting native library")
	c := p.Config

	libDir := filepath.Join(splitDir, c.NativeLibDir)
	orig := c.abs(filepath.Join(libDir, c.NativeLibName))
	backup := c.abs(filepath.Join(libDir, c.NativeLibBackupName))

	if _, err := os.Stat(orig); err == nil {
		if err := os.Rename(orig, backup); err != nil {
			return errors.Wrap(err, "back up original native library")
		}
		log.Printf("renamed %s -> %s", orig, backup)
	} else {
		log.Warnf("original native library %s not found, skipping backup", orig)
	}

	if err := p.Fetcher.Fetch(ctx, libURL, orig); err != nil {
		return errors.Wrap(err, "download replacement native library")
	}

	log.Donef("Native library substituted")
	return nil
}
