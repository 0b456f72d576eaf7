// Package bundle builds the distributable archive from the final output
// directory.
package bundle

import (
	"archive/zip"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/log"
	"github.com/pkg/errors"
)

// Create writes every regular file under srcDir into a new zip archive at
// archivePath, truncating any existing archive. Entry names are
// slash-separated paths relative to srcDir; directories themselves are not
// recorded. Entry order follows directory traversal order.
func Create(srcDir, archivePath string) error {
	out, err := os.Create(archivePath)
	if err != nil {
		return errors.Wrapf(err, "create archive %s", archivePath)
	}

	zw := zip.NewWriter(out)

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		return addFile(zw, path, filepath.ToSlash(rel))
	})

	if cerr := zw.Close(); walkErr == nil {
		walkErr = cerr
	}
	if cerr := out.Close(); walkErr == nil {
		walkErr = cerr
	}
	if walkErr != nil {
		return errors.Wrapf(walkErr, "build archive %s", archivePath)
	}

	log.Donef("archive created: %s", archivePath)
	return nil
}

func addFile(zw *zip.Writer, path, name string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
