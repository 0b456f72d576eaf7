package run

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/bitrise-io/go-utils/log"
	"github.com/pkg/errors"
)

// FetchError reports a download that reached the server but got a
// non-success status.
type FetchError struct {
	URL        string
	Status     string
	StatusCode int
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("GET %s: %s", e.URL, e.Status)
}

// Fetcher downloads URLs to local files. The zero value uses
// http.DefaultClient.
type Fetcher struct {
	Client *http.Client
}

// Fetch streams the body of rawURL into dest, creating parent directories
// as needed and truncating any existing file. Non-2xx responses return a
// *FetchError; nothing is written in that case.
func (f *Fetcher) Fetch(ctx context.Context, rawURL, dest string) error {
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrapf(err, "build request for %s", rawURL)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "download %s", rawURL)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return &FetchError{URL: rawURL, Status: resp.Status, StatusCode: resp.StatusCode}
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "create directory for %s", dest)
		}
	}

	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, "create %s", dest)
	}

	n, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrapf(err, "write %s", dest)
	}

	log.Printf("downloaded %s -> %s (%d bytes)", rawURL, dest, n)
	return nil
}
