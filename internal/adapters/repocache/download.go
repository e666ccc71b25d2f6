package repocache

import (
	"context"
	"io"
	"net/http"
	"os"
	"time"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/zerr"
)

const downloadTimeout = 10 * time.Minute

// HTTPDownloader implements ports.Downloader with a plain HTTP GET into a
// destination file.
type HTTPDownloader struct {
	client *http.Client
}

// NewDownloader creates a downloader for package archives.
func NewDownloader() *HTTPDownloader {
	return &HTTPDownloader{
		client: &http.Client{Timeout: downloadTimeout},
	}
}

// Download fetches url into destPath. A partial file is removed on failure.
func (d *HTTPDownloader) Download(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return zerr.Wrap(domain.ErrFetch, err.Error())
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return zerr.Wrap(domain.ErrFetch, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return zerr.With(domain.ErrFetch, "status", resp.StatusCode)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return zerr.Wrap(domain.ErrFilesystem, err.Error())
	}

	if _, err := io.Copy(out, resp.Body); err != nil {
		out.Close()
		os.Remove(destPath)
		return zerr.Wrap(domain.ErrFetch, err.Error())
	}
	if err := out.Close(); err != nil {
		os.Remove(destPath)
		return zerr.Wrap(domain.ErrFilesystem, err.Error())
	}
	return nil
}
