package ports

import "context"

// Downloader fetches package archives over the network.
//
//go:generate mockgen -source=downloader.go -destination=mocks/mock_downloader.go -package=mocks
type Downloader interface {
	// Download streams the document at url into the file at destPath,
	// creating or truncating it. The file is removed on failure.
	Download(ctx context.Context, url, destPath string) error
}
