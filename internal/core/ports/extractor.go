package ports

import (
	"context"

	"go.trai.ch/pakt/internal/core/domain"
)

// Extractor unpacks package archives. Archive contents are untrusted input:
// implementations must reject entries that would escape the target directory.
//
//go:generate mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type Extractor interface {
	// Extract unpacks the archive at archivePath into targetDir, which must
	// already exist and be empty.
	Extract(ctx context.Context, archivePath, targetDir string) (*domain.ExtractReport, error)
}
