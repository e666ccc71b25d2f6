package ports

import (
	"context"

	"go.trai.ch/pakt/internal/core/domain"
)

// RepositoryCache owns the fetched repository index snapshots. It never
// refreshes implicitly; callers decide when to hit the network.
//
//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks
type RepositoryCache interface {
	// Refresh fetches the source's index document, validates it, persists a
	// snapshot, and returns the new index. On network failure it falls back
	// to the last good cached copy (reporting a warning); when no cache
	// exists the ErrFetch is returned.
	Refresh(ctx context.Context, source domain.Source) (*domain.RepositoryIndex, error)

	// LoadCached returns the persisted snapshot for the source without any
	// network access. Returns domain.ErrCacheMiss when none exists.
	LoadCached(source domain.Source) (*domain.RepositoryIndex, error)

	// RefreshAll refreshes every enabled source concurrently. Per-source
	// failures are reported through the logger and skipped; the result holds
	// the indices that loaded.
	RefreshAll(ctx context.Context, sources []domain.Source) []*domain.RepositoryIndex
}

// SourceSettings loads and persists the configured repository sources.
type SourceSettings interface {
	// Load returns the configured sources, ordered by priority descending.
	Load() ([]domain.Source, error)
}
