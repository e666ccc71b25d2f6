package repocache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	fetchTimeout       = 30 * time.Second
	maxIndexBytes      = 64 << 20 // 64 MiB; index documents are text, not archives
	refreshParallelism = 4
)

// Cache implements ports.RepositoryCache with a file-per-source disk store.
// Each snapshot is the raw fetched document, stored under the hash of the
// source id so arbitrary ids map to safe file names.
type Cache struct {
	dir    string
	client *http.Client
	log    ports.Logger
}

// NewCache creates a cache rooted at dir, creating it if needed.
func NewCache(dir string, log ports.Logger) (*Cache, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, zerr.Wrap(err, "failed to create repository cache directory")
	}
	return &Cache{
		dir:    filepath.Clean(dir),
		client: &http.Client{Timeout: fetchTimeout},
		log:    log,
	}, nil
}

func (c *Cache) snapshotPath(sourceID string) string {
	sum := sha256.Sum256([]byte(sourceID))
	return filepath.Join(c.dir, hex.EncodeToString(sum[:])+".json")
}

// Refresh fetches the source's index document, validates it, persists the raw
// document as the new snapshot, and returns the parsed index. On network
// failure it falls back to the last good cached copy with a warning; with no
// cache to fall back to, the fetch error is returned.
func (c *Cache) Refresh(ctx context.Context, source domain.Source) (*domain.RepositoryIndex, error) {
	data, err := c.fetch(ctx, source)
	if err != nil {
		cached, cacheErr := c.LoadCached(source)
		if cacheErr != nil {
			return nil, err
		}
		if c.log != nil {
			c.log.Warn(fmt.Sprintf("refresh of %s failed, using cached snapshot: %v", source.ID, err))
		}
		return cached, nil
	}

	// Validate before persisting so a garbage response never clobbers the
	// last good snapshot.
	idx, err := parseIndex(source.ID, data, c.log)
	if err != nil {
		return nil, err
	}

	path := c.snapshotPath(source.ID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, domain.FilePerm); err != nil {
		return nil, zerr.Wrap(err, "failed to write snapshot")
	}
	if err := os.Rename(tmp, path); err != nil {
		return nil, zerr.Wrap(err, "failed to commit snapshot")
	}

	return idx, nil
}

// LoadCached returns the persisted snapshot for the source without touching
// the network. Returns domain.ErrCacheMiss when no snapshot exists.
func (c *Cache) LoadCached(source domain.Source) (*domain.RepositoryIndex, error) {
	data, err := os.ReadFile(c.snapshotPath(source.ID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, zerr.With(domain.ErrCacheMiss, "source", source.ID)
		}
		return nil, zerr.Wrap(err, "failed to read snapshot")
	}
	return parseIndex(source.ID, data, c.log)
}

// RefreshAll refreshes every enabled source concurrently. Per-source failures
// are logged and skipped; the returned slice holds the indices that loaded,
// in the order of the input sources.
func (c *Cache) RefreshAll(ctx context.Context, sources []domain.Source) []*domain.RepositoryIndex {
	results := make([]*domain.RepositoryIndex, len(sources))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshParallelism)
	for i, source := range sources {
		if !source.Enabled {
			continue
		}
		g.Go(func() error {
			idx, err := c.Refresh(ctx, source)
			if err != nil {
				if c.log != nil {
					c.log.Error(zerr.With(err, "source", source.ID))
				}
				return nil
			}
			results[i] = idx
			return nil
		})
	}
	_ = g.Wait()

	compact := results[:0]
	for _, idx := range results {
		if idx != nil {
			compact = append(compact, idx)
		}
	}
	return compact
}

func (c *Cache) fetch(ctx context.Context, source domain.Source) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrFetch, err.Error())
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, zerr.Wrap(domain.ErrFetch, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, zerr.With(domain.ErrFetch, "status", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxIndexBytes))
	if err != nil {
		return nil, zerr.Wrap(domain.ErrFetch, err.Error())
	}
	return data, nil
}
