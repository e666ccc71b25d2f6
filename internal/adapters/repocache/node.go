package repocache

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pakt/internal/adapters/logger"
	"go.trai.ch/pakt/internal/core/domain"
	"go.trai.ch/pakt/internal/core/ports"
)

const (
	NodeID           graft.ID = "adapter.repository_cache"
	DownloaderNodeID graft.ID = "adapter.downloader"
)

func init() {
	graft.Register(graft.Node[ports.RepositoryCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.RepositoryCache, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewCache(domain.DefaultCacheDir(), log)
		},
	})

	graft.Register(graft.Node[ports.Downloader]{
		ID:        DownloaderNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Downloader, error) {
			return NewDownloader(), nil
		},
	})
}
