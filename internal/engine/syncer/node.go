package syncer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pakt/internal/adapters/archive"
	"go.trai.ch/pakt/internal/adapters/logger"
	"go.trai.ch/pakt/internal/adapters/project"
	"go.trai.ch/pakt/internal/adapters/repocache"
	progrocktel "go.trai.ch/pakt/internal/adapters/telemetry/progrock"
	"go.trai.ch/pakt/internal/core/ports"
)

const NodeID graft.ID = "engine.syncer"

func init() {
	graft.Register(graft.Node[*Syncer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			repocache.DownloaderNodeID,
			archive.NodeID,
			project.LockfileNodeID,
			project.FingerprinterNodeID,
			progrocktel.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Syncer, error) {
			downloader, err := graft.Dep[ports.Downloader](ctx)
			if err != nil {
				return nil, err
			}
			extractor, err := graft.Dep[ports.Extractor](ctx)
			if err != nil {
				return nil, err
			}
			lockStore, err := graft.Dep[ports.LockfileStore](ctx)
			if err != nil {
				return nil, err
			}
			fingerprinter, err := graft.Dep[ports.Fingerprinter](ctx)
			if err != nil {
				return nil, err
			}
			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return New(downloader, extractor, lockStore, fingerprinter, telemetry, log, DefaultJobs), nil
		},
	})
}
