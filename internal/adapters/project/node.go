package project

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/pakt/internal/adapters/logger"
	"go.trai.ch/pakt/internal/core/ports"
)

const (
	ManifestNodeID      graft.ID = "adapter.manifest_store"
	LockfileNodeID      graft.ID = "adapter.lockfile_store"
	ScannerNodeID       graft.ID = "adapter.project_scanner"
	FingerprinterNodeID graft.ID = "adapter.fingerprinter"
)

func init() {
	graft.Register(graft.Node[ports.ManifestStore]{
		ID:        ManifestNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.ManifestStore, error) {
			return NewManifestStore(), nil
		},
	})

	graft.Register(graft.Node[ports.LockfileStore]{
		ID:        LockfileNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.LockfileStore, error) {
			return NewLockfileStore(), nil
		},
	})

	graft.Register(graft.Node[ports.ProjectScanner]{
		ID:        ScannerNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ProjectScanner, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewScanner(log), nil
		},
	})

	graft.Register(graft.Node[ports.Fingerprinter]{
		ID:        FingerprinterNodeID,
		Cacheable: true,
		Run: func(ctx context.Context) (ports.Fingerprinter, error) {
			return NewFingerprinter(), nil
		},
	})
}
