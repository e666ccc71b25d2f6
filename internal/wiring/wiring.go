// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/pakt/internal/adapters/archive"
	_ "go.trai.ch/pakt/internal/adapters/logger"
	_ "go.trai.ch/pakt/internal/adapters/project"
	_ "go.trai.ch/pakt/internal/adapters/repocache"
	_ "go.trai.ch/pakt/internal/adapters/settings"
	_ "go.trai.ch/pakt/internal/adapters/telemetry/progrock"
	// Register app and engine nodes.
	_ "go.trai.ch/pakt/internal/app"
	_ "go.trai.ch/pakt/internal/engine/resolver"
	_ "go.trai.ch/pakt/internal/engine/syncer"
)
