// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/baler/internal/adapters/cache"
	_ "go.trai.ch/baler/internal/adapters/codegen"
	_ "go.trai.ch/baler/internal/adapters/config"
	_ "go.trai.ch/baler/internal/adapters/fs"
	_ "go.trai.ch/baler/internal/adapters/logger"
	_ "go.trai.ch/baler/internal/adapters/scss"
	_ "go.trai.ch/baler/internal/adapters/telemetry"
	// Register app and engine nodes.
	_ "go.trai.ch/baler/internal/app"
	_ "go.trai.ch/baler/internal/engine/pipeline"
)
