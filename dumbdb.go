// Package dumbdb is the engine's public entry point: construction and
// the single-statement execution call, analogous to the Python
// source's DBEngine minus its cli() and execute_script() collaborators
// (explicitly out of scope, spec.md §1, §6).
package dumbdb

import (
	"fmt"

	"github.com/gianfrancodemarco/dumbdb/internal/applog"
	"github.com/gianfrancodemarco/dumbdb/internal/config"
	"github.com/gianfrancodemarco/dumbdb/internal/engine"
)

// Engine runs statements against a single data directory.
type Engine struct {
	*engine.Engine
}

// Open loads configuration for rootDir (environment overrides, then an
// optional .dumbdb/config.yml, then defaults) and returns an Engine
// rooted at rootDir with no database selected. The configured RootDir
// is not read: Open always uses its rootDir argument as the catalog's
// on-disk root.
func Open(rootDir string) (*Engine, error) {
	cfg, err := config.Load(rootDir)
	if err != nil {
		return nil, fmt.Errorf("dumbdb: open %s: %w", rootDir, err)
	}

	log, err := applog.New(rootDir)
	if err != nil {
		return nil, fmt.Errorf("dumbdb: open %s: %w", rootDir, err)
	}

	eng := engine.New(rootDir, log,
		engine.WithDefaultColumns(cfg.DefaultColumns),
		engine.WithAutoCompactThreshold(cfg.AutoCompactThreshold),
	)
	return &Engine{Engine: eng}, nil
}

// Execute runs a single statement and returns its result envelope.
func (e *Engine) Execute(statement string) engine.Result {
	return e.Engine.Execute(statement)
}
