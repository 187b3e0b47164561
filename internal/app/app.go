// Package app implements the application layer for baler.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.trai.ch/baler/internal/adapters/devserver"
	"go.trai.ch/baler/internal/core/domain"
	"go.trai.ch/baler/internal/core/ports"
	"go.trai.ch/baler/internal/engine/pipeline"
	"go.trai.ch/zerr"
)

// App ties the configuration, the build pipeline and the generator into
// the operations the CLI exposes.
type App struct {
	configLoader ports.ConfigLoader
	pipeline     *pipeline.Pipeline
	generator    ports.Generator
	logger       ports.Logger
}

// New creates a new App instance.
func New(loader ports.ConfigLoader, p *pipeline.Pipeline, gen ports.Generator, logger ports.Logger) *App {
	return &App{
		configLoader: loader,
		pipeline:     p,
		generator:    gen,
		logger:       logger,
	}
}

// BuildOptions control a single build.
type BuildOptions struct {
	// ConfigPath is a configuration file or a directory to start discovery
	// from. Empty means the current directory.
	ConfigPath string

	// NoCache forces preprocessing even for unchanged sources.
	NoCache bool
}

// Build runs the full pipeline and writes the generated artifact.
func (a *App) Build(ctx context.Context, opts BuildOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	manifest, err := a.pipeline.Run(ctx, cfg, pipeline.RunOptions{NoCache: opts.NoCache})
	if err != nil {
		return zerr.Wrap(err, "build failed")
	}

	if err := a.generator.Generate(cfg, manifest); err != nil {
		return zerr.Wrap(err, "generation failed")
	}

	a.logger.Info(fmt.Sprintf("built %d assets into %s", manifest.Len(), cfg.Out))
	return nil
}

// ServeOptions control the dev server.
type ServeOptions struct {
	// ConfigPath is a configuration file or a directory to start discovery
	// from. Empty means the current directory.
	ConfigPath string

	// Addr is the listen address.
	Addr string

	// Watch rebuilds and republishes the table when sources change.
	Watch bool
}

// Serve builds the manifest and serves it over HTTP until ctx is
// canceled. With Watch enabled, source changes trigger a rebuild; the
// published table is only swapped when the rebuild succeeds.
func (a *App) Serve(ctx context.Context, opts ServeOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	manifest, err := a.pipeline.Run(ctx, cfg, pipeline.RunOptions{})
	if err != nil {
		return zerr.Wrap(err, "build failed")
	}

	table, err := devserver.TableFromManifest(manifest, cfg.Index)
	if err != nil {
		return zerr.Wrap(err, "failed to build asset table")
	}

	server := devserver.New(opts.Addr, table, a.logger)

	if opts.Watch {
		watcher, err := devserver.NewWatcher(func([]string) {
			a.rebuild(ctx, cfg, server)
		}, a.logger)
		if err != nil {
			return err
		}
		root := filepath.Join(cfg.Dir, filepath.FromSlash(cfg.Root))
		if err := watcher.Start(ctx, root); err != nil {
			return err
		}
		defer watcher.Stop() //nolint:errcheck // best effort on shutdown
		a.logger.Info("watching " + root)
	}

	return server.ListenAndServe(ctx)
}

// rebuild runs the pipeline after a watch event. A failed rebuild keeps
// the previous table so the server never serves a half-built state.
func (a *App) rebuild(ctx context.Context, cfg *domain.Config, server *devserver.Server) {
	manifest, err := a.pipeline.Run(ctx, cfg, pipeline.RunOptions{})
	if err != nil {
		a.logger.Error(zerr.Wrap(err, "rebuild failed, keeping previous build"))
		return
	}

	table, err := devserver.TableFromManifest(manifest, cfg.Index)
	if err != nil {
		a.logger.Error(zerr.Wrap(err, "rebuild failed, keeping previous build"))
		return
	}

	server.Swap(table)
	a.logger.Info(fmt.Sprintf("rebuilt %d assets", manifest.Len()))
}

// CleanOptions control what Clean removes.
type CleanOptions struct {
	// ConfigPath is a configuration file or a directory to start discovery
	// from. Empty means the current directory.
	ConfigPath string

	// Generated additionally removes the generated artifacts in the output
	// directory.
	Generated bool
}

// Clean removes the compile cache, and with Generated also the generated
// source file and embedded payload tree.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	cfg, err := a.loadConfig(opts.ConfigPath)
	if err != nil {
		return err
	}

	cacheDir := filepath.Join(cfg.Dir, domain.BalerDirName)
	if err := os.RemoveAll(cacheDir); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to remove cache"), "path", cacheDir)
	}
	a.logger.Info("removed " + cacheDir)

	if !opts.Generated {
		return nil
	}

	out := filepath.Join(cfg.Dir, filepath.FromSlash(cfg.Out))
	for _, path := range []string{
		filepath.Join(out, domain.FilesDirName),
		filepath.Join(out, domain.GeneratedFileName),
	} {
		if err := os.RemoveAll(path); err != nil {
			return zerr.With(zerr.Wrap(err, "failed to remove generated artifact"), "path", path)
		}
		a.logger.Info("removed " + path)
	}
	return nil
}

func (a *App) loadConfig(path string) (*domain.Config, error) {
	if path == "" {
		path = "."
	}
	cfg, err := a.configLoader.Load(path)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}
