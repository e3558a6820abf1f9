// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/mbuildgo/internal/config"
	"github.com/specialistvlad/mbuildgo/internal/converter"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/localsession"
	"github.com/specialistvlad/mbuildgo/internal/objid"
	"github.com/specialistvlad/mbuildgo/internal/projectstore"
	"github.com/specialistvlad/mbuildgo/internal/registry"
	"github.com/specialistvlad/mbuildgo/internal/session"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *registry.Registry
	store    projectstore.Store
	sessions session.Factory
}

// Option customizes NewApp.
type Option func(*options)

type options struct {
	modules []registry.Module
	store   projectstore.Store
	gen     objid.Generator
}

// WithModules replaces the compiled-in handler modules.
func WithModules(modules ...registry.Module) Option {
	return func(o *options) { o.modules = modules }
}

// WithStore replaces the file store rooted at Config.ProjectsDir.
func WithStore(store projectstore.Store) Option {
	return func(o *options) { o.store = store }
}

// WithGenerator replaces the random id generator.
func WithGenerator(gen objid.Generator) Option {
	return func(o *options) { o.gen = gen }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
func NewApp(outW io.Writer, cfg *Config, loader config.Loader, opts ...Option) (*App, error) {
	o := &options{modules: coreModules, gen: objid.RandomGenerator{}}
	for _, opt := range opts {
		opt(o)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	reg, err := loadRegistry(ctx, loader, cfg.TemplatePaths, o.modules)
	if err != nil {
		return nil, err
	}
	resolver, err := converter.NewResolver(reg, cfg.ConverterCacheSize)
	if err != nil {
		return nil, err
	}

	store := o.store
	if store == nil {
		store = projectstore.NewFileStore(cfg.ProjectsDir, reg)
	}
	logger.Debug("Project store configured.", "projects_dir", cfg.ProjectsDir)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		store:    store,
		sessions: localsession.New(reg, resolver, store, o.gen),
	}, nil
}

// Registry returns the application's registry.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Context attaches the application's logger to ctx.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
