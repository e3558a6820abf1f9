// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package localsession provides a concrete implementation of the
// session.Session and session.Factory interfaces for in-process editing of
// projects kept in a projectstore.Store.
package localsession

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/mbuildgo/internal/converter"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/objid"
	"github.com/specialistvlad/mbuildgo/internal/projectstore"
	"github.com/specialistvlad/mbuildgo/internal/registry"
	"github.com/specialistvlad/mbuildgo/internal/session"
)

// SessionFactory implements session.Factory for local runs.
type SessionFactory struct {
	reg      *registry.Registry
	resolver *converter.Resolver
	store    projectstore.Store
	gen      objid.Generator
}

var _ session.Factory = (*SessionFactory)(nil)

// New wires a factory. A nil gen uses random id suffixes.
func New(reg *registry.Registry, resolver *converter.Resolver, store projectstore.Store, gen objid.Generator) *SessionFactory {
	if gen == nil {
		gen = objid.RandomGenerator{}
	}
	return &SessionFactory{reg: reg, resolver: resolver, store: store, gen: gen}
}

// NewSession opens the stored project name, or starts an empty one when
// nothing was stored under that name yet.
func (f *SessionFactory) NewSession(ctx context.Context, name string) (session.Session, error) {
	logger := ctxlog.FromContext(ctx).With("project", name)

	live, err := f.store.Load(ctx, name)
	fresh := errors.Is(err, projectstore.ErrProjectNotFound)
	switch {
	case fresh:
		logger.Info("Starting new project.")
	case err != nil:
		return nil, fmt.Errorf("open project %q: %w", name, err)
	default:
		logger.Debug("Opened stored project.", "records", live.Len())
	}

	return &Session{
		name:    name,
		store:   f.store,
		project: session.NewProject(f.reg, f.resolver, f.gen, live),
		fresh:   fresh,
	}, nil
}

// Session implements session.Session for local runs.
type Session struct {
	name    string
	store   projectstore.Store
	project *session.Project
	fresh   bool
}

// Project returns the opened project.
func (s *Session) Project() *session.Project {
	return s.project
}

// Close saves the project when it is new or has unsaved changes.
func (s *Session) Close(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx).With("project", s.name)
	if !s.fresh && !s.project.Dirty() {
		logger.Debug("Project unchanged, nothing to save.")
		return nil
	}
	if err := s.store.Save(ctx, s.name, s.project.Snapshot()); err != nil {
		return fmt.Errorf("close project %q: %w", s.name, err)
	}
	s.project.MarkSaved()
	s.fresh = false
	return nil
}
