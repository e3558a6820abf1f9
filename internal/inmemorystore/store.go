// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the projectstore.Store interface.
//
// # Purpose
//
// Tests and short-lived tools need somewhere to save projects without
// touching the disk. Projects are kept in their serialized form, so a Load
// always yields a fresh tree that shares nothing with what was saved and
// passes through the same validation as a file on disk.
//
// # Concurrency Model
//
// Each project is an independent key in a sync.Map. Saving one project never
// blocks loading another.
package inmemorystore

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/projectstore"
	"github.com/specialistvlad/mbuildgo/internal/registry"
)

// Store is an in-memory implementation of projectstore.Store.
type Store struct {
	reg      *registry.Registry
	projects sync.Map // Key: project name, Value: []byte (serialized tree)
}

var _ projectstore.Store = (*Store)(nil)

// New creates a new, empty store resolving loaded trees against reg.
func New(reg *registry.Registry) *Store {
	return &Store{reg: reg}
}

// Load implements projectstore.Store.
func (s *Store) Load(ctx context.Context, name string) (*model.Arena, error) {
	data, ok := s.projects.Load(name)
	if !ok {
		return nil, fmt.Errorf("load %q: %w", name, projectstore.ErrProjectNotFound)
	}
	return projectstore.Deserialize(ctx, s.reg, name, data.([]byte))
}

// Save implements projectstore.Store.
func (s *Store) Save(ctx context.Context, name string, a *model.Arena) error {
	if name == "" {
		return fmt.Errorf("invalid project name %q", name)
	}
	data, err := projectstore.Serialize(a)
	if err != nil {
		return err
	}
	s.projects.Store(name, data)
	ctxlog.FromContext(ctx).Debug("Saved project in memory.", "project", name, "bytes", len(data))
	return nil
}

// List implements projectstore.Store.
func (s *Store) List(ctx context.Context) ([]string, error) {
	names := []string{}
	s.projects.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})
	slices.Sort(names)
	return names, nil
}
