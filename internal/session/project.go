// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package session

import (
	"context"
	"slices"
	"sync"

	"github.com/specialistvlad/mbuildgo/internal/converter"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/modify"
	"github.com/specialistvlad/mbuildgo/internal/objid"
	"github.com/specialistvlad/mbuildgo/internal/registry"
	"github.com/specialistvlad/mbuildgo/internal/swap"
)

// Project is the committed configuration tree of one project. It is safe
// for concurrent use; working copies are not.
type Project struct {
	reg      *registry.Registry
	resolver *converter.Resolver
	gen      objid.Generator

	mu       sync.RWMutex
	live     *model.Arena
	revision uint64
	// unsaved is set when a commit adds or removes configurations, which
	// leaves no dirty flag on the remaining tree.
	unsaved bool
}

// NewProject wraps a project arena layered over reg's templates. A nil
// arena starts an empty project.
func NewProject(reg *registry.Registry, resolver *converter.Resolver, gen objid.Generator, live *model.Arena) *Project {
	if live == nil {
		live = model.NewArena(reg.Arena())
	}
	return &Project{reg: reg, resolver: resolver, gen: gen, live: live}
}

// Registry returns the template registry the project resolves against.
func (p *Project) Registry() *registry.Registry {
	return p.reg
}

// Revision counts the commits made to the project.
func (p *Project) Revision() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.revision
}

// Snapshot returns an independent copy of the committed tree.
func (p *Project) Snapshot() *model.Arena {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.live.Clone()
}

// Dirty reports whether any configuration has changes not yet saved.
func (p *Project) Dirty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.unsaved {
		return true
	}
	for _, id := range p.live.Roots() {
		if p.live.IsDirty(id) {
			return true
		}
	}
	return false
}

// MarkSaved clears the dirty flags of the committed tree.
func (p *Project) MarkSaved() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.unsaved = false
	for _, id := range p.live.Roots() {
		p.live.SetDirty(id, false)
	}
}

// Checkout returns a working copy of the committed tree.
func (p *Project) Checkout(ctx context.Context) *WorkingCopy {
	p.mu.RLock()
	defer p.mu.RUnlock()
	ctxlog.FromContext(ctx).Debug("Checked out working copy.", "revision", p.revision)

	engine := modify.NewEngine(p.reg, p.resolver, p.gen)
	return &WorkingCopy{
		project: p,
		base:    p.revision,
		arena:   p.live.Clone(),
		engine:  engine,
		swap:    swap.New(p.reg, p.resolver, engine),
	}
}

func (p *Project) commit(ctx context.Context, w *WorkingCopy) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if w.base != p.revision {
		ctxlog.FromContext(ctx).Warn("Rejected stale working copy.", "base", w.base, "revision", p.revision)
		return ErrStaleWorkingCopy
	}
	if !slices.Equal(p.live.Roots(), w.arena.Roots()) {
		p.unsaved = true
	}
	p.live = w.arena
	p.revision++
	ctxlog.FromContext(ctx).Info("Committed working copy.", "revision", p.revision)
	return nil
}
