// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package modify

import (
	"context"
	"fmt"
	"slices"

	"github.com/specialistvlad/mbuildgo/internal/converter"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/objid"
	"github.com/specialistvlad/mbuildgo/internal/registry"
)

// Engine applies tool-list modifications.
type Engine struct {
	reg      *registry.Registry
	resolver *converter.Resolver
	gen      objid.Generator
}

// NewEngine creates an engine. The resolver's cache is shared by every
// modification the engine runs.
func NewEngine(reg *registry.Registry, resolver *converter.Resolver, gen objid.Generator) *Engine {
	return &Engine{reg: reg, resolver: resolver, gen: gen}
}

// Generator returns the id generator used for new records.
func (e *Engine) Generator() objid.Generator {
	return e.gen
}

// Result describes an applied modification.
type Result struct {
	// Cancelled lists real identities that were both removed and added.
	Cancelled []string
	// Converted holds successful in-place conversions.
	Converted []*converter.Result
	// Failed holds conversions that did not produce a usable tool. The
	// added tool was created from its template instead.
	Failed []*converter.Result
	// Created lists tools instantiated from their templates.
	Created []string
	// Removed lists the ids of removed tools.
	Removed []string
	Targets *TargetChange
}

// Changed reports whether the modification touched the tree.
func (r *Result) Changed() bool {
	return len(r.Converted) > 0 || len(r.Created) > 0 || len(r.Removed) > 0
}

type pairing struct {
	removed *model.Tool
	added   *model.Tool
	info    *converter.Info
}

// Apply removes removedIDs from and adds addedIDs to the tools of nodeID, a
// folder or a resource configuration. Removed ids name tools the node
// currently resolves; added ids name tools or templates.
func (e *Engine) Apply(ctx context.Context, a *model.Arena, nodeID string, removedIDs, addedIDs []string) (*Result, error) {
	logger := ctxlog.FromContext(ctx).With("node", nodeID)
	holder, err := a.ToolHolder(nodeID)
	if err != nil {
		return nil, err
	}
	removed, err := e.present(a, holder.ID, removedIDs)
	if err != nil {
		return nil, err
	}
	added, err := a.ResolveTools(addedIDs)
	if err != nil {
		return nil, fmt.Errorf("added tools: %w", err)
	}

	removed, added, cancelled := model.CancelCommon(removed, added)
	res := &Result{Cancelled: cancelled, Targets: &TargetChange{Replaced: map[string]string{}}}
	if len(cancelled) > 0 {
		logger.Debug("Removed and added tools cancel out.", "identities", cancelled)
	}
	if len(removed) == 0 && len(added) == 0 {
		logger.Debug("Nothing to modify.")
		return res, nil
	}
	logger.Info("Modifying tool list.", "removed", model.ToolIDs(removed), "added", model.ToolIDs(added))

	var snaps []TargetSnapshot
	if holder.Kind == model.KindToolChain {
		if snaps, err = SnapshotTargets(a, holder.ID, removed); err != nil {
			return nil, err
		}
	}

	pairs, removed, added := e.pair(ctx, a, holder.ID, removed, added)

	var fresh []*model.Tool
	for _, p := range pairs {
		at := slices.Index(holder.Children, p.removed.ID())
		r := converter.Invoke(ctx, e.reg, a, e.gen, p.info)
		if !r.OK() {
			res.Failed = append(res.Failed, r)
			removed = append(removed, p.removed)
			added = append(added, p.added)
			continue
		}
		if err := showSlot(a, holder.ID, r.Object.SuperClass); err != nil {
			return nil, err
		}
		if at >= 0 {
			if err := a.Move(r.Object.ID, at); err != nil {
				return nil, err
			}
		}
		res.Converted = append(res.Converted, r)
		removed = append(removed, p.removed)
		fresh = append(fresh, a.ToolOf(r.Object))
	}

	for _, t := range added {
		obj, err := CreateTool(a, holder.ID, t.ID(), e.gen)
		if err != nil {
			return nil, err
		}
		res.Created = append(res.Created, obj.ID)
		fresh = append(fresh, a.ToolOf(obj))
	}

	for _, t := range removed {
		if err := RemoveTool(a, holder.ID, t.ID()); err != nil {
			return nil, err
		}
		res.Removed = append(res.Removed, t.ID())
	}

	if len(snaps) > 0 {
		if res.Targets, err = RederiveTargets(ctx, a, holder.ID, snaps, fresh); err != nil {
			return nil, err
		}
	}

	a.MarkChanged(holder.ID)
	logger.Info("Tool list modified.",
		"converted", len(res.Converted), "failed", len(res.Failed),
		"created", len(res.Created), "removed", len(res.Removed))
	return res, nil
}

// CreateTool adds an instance of templateID to the tools of nodeID.
func (e *Engine) CreateTool(ctx context.Context, a *model.Arena, nodeID, templateID string) (*model.Object, error) {
	holder, err := a.ToolHolder(nodeID)
	if err != nil {
		return nil, err
	}
	obj, err := CreateTool(a, holder.ID, templateID, e.gen)
	if err != nil {
		return nil, err
	}
	a.MarkChanged(holder.ID)
	ctxlog.FromContext(ctx).Info("Tool created.", "node", nodeID, "tool", obj.ID, "template", templateID)
	return obj, nil
}

// RemoveTool takes one tool away from nodeID. It is a modification with a
// single removed tool, so target tools are re-derived as usual.
func (e *Engine) RemoveTool(ctx context.Context, a *model.Arena, nodeID, toolID string) (*Result, error) {
	return e.Apply(ctx, a, nodeID, []string{toolID}, nil)
}

// present maps ids onto the tools holderID currently resolves, matching by
// id first and by real identity second.
func (e *Engine) present(a *model.Arena, holderID string, ids []string) ([]*model.Tool, error) {
	current := a.Children(holderID, model.KindTool)
	out := make([]*model.Tool, 0, len(ids))
	for _, id := range ids {
		idx := slices.IndexFunc(current, func(o *model.Object) bool { return o.ID == id })
		if idx < 0 {
			real := a.RealID(id)
			idx = slices.IndexFunc(current, func(o *model.Object) bool { return a.RealID(o.ID) == real })
		}
		if idx < 0 {
			return nil, fmt.Errorf("tool %q is not used by %q: %w", id, holderID, model.ErrNotFound)
		}
		out = append(out, a.ToolOf(current[idx]))
	}
	return out, nil
}

// pair matches removed tools the holder owns against added tools a converter
// rule can turn them into. It returns the pairs and what is left on both
// sides.
func (e *Engine) pair(ctx context.Context, a *model.Arena, holderID string, removed, added []*model.Tool) ([]pairing, []*model.Tool, []*model.Tool) {
	var pairs []pairing
	var restRemoved []*model.Tool
	taken := make([]bool, len(added))

	for _, r := range removed {
		local, owned := a.Local(r.ID())
		if !owned || local.Parent != holderID || !e.resolver.HasConverters(a, r.ID()) {
			restRemoved = append(restRemoved, r)
			continue
		}
		matched := false
		for i, ad := range added {
			if taken[i] || isOwnedBy(a, ad.ID(), holderID) {
				continue
			}
			info, ok := e.resolver.Find(ctx, a, r.ID(), ad.ID())
			if !ok {
				continue
			}
			taken[i] = true
			pairs = append(pairs, pairing{removed: r, added: ad, info: info})
			matched = true
			break
		}
		if !matched {
			restRemoved = append(restRemoved, r)
		}
	}

	var restAdded []*model.Tool
	for i, ad := range added {
		if !taken[i] {
			restAdded = append(restAdded, ad)
		}
	}
	return pairs, restRemoved, restAdded
}

func isOwnedBy(a *model.Arena, id, holderID string) bool {
	local, ok := a.Local(id)
	return ok && local.Parent == holderID
}
