// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package swap replaces the tool-chain of a folder.
//
// A swap first compares real identities; asking for the tool-chain a folder
// already has is a no-op. Otherwise a tool-chain converter, if one exists,
// converts the chain in place and a tool-list modification settles the
// individual tools. Without a converter, or when it fails, a new tool-chain
// is built from the template and custom option values are carried over to
// the tools that share the most input extensions.
package swap

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/specialistvlad/mbuildgo/internal/converter"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/modify"
	"github.com/specialistvlad/mbuildgo/internal/registry"
)

// Orchestrator drives tool-chain swaps.
type Orchestrator struct {
	reg      *registry.Registry
	resolver *converter.Resolver
	engine   *modify.Engine
}

// New creates an orchestrator. The engine's generator supplies new ids.
func New(reg *registry.Registry, resolver *converter.Resolver, engine *modify.Engine) *Orchestrator {
	return &Orchestrator{reg: reg, resolver: resolver, engine: engine}
}

// Outcome describes a finished swap.
type Outcome struct {
	// Path lists the states the swap went through, ending in Idle.
	Path []State
	// ToolChain is the id of the folder's tool-chain after the swap.
	ToolChain string
	// Unchanged is set when the requested template has the identity of the
	// current tool-chain.
	Unchanged bool
	// Conversion is the tool-chain converter outcome, if one was run.
	Conversion *converter.Result
	// Modification is the tool-list change applied after a conversion.
	Modification *modify.Result
	// Migrated maps old tools to the rebuilt tools that received their
	// custom option values.
	Migrated map[string]string
	Targets  *modify.TargetChange
}

type run struct {
	logger *slog.Logger
	out    *Outcome
	state  State
}

func (r *run) enter(next State) {
	if !slices.Contains(transitions[r.state], next) {
		panic(fmt.Sprintf("swap: illegal transition %s -> %s", r.state, next))
	}
	r.logger.Debug("Swap state changed.", "from", r.state, "to", next)
	r.state = next
	r.out.Path = append(r.out.Path, next)
}

// ChangeToolChain replaces the tool-chain of folderID with one deriving from
// templateID. A non-empty id and name are given to the new tool-chain. The
// template may be a registry template, including an unversioned id
// resolving to its latest version, or a tool-chain of the project.
func (o *Orchestrator) ChangeToolChain(ctx context.Context, a *model.Arena, folderID, templateID, id, name string) (*Outcome, error) {
	logger := ctxlog.FromContext(ctx).With("folder", folderID, "template", templateID)
	r := &run{logger: logger, out: &Outcome{}, state: Idle}

	folder, err := a.FolderInfo(folderID)
	if err != nil {
		return nil, err
	}
	current, err := folder.ToolChain()
	if err != nil {
		return nil, err
	}
	cfg, err := a.ConfigurationOf(folderID)
	if err != nil {
		return nil, err
	}
	natures := cfg.Natures()

	r.enter(EvaluatingIdentity)
	tmpl, ok := o.template(a, templateID)
	if !ok {
		return nil, &model.BuildError{
			Op:     "change tool-chain",
			ID:     folderID,
			Reason: fmt.Sprintf("no tool-chain template %q", templateID),
			Err:    model.ErrNotFound,
		}
	}
	if a.RealID(tmpl.ID) == current.RealID() {
		logger.Info("Requested tool-chain has the current identity; nothing to do.", "toolchain", current.ID())
		r.enter(Idle)
		r.out.Unchanged = true
		r.out.ToolChain = current.ID()
		return r.out, nil
	}
	if id != "" {
		if _, taken := a.Get(id); taken {
			return nil, &model.BuildError{Op: "change tool-chain", ID: folderID, Reason: fmt.Sprintf("id %q is already in use", id)}
		}
	}

	oldTools := current.FilteredTools(natures)
	snaps, err := modify.SnapshotTargets(a, current.ID(), oldTools)
	if err != nil {
		return nil, err
	}

	var newID string
	if info, ok := o.resolver.Find(ctx, a, current.ID(), tmpl.ID); ok {
		r.enter(ConvertingInPlace)
		info.ResultID = id
		if newID, err = o.convertInPlace(ctx, a, folderID, current, tmpl.ID, natures, info, r.out); err != nil {
			return nil, err
		}
	}
	if newID == "" {
		r.enter(RebuildingFromTemplate)
		if newID, err = o.rebuild(ctx, a, folderID, current, tmpl.ID, id, oldTools, natures, r.out); err != nil {
			return nil, err
		}
	}

	r.enter(Applying)
	if name != "" {
		if err := a.SetName(newID, name); err != nil {
			return nil, err
		}
	}
	replacement, err := a.ToolChain(newID)
	if err != nil {
		return nil, err
	}
	if r.out.Targets, err = modify.RederiveTargets(ctx, a, newID, snaps, replacement.FilteredTools(natures)); err != nil {
		return nil, err
	}
	a.MarkChanged(newID)
	r.enter(Idle)

	r.out.ToolChain = newID
	logger.Info("Tool-chain changed.", "from", current.ID(), "to", newID, "path", r.out.Path)
	return r.out, nil
}

func (o *Orchestrator) template(a *model.Arena, id string) (*model.Object, bool) {
	if obj, ok := a.Get(id); ok {
		return obj, obj.Kind == model.KindToolChain
	}
	obj, ok := o.reg.Template(id)
	return obj, ok && obj.Kind == model.KindToolChain
}

// convertInPlace runs the tool-chain converter and settles the tools it
// moved over. It returns an empty id when the converter failed.
func (o *Orchestrator) convertInPlace(ctx context.Context, a *model.Arena, folderID string, current *model.ToolChain, templateID string, natures []string, info *converter.Info, out *Outcome) (string, error) {
	logger := ctxlog.FromContext(ctx)
	res := converter.Invoke(ctx, o.reg, a, o.engine.Generator(), info)
	out.Conversion = res
	if !res.OK() {
		logger.Warn("Tool-chain converter failed; rebuilding from the template.", "error", res.Err, "fatal", res.Fatal)
		return "", nil
	}

	// Every tool now sits on the converted chain; the template's own tools
	// are what the chain should end up with.
	removed := model.ToolIDs(toolsOf(a, res.Object.ID))
	added := model.ToolIDs(model.FilterTools(toolsOf(a, templateID), natures))

	if err := a.Remove(current.ID()); err != nil {
		return "", err
	}
	mod, err := o.engine.Apply(ctx, a, folderID, removed, added)
	if err != nil {
		return "", err
	}
	out.Modification = mod
	return res.Object.ID, nil
}

// rebuild instantiates the template next to the current tool-chain, copies
// custom option values over and removes the current tool-chain.
func (o *Orchestrator) rebuild(ctx context.Context, a *model.Arena, folderID string, current *model.ToolChain, templateID, id string, oldTools []*model.Tool, natures []string, out *Outcome) (string, error) {
	logger := ctxlog.FromContext(ctx)
	gen := o.engine.Generator()

	obj, err := model.InstantiateAs(a, templateID, folderID, id, gen)
	if err != nil {
		return "", &model.BuildError{Op: "change tool-chain", ID: folderID, Reason: "cannot build from template", Err: err}
	}
	if _, err := a.MigrateOptions(current.ID(), obj.ID, gen); err != nil {
		return "", err
	}

	out.Migrated = make(map[string]string)
	newTools := model.FilterTools(toolsOf(a, obj.ID), natures)
	for _, p := range matchTools(oldTools, newTools) {
		n, err := a.MigrateOptions(p.from.ID(), p.to.ID(), gen)
		if err != nil {
			return "", err
		}
		out.Migrated[p.from.ID()] = p.to.ID()
		logger.Debug("Carried tool settings over.", "from", p.from.ID(), "to", p.to.ID(), "shared", p.shared, "options", n)
	}

	if err := a.Remove(current.ID()); err != nil {
		return "", err
	}
	return obj.ID, nil
}

func toolsOf(a *model.Arena, holderID string) []*model.Tool {
	var out []*model.Tool
	for _, obj := range a.Children(holderID, model.KindTool) {
		out = append(out, a.ToolOf(obj))
	}
	return out
}
