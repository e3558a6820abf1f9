// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package session

import (
	"context"
	"fmt"

	"github.com/specialistvlad/mbuildgo/internal/conflict"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/modify"
	"github.com/specialistvlad/mbuildgo/internal/properties"
	"github.com/specialistvlad/mbuildgo/internal/swap"
	"github.com/zclconf/go-cty/cty"
)

// WorkingCopy is a private, mutable copy of a project's tree. Every
// operation works on the copy only; Commit makes it the project's tree.
type WorkingCopy struct {
	project *Project
	base    uint64
	arena   *model.Arena
	engine  *modify.Engine
	swap    *swap.Orchestrator
	closed  bool
}

// Arena returns the tree being edited.
func (w *WorkingCopy) Arena() *model.Arena {
	return w.arena
}

// Commit replaces the project's tree with this copy.
func (w *WorkingCopy) Commit(ctx context.Context) error {
	if w.closed {
		return ErrClosed
	}
	if err := w.project.commit(ctx, w); err != nil {
		return err
	}
	w.closed = true
	return nil
}

// Discard drops the copy. Discarding twice, or after a commit, is a no-op.
func (w *WorkingCopy) Discard(ctx context.Context) {
	if w.closed {
		return
	}
	w.closed = true
	ctxlog.FromContext(ctx).Debug("Discarded working copy.", "base", w.base)
}

func (w *WorkingCopy) open() error {
	if w.closed {
		return ErrClosed
	}
	return nil
}

// CreateConfiguration adds a configuration with a root folder owning an
// instance of toolChainTemplate.
func (w *WorkingCopy) CreateConfiguration(ctx context.Context, id, name, toolChainTemplate string, natures []string) (*model.Configuration, error) {
	if err := w.open(); err != nil {
		return nil, err
	}
	tmpl, ok := w.project.reg.Template(toolChainTemplate)
	if !ok || tmpl.Kind != model.KindToolChain {
		return nil, &model.BuildError{
			Op:     "create configuration",
			ID:     id,
			Reason: fmt.Sprintf("no tool-chain template %q", toolChainTemplate),
			Err:    model.ErrNotFound,
		}
	}

	a := w.arena
	cfg := &model.Object{ID: id, Kind: model.KindConfiguration, Name: name}
	if err := a.Add(cfg); err != nil {
		return nil, err
	}
	if len(natures) > 0 {
		if err := a.SetAttr(id, model.AttrNatures, model.ListValue(natures)); err != nil {
			return nil, err
		}
	}
	folder := &model.Object{ID: w.engine.Generator().Next(id + ".root"), Kind: model.KindFolderInfo, Parent: id}
	if err := a.Add(folder); err != nil {
		return nil, err
	}
	if err := a.SetAttr(folder.ID, model.AttrPath, model.StringValue("/")); err != nil {
		return nil, err
	}
	if _, err := model.Instantiate(a, tmpl.ID, folder.ID, w.engine.Generator()); err != nil {
		return nil, &model.BuildError{Op: "create configuration", ID: id, Reason: "cannot build tool-chain", Err: err}
	}
	a.MarkChanged(id)

	ctxlog.FromContext(ctx).Info("Created configuration.", "configuration", id, "toolchain", tmpl.ID)
	return a.Configuration(id)
}

// DuplicateConfiguration copies configID under a new id. Every copied record
// gets a fresh id and references inside the copy follow it.
func (w *WorkingCopy) DuplicateConfiguration(ctx context.Context, configID, newID, name string) (*model.Configuration, error) {
	if err := w.open(); err != nil {
		return nil, err
	}
	a := w.arena
	if _, err := a.Configuration(configID); err != nil {
		return nil, err
	}
	if _, taken := a.Get(newID); taken {
		return nil, fmt.Errorf("duplicate configuration %q: id %q is already in use", configID, newID)
	}

	mapping, err := model.CloneSubtreeAs(a, configID, "", newID, w.engine.Generator())
	if err != nil {
		return nil, err
	}
	copyID := mapping[configID]
	if name != "" {
		if err := a.SetName(copyID, name); err != nil {
			return nil, err
		}
	}
	a.MarkChanged(copyID)
	ctxlog.FromContext(ctx).Info("Duplicated configuration.", "from", configID, "to", copyID, "records", len(mapping))
	return a.Configuration(copyID)
}

// DeleteConfiguration removes a configuration and everything it owns.
func (w *WorkingCopy) DeleteConfiguration(ctx context.Context, configID string) error {
	if err := w.open(); err != nil {
		return err
	}
	if _, err := w.arena.Configuration(configID); err != nil {
		return err
	}
	if err := w.arena.Remove(configID); err != nil {
		return err
	}
	ctxlog.FromContext(ctx).Info("Deleted configuration.", "configuration", configID)
	return nil
}

// CreateTool adds an instance of templateID to a folder's tool-chain or to a
// resource configuration.
func (w *WorkingCopy) CreateTool(ctx context.Context, nodeID, templateID string) (*model.Object, error) {
	if err := w.open(); err != nil {
		return nil, err
	}
	return w.engine.CreateTool(ctx, w.arena, nodeID, templateID)
}

// RemoveTool removes one tool from a folder's tool-chain or a resource
// configuration.
func (w *WorkingCopy) RemoveTool(ctx context.Context, nodeID, toolID string) (*modify.Result, error) {
	if err := w.open(); err != nil {
		return nil, err
	}
	return w.engine.RemoveTool(ctx, w.arena, nodeID, toolID)
}

// ModifyToolChain removes and adds tools in one step.
func (w *WorkingCopy) ModifyToolChain(ctx context.Context, nodeID string, removed, added []string) (*modify.Result, error) {
	if err := w.open(); err != nil {
		return nil, err
	}
	return w.engine.Apply(ctx, w.arena, nodeID, removed, added)
}

// SetOption sets the value of one option of a tool or tool-chain.
func (w *WorkingCopy) SetOption(ctx context.Context, holderID, optionID string, value cty.Value) (*model.Object, error) {
	if err := w.open(); err != nil {
		return nil, err
	}
	if _, err := w.arena.ConfigurationOf(holderID); err != nil {
		return nil, err
	}
	opt, err := w.arena.SetOptionValue(holderID, optionID, value, w.engine.Generator())
	if err != nil {
		return nil, err
	}
	w.arena.MarkChanged(holderID)
	ctxlog.FromContext(ctx).Info("Set option value.", "holder", holderID, "option", optionID, "record", opt.ID)
	return opt, nil
}

// ChangeToolChain swaps the tool-chain of a folder.
func (w *WorkingCopy) ChangeToolChain(ctx context.Context, folderID, templateID, id, name string) (*swap.Outcome, error) {
	if err := w.open(); err != nil {
		return nil, err
	}
	return w.swap.ChangeToolChain(ctx, w.arena, folderID, templateID, id, name)
}

// GetToolChainModificationStatus evaluates a tool-list modification without
// applying it.
func (w *WorkingCopy) GetToolChainModificationStatus(ctx context.Context, nodeID string, removed, added []string) (*conflict.Status, error) {
	if err := w.open(); err != nil {
		return nil, err
	}
	return conflict.ModificationStatus(ctx, w.project.reg, w.arena, nodeID, removed, added)
}

// CheckPropertiesModificationCompatibility checks the build properties of
// configID against a candidate restriction.
func (w *WorkingCopy) CheckPropertiesModificationCompatibility(ctx context.Context, configID string, candidate properties.Restriction) (*properties.Compatibility, error) {
	if err := w.open(); err != nil {
		return nil, err
	}
	return properties.Check(ctx, w.project.reg, w.arena, configID, candidate)
}

// IsToolChainCompatible reports whether configID could adopt toolChainID,
// a template or a project tool-chain, without losing a required property.
func (w *WorkingCopy) IsToolChainCompatible(ctx context.Context, configID, toolChainID string) (bool, error) {
	if err := w.open(); err != nil {
		return false, err
	}
	cfg, err := w.arena.ConfigurationOf(configID)
	if err != nil {
		return false, err
	}
	candidate, err := properties.ForToolChain(w.project.reg, w.arena, toolChainID, cfg.Natures())
	if err != nil {
		return false, err
	}
	compat, err := properties.Check(ctx, w.project.reg, w.arena, configID, candidate)
	if err != nil {
		return false, err
	}
	return compat.IsCompatible(), nil
}
