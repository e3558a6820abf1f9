// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/specialistvlad/mbuildgo/internal/conflict"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/properties"
	"github.com/specialistvlad/mbuildgo/internal/session"
	"github.com/specialistvlad/mbuildgo/internal/swap"
	"github.com/zclconf/go-cty/cty"
)

// edit opens project, runs fn on a working copy and commits it. The project
// is saved only when the commit succeeds, so a failed edit leaves the store
// untouched.
func (a *App) edit(ctx context.Context, project string, fn func(*session.WorkingCopy) error) error {
	ctx = a.Context(ctx)
	s, err := a.sessions.NewSession(ctx, project)
	if err != nil {
		return err
	}

	w := s.Project().Checkout(ctx)
	if err := fn(w); err != nil {
		w.Discard(ctx)
		return err
	}
	if err := w.Commit(ctx); err != nil {
		return err
	}
	return s.Close(ctx)
}

// view runs fn on a working copy of a stored project and discards it.
func (a *App) view(ctx context.Context, project string, fn func(*session.WorkingCopy) error) error {
	ctx = a.Context(ctx)
	if _, err := a.store.Load(ctx, project); err != nil {
		return err
	}
	s, err := a.sessions.NewSession(ctx, project)
	if err != nil {
		return err
	}
	w := s.Project().Checkout(ctx)
	defer w.Discard(ctx)
	return fn(w)
}

// Projects lists the stored projects.
func (a *App) Projects(ctx context.Context) ([]string, error) {
	return a.store.List(a.Context(ctx))
}

// Configurations lists the configurations of a stored project.
func (a *App) Configurations(ctx context.Context, project string) ([]*model.Configuration, error) {
	var out []*model.Configuration
	err := a.view(ctx, project, func(w *session.WorkingCopy) error {
		for _, id := range w.Arena().Roots() {
			if cfg, err := w.Arena().Configuration(id); err == nil {
				out = append(out, cfg)
			}
		}
		return nil
	})
	return out, err
}

// InitProject adds a configuration built on toolChain to project, creating
// the project if needed.
func (a *App) InitProject(ctx context.Context, project, configID, name, toolChain string, natures []string) (*model.Configuration, error) {
	var cfg *model.Configuration
	err := a.edit(ctx, project, func(w *session.WorkingCopy) error {
		c, err := w.CreateConfiguration(a.Context(ctx), configID, name, toolChain, natures)
		if err != nil {
			return err
		}
		if a.config.ManagedBuild {
			if err := w.Arena().SetAttr(c.ID(), model.AttrManagedBuildOn, model.BoolValue(true)); err != nil {
				return err
			}
		}
		cfg = c
		return nil
	})
	return cfg, err
}

// DuplicateConfiguration copies a configuration of project under newID.
func (a *App) DuplicateConfiguration(ctx context.Context, project, configID, newID, name string) (*model.Configuration, error) {
	var cfg *model.Configuration
	err := a.edit(ctx, project, func(w *session.WorkingCopy) error {
		c, err := w.DuplicateConfiguration(a.Context(ctx), configID, newID, name)
		cfg = c
		return err
	})
	return cfg, err
}

// Status evaluates removing and adding tools on the root folder of a
// configuration without changing it.
func (a *App) Status(ctx context.Context, project, configID string, removed, added []string) (*conflict.Status, error) {
	var status *conflict.Status
	err := a.view(ctx, project, func(w *session.WorkingCopy) error {
		folder, err := rootFolder(w, configID)
		if err != nil {
			return err
		}
		status, err = w.GetToolChainModificationStatus(a.Context(ctx), folder, removed, added)
		return err
	})
	return status, err
}

// Modify removes and adds tools on the root folder of a configuration.
func (a *App) Modify(ctx context.Context, project, configID string, removed, added []string) error {
	return a.edit(ctx, project, func(w *session.WorkingCopy) error {
		folder, err := rootFolder(w, configID)
		if err != nil {
			return err
		}
		res, err := w.ModifyToolChain(a.Context(ctx), folder, removed, added)
		if err != nil {
			return err
		}
		for _, f := range res.Failed {
			a.logger.Warn("Tool conversion failed; tool was recreated from its template.", "tool", f.Info.From, "error", f.Err)
		}
		return nil
	})
}

// Check reports whether a configuration can adopt toolChain without losing
// a required build property.
func (a *App) Check(ctx context.Context, project, configID, toolChain string) (*properties.Compatibility, error) {
	var compat *properties.Compatibility
	err := a.view(ctx, project, func(w *session.WorkingCopy) error {
		cfg, err := w.Arena().Configuration(configID)
		if err != nil {
			return err
		}
		candidate, err := properties.ForToolChain(a.registry, w.Arena(), toolChain, cfg.Natures())
		if err != nil {
			return err
		}
		compat, err = w.CheckPropertiesModificationCompatibility(a.Context(ctx), configID, candidate)
		return err
	})
	return compat, err
}

// Swap replaces the tool-chain of a configuration's root folder.
func (a *App) Swap(ctx context.Context, project, configID, toolChain, name string) (*swap.Outcome, error) {
	var out *swap.Outcome
	err := a.edit(ctx, project, func(w *session.WorkingCopy) error {
		ok, err := w.IsToolChainCompatible(a.Context(ctx), configID, toolChain)
		if err == nil && !ok {
			a.logger.Warn("Tool-chain does not support every required build property.", "configuration", configID, "toolchain", toolChain)
		}
		folder, err := rootFolder(w, configID)
		if err != nil {
			return err
		}
		out, err = w.ChangeToolChain(a.Context(ctx), folder, toolChain, "", name)
		return err
	})
	return out, err
}

// SetOption parses raw according to the option's value type and sets it.
func (a *App) SetOption(ctx context.Context, project, holderID, optionID, raw string) error {
	return a.edit(ctx, project, func(w *session.WorkingCopy) error {
		v, err := optionValue(w.Arena(), holderID, optionID, raw)
		if err != nil {
			return err
		}
		_, err = w.SetOption(a.Context(ctx), holderID, optionID, v)
		return err
	})
}

func optionValue(a *model.Arena, holderID, optionID, raw string) (cty.Value, error) {
	for _, opt := range a.Children(holderID, model.KindOption) {
		if a.RealID(opt.ID) != optionID {
			continue
		}
		switch a.String(opt.ID, model.AttrValueType) {
		case model.ValueBoolean:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return cty.NilVal, fmt.Errorf("option %q takes true or false: %w", optionID, err)
			}
			return model.BoolValue(b), nil
		case model.ValueStringList, model.ValuePathList, model.ValueSymbolList:
			if raw == "" {
				return model.ListValue(nil), nil
			}
			return model.ListValue(strings.Split(raw, ",")), nil
		default:
			return model.StringValue(raw), nil
		}
	}
	return cty.NilVal, fmt.Errorf("option %q of %q: %w", optionID, holderID, model.ErrNotFound)
}

func rootFolder(w *session.WorkingCopy, configID string) (string, error) {
	cfg, err := w.Arena().Configuration(configID)
	if err != nil {
		return "", err
	}
	root, err := cfg.RootFolder()
	if err != nil {
		return "", err
	}
	return root.ID(), nil
}

// Describe writes a short summary of project's configurations to the app's
// output.
func (a *App) Describe(ctx context.Context, project string) error {
	cfgs, err := a.Configurations(ctx, project)
	if err != nil {
		return err
	}
	ctxlog.FromContext(a.Context(ctx)).Debug("Describing project.", "project", project, "configurations", len(cfgs))
	for _, cfg := range cfgs {
		fmt.Fprintf(a.outW, "%s (%s)\n", cfg.ID(), cfg.Name())
		tc, err := cfg.ToolChain()
		if err != nil {
			fmt.Fprintf(a.outW, "  no tool-chain: %v\n", err)
			continue
		}
		fmt.Fprintf(a.outW, "  toolchain %s [%s] %s\n", tc.ID(), tc.RealID(), tc.Name())
		for _, tool := range tc.FilteredTools(cfg.Natures()) {
			target := ""
			if tc.IsTargetTool(tool) {
				target = " (target)"
			}
			fmt.Fprintf(a.outW, "    tool %s [%s] %s%s\n", tool.ID(), tool.RealID(), tool.Name(), target)
			for _, opt := range customOptions(tool) {
				fmt.Fprintf(a.outW, "      %s\n", opt)
			}
		}
	}
	return nil
}

// customOptions renders the options of tool that differ from the template.
func customOptions(tool *model.Tool) []string {
	ar := tool.Arena()
	var out []string
	for _, opt := range ar.CustomOptions(tool.ID()) {
		v, _ := ar.Attr(opt.ID, model.AttrValue)
		out = append(out, fmt.Sprintf("%s = %s", ar.RealID(opt.ID), valueString(v)))
	}
	return out
}

func valueString(v cty.Value) string {
	switch {
	case v.IsNull() || !v.IsKnown():
		return "null"
	case v.Type() == cty.String:
		return strconv.Quote(v.AsString())
	case v.Type() == cty.Bool:
		return strconv.FormatBool(v.True())
	case v.CanIterateElements():
		return "[" + strings.Join(model.AsList(v), ", ") + "]"
	default:
		return v.GoString()
	}
}
