// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package conflict

import (
	"context"
	"fmt"
	"maps"

	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/properties"
	"github.com/specialistvlad/mbuildgo/internal/registry"
)

// Status describes what a tool-list modification would lead to. Nothing in
// it is an error: callers present it and decide whether to proceed.
type Status struct {
	// RequiredUnsupported maps required property types the resulting tools
	// do not support to their assigned value.
	RequiredUnsupported map[string]string
	// OptionalUnsupported is the same for property types that are assigned
	// but not required.
	OptionalUnsupported map[string]string
	// Undefined lists property types unknown to the catalog.
	Undefined []string
	// Conflicts groups resulting tools that claim the same input extensions.
	Conflicts [][]*model.Tool
	// Unmanaged lists resulting tools that cannot take part in a managed
	// build while the configuration requires one.
	Unmanaged []*model.Tool
	// Tools is the resulting filtered tool list.
	Tools []*model.Tool
}

// IsOK reports whether the modification raises no blocking condition.
func (s *Status) IsOK() bool {
	return len(s.RequiredUnsupported) == 0 && len(s.Conflicts) == 0 && len(s.Unmanaged) == 0
}

// ModificationStatus evaluates removing and adding tools on a folder or
// resource configuration without changing anything.
func ModificationStatus(ctx context.Context, reg *registry.Registry, a *model.Arena, nodeID string, removedIDs, addedIDs []string) (*Status, error) {
	logger := ctxlog.FromContext(ctx).With("node", nodeID)
	logger.Debug("Computing tool-list modification status.", "removed", removedIDs, "added", addedIDs)

	holder, err := a.ToolHolder(nodeID)
	if err != nil {
		return nil, err
	}
	cfg, err := a.ConfigurationOf(nodeID)
	if err != nil {
		return nil, err
	}
	removed, err := a.ResolveTools(removedIDs)
	if err != nil {
		return nil, fmt.Errorf("removed tools: %w", err)
	}
	added, err := a.ResolveTools(addedIDs)
	if err != nil {
		return nil, fmt.Errorf("added tools: %w", err)
	}
	removed, added, cancelled := model.CancelCommon(removed, added)
	if len(cancelled) > 0 {
		logger.Debug("Removed and added tools cancel out.", "identities", cancelled)
	}

	current := toolViews(a, a.Children(holder.ID, model.KindTool))
	tools := model.FilterTools(model.ProjectTools(current, removed, added), cfg.Natures())

	st := &Status{
		Conflicts: CalculateConflictingTools(tools),
		Tools:     tools,
	}
	if cfg.ManagedBuildOn() {
		for _, t := range tools {
			if !t.SupportsManagedBuild() {
				st.Unmanaged = append(st.Unmanaged, t)
			}
		}
	}

	toolChainID := holder.ID
	if holder.Kind != model.KindToolChain {
		tc, err := cfg.ToolChain()
		if err != nil {
			return nil, err
		}
		toolChainID = tc.ID()
	}
	compat, err := properties.Check(ctx, reg, a, cfg.ID(), properties.ForTools(reg, a, toolChainID, tools))
	if err != nil {
		return nil, err
	}
	st.RequiredUnsupported = compat.RequiredUnsupported
	st.OptionalUnsupported = maps.Clone(compat.AllUnsupported)
	maps.DeleteFunc(st.OptionalUnsupported, func(k, _ string) bool {
		_, required := compat.RequiredUnsupported[k]
		return required
	})
	st.Undefined = compat.Undefined

	logger.Debug("Tool-list modification status computed.",
		"tools", len(tools),
		"conflict_groups", len(st.Conflicts),
		"unmanaged", len(st.Unmanaged),
		"required_unsupported", len(st.RequiredUnsupported),
	)
	return st, nil
}

func toolViews(a *model.Arena, objs []*model.Object) []*model.Tool {
	out := make([]*model.Tool, 0, len(objs))
	for _, obj := range objs {
		out = append(out, a.ToolOf(obj))
	}
	return out
}
