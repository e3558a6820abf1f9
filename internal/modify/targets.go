// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package modify

import (
	"context"
	"slices"

	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
)

// TargetSnapshot remembers what a target tool produced before it was taken
// away, so a replacement can be picked once it is gone.
type TargetSnapshot struct {
	ToolID string
	// Entries are the target-list entries that named the tool.
	Entries   []string
	Outputs   []string
	Variables []string
}

// TargetChange reports how a target list was re-derived.
type TargetChange struct {
	// Replaced maps a removed target tool to the template id now nominated
	// in its place.
	Replaced map[string]string
	// Dropped lists removed target tools without a replacement.
	Dropped []string
}

// SnapshotTargets records the tools among tools that toolChainID nominates
// as targets.
func SnapshotTargets(a *model.Arena, toolChainID string, tools []*model.Tool) ([]TargetSnapshot, error) {
	tc, err := a.ToolChain(toolChainID)
	if err != nil {
		return nil, err
	}
	list := tc.TargetTools()
	var out []TargetSnapshot
	for _, t := range tools {
		var entries []string
		for _, e := range list {
			if model.MatchesAny(a, t.ID(), []string{e}) {
				entries = append(entries, e)
			}
		}
		if len(entries) == 0 {
			continue
		}
		out = append(out, TargetSnapshot{
			ToolID:    t.ID(),
			Entries:   entries,
			Outputs:   t.OutputExtensions(),
			Variables: t.BuildVariables(),
		})
	}
	return out, nil
}

// RederiveTargets replaces every snapshotted target in toolChainID's target
// list with the best candidate: the one sharing the most output extensions,
// else the first one sharing a build variable. Targets without a candidate
// are dropped. The list is written to the tool-chain only when it changes.
func RederiveTargets(ctx context.Context, a *model.Arena, toolChainID string, removed []TargetSnapshot, candidates []*model.Tool) (*TargetChange, error) {
	logger := ctxlog.FromContext(ctx).With("toolchain", toolChainID)
	change := &TargetChange{Replaced: make(map[string]string)}
	if len(removed) == 0 {
		return change, nil
	}

	tc, err := a.ToolChain(toolChainID)
	if err != nil {
		return nil, err
	}
	current := tc.TargetTools()
	list := slices.Clone(current)

	for _, snap := range removed {
		named := func(e string) bool { return slices.Contains(snap.Entries, e) }
		at := slices.IndexFunc(list, named)
		list = slices.DeleteFunc(list, named)

		best, ok := bestTarget(snap, candidates)
		if !ok {
			change.Dropped = append(change.Dropped, snap.ToolID)
			logger.Info("Dropped target tool without replacement.", "tool", snap.ToolID)
			continue
		}
		repl := templateOf(a, best.ID())
		change.Replaced[snap.ToolID] = repl
		if model.MatchesAny(a, best.ID(), list) {
			continue
		}
		if at < 0 {
			list = append(list, repl)
		} else {
			list = slices.Insert(list, at, repl)
		}
		logger.Debug("Replaced target tool.", "tool", snap.ToolID, "replacement", repl)
	}

	if !slices.Equal(list, current) {
		if err := a.SetAttr(toolChainID, model.AttrTargetTools, model.ListValue(list)); err != nil {
			return nil, err
		}
	}
	return change, nil
}

func bestTarget(snap TargetSnapshot, candidates []*model.Tool) (*model.Tool, bool) {
	var best *model.Tool
	bestOverlap := 0
	for _, c := range candidates {
		if n := overlap(snap.Outputs, c.OutputExtensions()); n > bestOverlap {
			best, bestOverlap = c, n
		}
	}
	if best != nil {
		return best, true
	}
	for _, c := range candidates {
		if overlap(snap.Variables, c.BuildVariables()) > 0 {
			return c, true
		}
	}
	return nil, false
}

func overlap(a, b []string) int {
	n := 0
	for _, s := range a {
		if slices.Contains(b, s) {
			n++
		}
	}
	return n
}

// templateOf returns the nearest template on id's superclass chain, which is
// what target lists name.
func templateOf(a *model.Arena, id string) string {
	for _, obj := range a.SuperChain(id) {
		if obj.Extension {
			return obj.ID
		}
	}
	return id
}
