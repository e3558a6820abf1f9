// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "slices"

// ResolveTools returns tool views for ids, which may name project tools or
// templates.
func (a *Arena) ResolveTools(ids []string) ([]*Tool, error) {
	out := make([]*Tool, 0, len(ids))
	for _, id := range ids {
		t, err := a.Tool(id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// CancelCommon drops from both lists every tool whose real identity appears
// in both, and returns the cancelled identities in removal order.
func CancelCommon(removed, added []*Tool) (keptRemoved, keptAdded []*Tool, cancelled []string) {
	inRemoved := make(map[string]struct{}, len(removed))
	for _, t := range removed {
		inRemoved[t.RealID()] = struct{}{}
	}
	inAdded := make(map[string]struct{}, len(added))
	for _, t := range added {
		inAdded[t.RealID()] = struct{}{}
	}

	for _, t := range removed {
		real := t.RealID()
		if _, both := inAdded[real]; both {
			if !slices.Contains(cancelled, real) {
				cancelled = append(cancelled, real)
			}
			continue
		}
		keptRemoved = append(keptRemoved, t)
	}
	for _, t := range added {
		if _, both := inRemoved[t.RealID()]; !both {
			keptAdded = append(keptAdded, t)
		}
	}
	return keptRemoved, keptAdded, cancelled
}

// ProjectTools returns current without the removed tools and with the added
// ones appended. A current tool counts as removed when a removed entry has
// its id or its real identity.
func ProjectTools(current, removed, added []*Tool) []*Tool {
	var out []*Tool
	for _, t := range current {
		if !containsTool(removed, t) {
			out = append(out, t)
		}
	}
	return append(out, added...)
}

func containsTool(list []*Tool, t *Tool) bool {
	for _, c := range list {
		if c.ID() == t.ID() || c.RealID() == t.RealID() {
			return true
		}
	}
	return false
}
