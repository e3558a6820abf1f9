// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package conflict detects tools that would compete for the same source
// files and computes the status of a proposed tool-list modification.
package conflict

import (
	"slices"

	"github.com/specialistvlad/mbuildgo/internal/model"
)

// ConflictingInputExtensions returns the input extensions both tools claim,
// in the order a lists them.
func ConflictingInputExtensions(a, b *model.Tool) []string {
	theirs := b.InputExtensions()
	var out []string
	for _, ext := range a.InputExtensions() {
		if slices.Contains(theirs, ext) {
			out = append(out, ext)
		}
	}
	return out
}

// Conflicts reports whether two tools share any input extension.
func Conflicts(a, b *model.Tool) bool {
	return len(ConflictingInputExtensions(a, b)) > 0
}

// CalculateConflictingTools groups the tools that share input extensions.
//
// Tools are visited in order. Each unvisited tool seeds a group and moves
// every remaining tool it conflicts with into that group; each absorbed tool
// is then expanded the same way until no remaining tool conflicts with any
// member. Member order follows absorption order. Groups with a single member
// are not reported, and every tool appears in at most one group.
func CalculateConflictingTools(tools []*model.Tool) [][]*model.Tool {
	remaining := slices.Clone(tools)
	var groups [][]*model.Tool

	for len(remaining) > 0 {
		group := []*model.Tool{remaining[0]}
		remaining = remaining[1:]

		for next := 0; next < len(group); next++ {
			member := group[next]
			var rest []*model.Tool
			for _, candidate := range remaining {
				if Conflicts(member, candidate) {
					group = append(group, candidate)
				} else {
					rest = append(rest, candidate)
				}
			}
			remaining = rest
		}

		if len(group) > 1 {
			groups = append(groups, group)
		}
	}
	return groups
}
