// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package swap

import (
	"slices"

	"github.com/specialistvlad/mbuildgo/internal/model"
)

type toolPair struct {
	from, to *model.Tool
	shared   int
}

// matchTools pairs old and new tools greedily: the pair sharing the most
// input extensions goes first, ties resolved by list order, until no
// remaining pair shares any extension.
func matchTools(old, fresh []*model.Tool) []toolPair {
	oldExts := make([][]string, len(old))
	for i, t := range old {
		oldExts[i] = t.InputExtensions()
	}
	freshExts := make([][]string, len(fresh))
	for j, t := range fresh {
		freshExts[j] = t.InputExtensions()
	}
	usedOld := make([]bool, len(old))
	usedFresh := make([]bool, len(fresh))

	var pairs []toolPair
	for {
		bi, bj, best := -1, -1, 0
		for i := range old {
			if usedOld[i] {
				continue
			}
			for j := range fresh {
				if usedFresh[j] {
					continue
				}
				if n := shared(oldExts[i], freshExts[j]); n > best {
					bi, bj, best = i, j, n
				}
			}
		}
		if best == 0 {
			return pairs
		}
		usedOld[bi], usedFresh[bj] = true, true
		pairs = append(pairs, toolPair{from: old[bi], to: fresh[bj], shared: best})
	}
}

func shared(a, b []string) int {
	n := 0
	for _, s := range a {
		if slices.Contains(b, s) {
			n++
		}
	}
	return n
}
