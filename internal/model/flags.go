// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

// IsDirty reports whether id has unsaved changes.
func (a *Arena) IsDirty(id string) bool {
	obj, ok := a.Get(id)
	return ok && obj.dirty
}

// NeedsRebuild reports whether id has changes that invalidate build output.
func (a *Arena) NeedsRebuild(id string) bool {
	obj, ok := a.Get(id)
	return ok && obj.rebuild
}

// SetDirty raises the dirty flag on id and every owner above it, or clears
// it on id and everything it owns.
func (a *Arena) SetDirty(id string, dirty bool) {
	a.propagate(id, dirty, func(o *Object, v bool) { o.dirty = v })
}

// SetRebuild raises the needs-rebuild flag on id and every owner above it,
// or clears it on id and everything it owns.
func (a *Arena) SetRebuild(id string, rebuild bool) {
	a.propagate(id, rebuild, func(o *Object, v bool) { o.rebuild = v })
}

// MarkChanged is the usual pairing after a structural edit: dirty and
// needs-rebuild raised on id and its owners.
func (a *Arena) MarkChanged(id string) {
	a.SetDirty(id, true)
	a.SetRebuild(id, true)
}

func (a *Arena) propagate(id string, v bool, set func(*Object, bool)) {
	if a.frozen {
		return
	}
	obj, ok := a.objects[id]
	if !ok || obj.Extension {
		return
	}
	set(obj, v)
	if v {
		for _, anc := range a.Ancestors(id) {
			if local, ok := a.objects[anc.ID]; ok && !local.Extension {
				set(local, true)
			}
		}
		return
	}
	for _, childID := range obj.Children {
		a.propagate(childID, false, set)
	}
}
