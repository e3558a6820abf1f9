// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// Arena stores build-object records by id. A project arena layers its own
// mutable records over a read-only base (the extension templates); lookups
// fall through to the base when an id is not local.
type Arena struct {
	base    Lookup
	objects map[string]*Object
	roots   []string
	frozen  bool
}

// NewArena returns an empty arena resolving missing ids through base, which
// may be nil.
func NewArena(base Lookup) *Arena {
	return &Arena{
		base:    base,
		objects: make(map[string]*Object),
	}
}

// Base returns the lookup this arena falls back to.
func (a *Arena) Base() Lookup {
	return a.base
}

// Get implements Lookup.
func (a *Arena) Get(id string) (*Object, bool) {
	if obj, ok := a.objects[id]; ok {
		return obj, true
	}
	if a.base != nil {
		return a.base.Get(id)
	}
	return nil, false
}

// Local returns a record only if it is stored in this arena itself.
func (a *Arena) Local(id string) (*Object, bool) {
	obj, ok := a.objects[id]
	return obj, ok
}

// Must returns the record for id or an error wrapping ErrNotFound.
func (a *Arena) Must(id string) (*Object, error) {
	obj, ok := a.Get(id)
	if !ok {
		return nil, notFound(id)
	}
	return obj, nil
}

// Frozen reports whether the arena rejects mutation.
func (a *Arena) Frozen() bool {
	return a.frozen
}

// Freeze makes the arena permanently read-only.
func (a *Arena) Freeze() {
	a.frozen = true
}

// Len returns the number of local records.
func (a *Arena) Len() int {
	return len(a.objects)
}

// Roots returns the ids of local records without an owner, in insertion
// order.
func (a *Arena) Roots() []string {
	return slices.Clone(a.roots)
}

// IDs returns every local id in insertion-independent, sorted order.
func (a *Arena) IDs() []string {
	return SortedKeys(a.objects)
}

// Add stores obj and links it into its parent's child list. The parent, if
// named, must be local.
func (a *Arena) Add(obj *Object) error {
	if a.frozen {
		return fmt.Errorf("add %q: %w", obj.ID, ErrReadOnly)
	}
	if obj.ID == "" {
		return fmt.Errorf("add: build object id cannot be empty")
	}
	if _, exists := a.Get(obj.ID); exists {
		return fmt.Errorf("add: duplicate build object id %q", obj.ID)
	}
	if obj.Attrs == nil {
		obj.Attrs = make(map[string]cty.Value)
	}
	if obj.Extension {
		obj.dirty, obj.rebuild = false, false
	}

	if obj.Parent != "" {
		parent, ok := a.objects[obj.Parent]
		if !ok {
			return fmt.Errorf("add %q: parent %w", obj.ID, notFound(obj.Parent))
		}
		if !slices.Contains(parent.Children, obj.ID) {
			parent.Children = append(parent.Children, obj.ID)
		}
	} else {
		a.roots = append(a.roots, obj.ID)
	}
	a.objects[obj.ID] = obj
	return nil
}

// Insert stores obj at position index of its parent's child list.
func (a *Arena) Insert(obj *Object, index int) error {
	if err := a.Add(obj); err != nil {
		return err
	}
	if obj.Parent == "" {
		return nil
	}
	parent := a.objects[obj.Parent]
	parent.Children = slices.DeleteFunc(parent.Children, func(id string) bool { return id == obj.ID })
	index = max(0, min(index, len(parent.Children)))
	parent.Children = slices.Insert(parent.Children, index, obj.ID)
	return nil
}

// Move repositions a local record within its parent's child list.
func (a *Arena) Move(id string, index int) error {
	obj, err := a.mutable(id)
	if err != nil {
		return err
	}
	parent, ok := a.objects[obj.Parent]
	if !ok {
		return fmt.Errorf("move %q: record has no local parent", id)
	}
	parent.Children = slices.DeleteFunc(parent.Children, func(c string) bool { return c == id })
	index = max(0, min(index, len(parent.Children)))
	parent.Children = slices.Insert(parent.Children, index, id)
	return nil
}

// Remove deletes a local record together with every record it owns.
func (a *Arena) Remove(id string) error {
	if a.frozen {
		return fmt.Errorf("remove %q: %w", id, ErrReadOnly)
	}
	obj, ok := a.objects[id]
	if !ok {
		return notFound(id)
	}
	for _, child := range slices.Clone(obj.Children) {
		if _, local := a.objects[child]; local {
			if err := a.Remove(child); err != nil {
				return err
			}
		}
	}
	if parent, ok := a.objects[obj.Parent]; ok {
		parent.Children = slices.DeleteFunc(parent.Children, func(c string) bool { return c == id })
	}
	a.roots = slices.DeleteFunc(a.roots, func(r string) bool { return r == id })
	delete(a.objects, id)
	return nil
}

// Reparent moves a local record under a new local owner, appending it to the
// new owner's children.
func (a *Arena) Reparent(id, newParent string) error {
	obj, err := a.mutable(id)
	if err != nil {
		return err
	}
	parent, ok := a.objects[newParent]
	if !ok {
		return notFound(newParent)
	}
	if old, ok := a.objects[obj.Parent]; ok {
		old.Children = slices.DeleteFunc(old.Children, func(c string) bool { return c == id })
	} else {
		a.roots = slices.DeleteFunc(a.roots, func(r string) bool { return r == id })
	}
	obj.Parent = newParent
	parent.Children = append(parent.Children, id)
	return nil
}

// Clone returns an independent, unfrozen copy of the local records sharing
// the same base.
func (a *Arena) Clone() *Arena {
	c := &Arena{
		base:    a.base,
		objects: make(map[string]*Object, len(a.objects)),
		roots:   slices.Clone(a.roots),
	}
	for id, obj := range a.objects {
		c.objects[id] = obj.clone()
	}
	return c
}

// SetAttr sets an attribute on a mutable record.
func (a *Arena) SetAttr(id, name string, v cty.Value) error {
	obj, err := a.mutable(id)
	if err != nil {
		return err
	}
	obj.Attrs[name] = v
	return nil
}

// ClearAttr removes a locally set attribute so that the inherited value
// shows through again.
func (a *Arena) ClearAttr(id, name string) error {
	obj, err := a.mutable(id)
	if err != nil {
		return err
	}
	delete(obj.Attrs, name)
	return nil
}

// SetName sets the display name of a mutable record.
func (a *Arena) SetName(id, name string) error {
	obj, err := a.mutable(id)
	if err != nil {
		return err
	}
	obj.Name = name
	return nil
}

func (a *Arena) mutable(id string) (*Object, error) {
	if a.frozen {
		return nil, fmt.Errorf("%q: %w", id, ErrReadOnly)
	}
	obj, ok := a.objects[id]
	if !ok {
		if _, inBase := a.Get(id); inBase {
			return nil, fmt.Errorf("%q: %w", id, ErrReadOnly)
		}
		return nil, notFound(id)
	}
	if obj.Extension {
		return nil, fmt.Errorf("%q: %w", id, ErrReadOnly)
	}
	return obj, nil
}
