// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// SuperChain returns the record for id followed by each of its superclasses,
// ending at the extension root. A superclass id that does not resolve ends
// the chain; a cycle is cut at the first repeated id.
func (a *Arena) SuperChain(id string) []*Object {
	var chain []*Object
	seen := make(map[string]struct{})
	for id != "" {
		if _, dup := seen[id]; dup {
			break
		}
		obj, ok := a.Get(id)
		if !ok {
			break
		}
		seen[id] = struct{}{}
		chain = append(chain, obj)
		id = obj.SuperClass
	}
	return chain
}

// RealID returns the id of the extension root reached from id. It returns id
// itself when the record is unknown.
func (a *Arena) RealID(id string) string {
	chain := a.SuperChain(id)
	if len(chain) == 0 {
		return id
	}
	return chain[len(chain)-1].ID
}

// SameLogical reports whether two records share their real identity.
func (a *Arena) SameLogical(x, y string) bool {
	return a.RealID(x) == a.RealID(y)
}

// DerivesFrom reports whether ancestor appears on the superclass chain of
// id, id itself included.
func (a *Arena) DerivesFrom(id, ancestor string) bool {
	for _, obj := range a.SuperChain(id) {
		if obj.ID == ancestor {
			return true
		}
	}
	return false
}

// Attr returns the effective value of an attribute: the local value if set,
// otherwise the nearest superclass's value.
func (a *Arena) Attr(id, name string) (cty.Value, bool) {
	for _, obj := range a.SuperChain(id) {
		if v, ok := obj.Attrs[name]; ok {
			return v, true
		}
	}
	return cty.NilVal, false
}

// LocalAttr returns an attribute only if it is set on id itself.
func (a *Arena) LocalAttr(id, name string) (cty.Value, bool) {
	obj, ok := a.Get(id)
	if !ok {
		return cty.NilVal, false
	}
	return obj.LocalAttr(name)
}

// HasAttr reports whether the attribute resolves anywhere on the chain.
func (a *Arena) HasAttr(id, name string) bool {
	_, ok := a.Attr(id, name)
	return ok
}

// String resolves a string attribute.
func (a *Arena) String(id, name string) string {
	v, _ := a.Attr(id, name)
	return AsString(v)
}

// Bool resolves a bool attribute, returning def when it is unset.
func (a *Arena) Bool(id, name string, def bool) bool {
	v, ok := a.Attr(id, name)
	if !ok {
		return def
	}
	return AsBool(v, def)
}

// List resolves a string-list attribute.
func (a *Arena) List(id, name string) []string {
	v, _ := a.Attr(id, name)
	return AsList(v)
}

// StringMap resolves a map-of-strings attribute.
func (a *Arena) StringMap(id, name string) map[string]string {
	v, _ := a.Attr(id, name)
	return AsStringMap(v)
}

// MapList resolves a map-of-string-lists attribute.
func (a *Arena) MapList(id, name string) map[string][]string {
	v, _ := a.Attr(id, name)
	return AsMapList(v)
}

// DisplayName returns the first non-empty name on the superclass chain.
func (a *Arena) DisplayName(id string) string {
	for _, obj := range a.SuperChain(id) {
		if obj.Name != "" {
			return obj.Name
		}
	}
	return ""
}

// MergedChildren resolves the full child list of id by override-merge over
// its superclass chain. Slots named in a record's unused_children attribute
// are hidden at that record's level.
func (a *Arena) MergedChildren(id string) []*Object {
	return a.merge(id, make(map[string]struct{}))
}

func (a *Arena) merge(id string, seen map[string]struct{}) []*Object {
	obj, ok := a.Get(id)
	if !ok {
		return nil
	}
	if _, dup := seen[id]; dup {
		return nil
	}
	seen[id] = struct{}{}

	var slots []*Object
	if obj.SuperClass != "" {
		slots = a.merge(obj.SuperClass, seen)
	}

	for _, childID := range obj.Children {
		child, ok := a.Get(childID)
		if !ok {
			continue
		}
		replaced := false
		if child.SuperClass != "" {
			for i, slot := range slots {
				if slot.ID == child.SuperClass {
					slots[i] = child
					replaced = true
					break
				}
			}
		}
		if !replaced {
			slots = append(slots, child)
		}
	}

	if unused := AsList(obj.Attrs[AttrUnusedChildren]); len(unused) > 0 {
		slots = slices.DeleteFunc(slots, func(s *Object) bool {
			return slices.Contains(unused, s.ID)
		})
	}
	return slots
}

// Children resolves the children of one kind by override-merge.
func (a *Arena) Children(id string, kind Kind) []*Object {
	var out []*Object
	for _, child := range a.MergedChildren(id) {
		if child.Kind == kind {
			out = append(out, child)
		}
	}
	return out
}

// OwnedChildren returns the children of one kind that id itself owns,
// ignoring anything inherited.
func (a *Arena) OwnedChildren(id string, kind Kind) []*Object {
	obj, ok := a.Get(id)
	if !ok {
		return nil
	}
	var out []*Object
	for _, childID := range obj.Children {
		if child, ok := a.Get(childID); ok && child.Kind == kind {
			out = append(out, child)
		}
	}
	return out
}

// Ancestors returns the owners of id from its direct parent up to the root.
func (a *Arena) Ancestors(id string) []*Object {
	var out []*Object
	seen := map[string]struct{}{id: {}}
	obj, ok := a.Get(id)
	for ok && obj.Parent != "" {
		if _, dup := seen[obj.Parent]; dup {
			break
		}
		seen[obj.Parent] = struct{}{}
		obj, ok = a.Get(obj.Parent)
		if ok {
			out = append(out, obj)
		}
	}
	return out
}

// OwnerOfKind returns the nearest owner of id with the given kind.
func (a *Arena) OwnerOfKind(id string, kind Kind) (*Object, bool) {
	for _, anc := range a.Ancestors(id) {
		if anc.Kind == kind {
			return anc, true
		}
	}
	return nil, false
}
