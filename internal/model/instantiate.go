// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"maps"

	"github.com/specialistvlad/mbuildgo/internal/objid"
)

// Instantiate creates a project-level copy of the template subtree rooted at
// templateID under parentID. Every created record has a fresh id and names
// the corresponding template record as its superclass, so nothing is copied
// but structure: all attribute values keep resolving from the template.
func Instantiate(a *Arena, templateID, parentID string, gen objid.Generator) (*Object, error) {
	return InstantiateAs(a, templateID, parentID, "", gen)
}

// InstantiateAs is Instantiate with a caller-chosen id for the root copy. An
// empty id is generated.
func InstantiateAs(a *Arena, templateID, parentID, id string, gen objid.Generator) (*Object, error) {
	tmpl, err := a.Must(templateID)
	if err != nil {
		return nil, err
	}
	if id == "" {
		id = gen.Next(a.RealID(templateID))
	}
	obj := &Object{
		ID:         id,
		Kind:       tmpl.Kind,
		SuperClass: templateID,
		Parent:     parentID,
	}
	if err := a.Add(obj); err != nil {
		return nil, fmt.Errorf("instantiate %q: %w", templateID, err)
	}
	for _, child := range a.MergedChildren(templateID) {
		if _, err := Instantiate(a, child.ID, obj.ID, gen); err != nil {
			return nil, err
		}
	}
	return obj, nil
}

// CloneSubtree copies the local subtree rooted at rootID under parentID with
// fresh ids. Superclass references that point inside the subtree are
// remapped to the copies; references to anything else are kept. It returns
// the old-to-new id mapping.
func CloneSubtree(a *Arena, rootID, parentID string, gen objid.Generator) (map[string]string, error) {
	return CloneSubtreeAs(a, rootID, parentID, "", gen)
}

// CloneSubtreeAs is CloneSubtree with a caller-chosen id for the root copy.
// An empty id is generated.
func CloneSubtreeAs(a *Arena, rootID, parentID, newRootID string, gen objid.Generator) (map[string]string, error) {
	if _, ok := a.Local(rootID); !ok {
		return nil, notFound(rootID)
	}

	var order []string
	var walk func(id string)
	walk = func(id string) {
		obj, ok := a.Local(id)
		if !ok {
			return
		}
		order = append(order, id)
		for _, c := range obj.Children {
			walk(c)
		}
	}
	walk(rootID)

	mapping := make(map[string]string, len(order))
	for _, id := range order {
		mapping[id] = gen.Next(a.RealID(id))
	}
	if newRootID != "" {
		mapping[rootID] = newRootID
	}

	for _, id := range order {
		src, _ := a.Local(id)
		dst := &Object{
			ID:         mapping[id],
			Kind:       src.Kind,
			Name:       src.Name,
			SuperClass: src.SuperClass,
			Attrs:      maps.Clone(src.Attrs),
		}
		if mapped, ok := mapping[src.SuperClass]; ok {
			dst.SuperClass = mapped
		}
		if id == rootID {
			dst.Parent = parentID
		} else {
			dst.Parent = mapping[src.Parent]
		}
		if err := a.Add(dst); err != nil {
			return nil, fmt.Errorf("clone %q: %w", id, err)
		}
	}

	// Attributes that name ids inside the subtree follow the copy.
	for _, id := range order {
		dst, _ := a.Local(mapping[id])
		for _, name := range []string{AttrUnusedChildren, AttrSelectedTool} {
			v, ok := dst.Attrs[name]
			if !ok {
				continue
			}
			if name == AttrSelectedTool {
				if mapped, ok := mapping[AsString(v)]; ok {
					dst.Attrs[name] = StringValue(mapped)
				}
				continue
			}
			ids := AsList(v)
			for i, ref := range ids {
				if mapped, ok := mapping[ref]; ok {
					ids[i] = mapped
				}
			}
			dst.Attrs[name] = ListValue(ids)
		}
	}
	return mapping, nil
}
