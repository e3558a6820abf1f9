// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package modify

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/objid"
)

// CreateTool adds an instance of templateID to holderID. A template that is
// one of the holder's hidden slots is shown again and the instance overrides
// that slot.
func CreateTool(a *model.Arena, holderID, templateID string, gen objid.Generator) (*model.Object, error) {
	tmpl, err := a.Must(templateID)
	if err != nil {
		return nil, err
	}
	if tmpl.Kind != model.KindTool {
		return nil, fmt.Errorf("create tool from %q: not a tool", templateID)
	}
	if err := showSlot(a, holderID, templateID); err != nil {
		return nil, err
	}
	obj, err := model.Instantiate(a, templateID, holderID, gen)
	if err != nil {
		return nil, fmt.Errorf("create tool from %q: %w", templateID, err)
	}
	return obj, nil
}

// RemoveTool takes the tool toolID out of holderID's resolved tool list. An
// owned instance is deleted; an inherited slot, including one an owned
// instance used to override, is hidden through unused_children.
func RemoveTool(a *model.Arena, holderID, toolID string) error {
	var found *model.Object
	for _, t := range a.Children(holderID, model.KindTool) {
		if t.ID == toolID {
			found = t
			break
		}
	}
	if found == nil {
		return fmt.Errorf("remove tool %q from %q: %w", toolID, holderID, model.ErrNotFound)
	}

	local, owned := a.Local(found.ID)
	if !owned || local.Extension || local.Parent != holderID {
		return hideSlot(a, holderID, found.ID)
	}
	if err := a.Remove(found.ID); err != nil {
		return err
	}
	if found.SuperClass == "" {
		return nil
	}
	for _, t := range a.Children(holderID, model.KindTool) {
		if t.ID == found.SuperClass {
			return hideSlot(a, holderID, t.ID)
		}
	}
	return nil
}

func showSlot(a *model.Arena, holderID, slotID string) error {
	unused := localUnused(a, holderID)
	if !slices.Contains(unused, slotID) {
		return nil
	}
	unused = slices.DeleteFunc(unused, func(id string) bool { return id == slotID })
	if len(unused) == 0 {
		return a.ClearAttr(holderID, model.AttrUnusedChildren)
	}
	return a.SetAttr(holderID, model.AttrUnusedChildren, model.ListValue(unused))
}

func hideSlot(a *model.Arena, holderID, slotID string) error {
	unused := localUnused(a, holderID)
	if slices.Contains(unused, slotID) {
		return nil
	}
	return a.SetAttr(holderID, model.AttrUnusedChildren, model.ListValue(append(unused, slotID)))
}

// localUnused reads unused_children as set on the record itself; the
// attribute only hides slots at the level that declares it.
func localUnused(a *model.Arena, id string) []string {
	v, _ := a.LocalAttr(id, model.AttrUnusedChildren)
	return model.AsList(v)
}
