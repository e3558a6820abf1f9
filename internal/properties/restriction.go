// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package properties answers which build property types and values a
// tool-chain, a tool, or a combination of them supports, and checks whether
// a configuration's property assignments survive a change of tools.
package properties

import (
	"slices"

	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/registry"
)

// ArtifactType is the property type every configuration implicitly
// requires when it requires nothing explicitly.
const ArtifactType = "artifact.type"

// Restriction describes the build properties something supports.
type Restriction interface {
	SupportsType(typeID string) bool
	SupportsValue(typeID, valueID string) bool
	RequiresType(typeID string) bool
	RequiredTypeIDs() []string
	SupportedTypeIDs() []string
	SupportedValueIDs(typeID string) []string
	// Restricts reports whether the restriction declares anything at all.
	// An object without declarations supports every known type and value.
	Restricts() bool
}

type objectRestriction struct {
	reg       *registry.Registry
	supported map[string][]string
	required  []string
	declared  bool
}

// ForObject returns the restriction declared by a tool or tool-chain
// through its supported_properties and required_properties attributes.
func ForObject(reg *registry.Registry, a *model.Arena, id string) Restriction {
	_, declared := a.Attr(id, model.AttrSupportedProperties)
	return &objectRestriction{
		reg:       reg,
		supported: a.MapList(id, model.AttrSupportedProperties),
		required:  a.List(id, model.AttrRequiredProperties),
		declared:  declared,
	}
}

func (r *objectRestriction) Restricts() bool { return r.declared }

func (r *objectRestriction) SupportsType(typeID string) bool {
	if !r.declared {
		_, known := r.reg.PropertyType(typeID)
		return known
	}
	_, ok := r.supported[typeID]
	return ok
}

func (r *objectRestriction) SupportsValue(typeID, valueID string) bool {
	return slices.Contains(r.SupportedValueIDs(typeID), valueID)
}

func (r *objectRestriction) RequiresType(typeID string) bool {
	return slices.Contains(r.required, typeID)
}

func (r *objectRestriction) RequiredTypeIDs() []string {
	return slices.Clone(r.required)
}

func (r *objectRestriction) SupportedTypeIDs() []string {
	if !r.declared {
		var ids []string
		for _, p := range r.reg.PropertyTypes() {
			ids = append(ids, p.ID)
		}
		return ids
	}
	return model.SortedKeys(r.supported)
}

func (r *objectRestriction) SupportedValueIDs(typeID string) []string {
	if !r.declared {
		if p, ok := r.reg.PropertyType(typeID); ok {
			return slices.Clone(p.Values)
		}
		return nil
	}
	return slices.Clone(r.supported[typeID])
}

// composite is the logical OR of its members. Members that declare nothing
// do not take part unless no member declares anything.
type composite struct {
	members []Restriction
}

// Composite combines restrictions: a type or value is supported if any
// declaring member supports it, and required if any member requires it.
func Composite(members ...Restriction) Restriction {
	var declaring []Restriction
	for _, m := range members {
		if m.Restricts() {
			declaring = append(declaring, m)
		}
	}
	if len(declaring) == 0 {
		declaring = members
	}
	return &composite{members: declaring}
}

func (c *composite) Restricts() bool {
	for _, m := range c.members {
		if m.Restricts() {
			return true
		}
	}
	return false
}

func (c *composite) SupportsType(typeID string) bool {
	for _, m := range c.members {
		if m.SupportsType(typeID) {
			return true
		}
	}
	return false
}

func (c *composite) SupportsValue(typeID, valueID string) bool {
	for _, m := range c.members {
		if m.SupportsValue(typeID, valueID) {
			return true
		}
	}
	return false
}

func (c *composite) RequiresType(typeID string) bool {
	for _, m := range c.members {
		if m.RequiresType(typeID) {
			return true
		}
	}
	return false
}

func (c *composite) RequiredTypeIDs() []string {
	return c.union(func(m Restriction) []string { return m.RequiredTypeIDs() })
}

func (c *composite) SupportedTypeIDs() []string {
	return c.union(func(m Restriction) []string { return m.SupportedTypeIDs() })
}

func (c *composite) SupportedValueIDs(typeID string) []string {
	return c.union(func(m Restriction) []string { return m.SupportedValueIDs(typeID) })
}

func (c *composite) union(get func(Restriction) []string) []string {
	seen := make(map[string]struct{})
	for _, m := range c.members {
		for _, id := range get(m) {
			seen[id] = struct{}{}
		}
	}
	return model.SortedKeys(seen)
}

// ForTools builds the composite restriction of a tool-chain and a tool
// list, which is what a configuration would be bound by after adopting
// them.
func ForTools(reg *registry.Registry, a *model.Arena, toolChainID string, tools []*model.Tool) Restriction {
	members := []Restriction{ForObject(reg, a, toolChainID)}
	for _, t := range tools {
		members = append(members, ForObject(reg, a, t.ID()))
	}
	return Composite(members...)
}

// ForToolChain builds the composite restriction of a tool-chain and the
// tools that apply to a project with the given natures.
func ForToolChain(reg *registry.Registry, a *model.Arena, toolChainID string, natures []string) (Restriction, error) {
	tc, err := a.ToolChain(toolChainID)
	if err != nil {
		return nil, err
	}
	return ForTools(reg, a, toolChainID, tc.FilteredTools(natures)), nil
}
