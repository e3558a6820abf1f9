// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/mbuildgo/internal/objid"
	"github.com/zclconf/go-cty/cty"
)

// CustomOptions returns the resolved options of holder that carry values set
// on a project record, i.e. settings the user changed from the template.
func (a *Arena) CustomOptions(holderID string) []*Object {
	var out []*Object
	for _, opt := range a.Children(holderID, KindOption) {
		if !opt.Extension && len(opt.Attrs) > 0 {
			out = append(out, opt)
		}
	}
	return out
}

// MatchOption finds the option among candidates that corresponds to opt: the
// one with the same real identity, otherwise the first one with the same
// value type and the same non-empty command.
func (a *Arena) MatchOption(opt *Object, candidates []*Object) (*Object, bool) {
	real := a.RealID(opt.ID)
	for _, c := range candidates {
		if a.RealID(c.ID) == real {
			return c, true
		}
	}
	valueType := a.String(opt.ID, AttrValueType)
	command := a.String(opt.ID, AttrCommand)
	if command == "" {
		return nil, false
	}
	for _, c := range candidates {
		if a.String(c.ID, AttrValueType) == valueType && a.String(c.ID, AttrCommand) == command {
			return c, true
		}
	}
	return nil, false
}

// MigrateOptions copies the custom option values of fromID onto the matching
// options of toID and returns how many options received a value. Options of
// toID that are still template records get a project override first.
// Enumerated values outside the target option's enum_values are skipped.
func (a *Arena) MigrateOptions(fromID, toID string, gen objid.Generator) (int, error) {
	targets := a.Children(toID, KindOption)
	copied := 0
	for _, opt := range a.CustomOptions(fromID) {
		match, ok := a.MatchOption(opt, targets)
		if !ok {
			continue
		}
		if v, ok := opt.Attrs[AttrValue]; ok {
			if allowed := a.List(match.ID, AttrEnumValues); len(allowed) > 0 && !slices.Contains(allowed, AsString(v)) {
				continue
			}
		}

		dst, err := a.ownOption(toID, match, gen)
		if err != nil {
			return copied, err
		}
		for _, name := range SortedKeys(opt.Attrs) {
			if err := a.SetAttr(dst.ID, name, opt.Attrs[name]); err != nil {
				return copied, err
			}
		}
		copied++
	}
	return copied, nil
}

// SetOptionValue sets the value of holderID's option whose real identity is
// realOptionID, overriding the template slot on first use. String values of
// enumerated options must be one of the option's enum_values.
func (a *Arena) SetOptionValue(holderID, realOptionID string, v cty.Value, gen objid.Generator) (*Object, error) {
	for _, opt := range a.Children(holderID, KindOption) {
		if a.RealID(opt.ID) != realOptionID {
			continue
		}
		if allowed := a.List(opt.ID, AttrEnumValues); len(allowed) > 0 {
			if v.Type() != cty.String || v.IsNull() || !slices.Contains(allowed, v.AsString()) {
				return nil, fmt.Errorf("option %q: value %s is not one of %v", realOptionID, v.GoString(), allowed)
			}
		}
		dst, err := a.ownOption(holderID, opt, gen)
		if err != nil {
			return nil, err
		}
		if err := a.SetAttr(dst.ID, AttrValue, v); err != nil {
			return nil, err
		}
		return dst, nil
	}
	return nil, fmt.Errorf("option %q of %q: %w", realOptionID, holderID, ErrNotFound)
}

// ownOption returns a project record for option slot opt owned by holderID,
// creating an override when the slot is still resolved from a template.
func (a *Arena) ownOption(holderID string, opt *Object, gen objid.Generator) (*Object, error) {
	if local, ok := a.Local(opt.ID); ok && !local.Extension && local.Parent == holderID {
		return local, nil
	}
	override := &Object{
		ID:         gen.Next(a.RealID(opt.ID)),
		Kind:       KindOption,
		SuperClass: opt.ID,
		Parent:     holderID,
	}
	if err := a.Add(override); err != nil {
		return nil, fmt.Errorf("override option %q: %w", opt.ID, err)
	}
	return override, nil
}
