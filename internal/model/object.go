// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"maps"
	"slices"

	"github.com/zclconf/go-cty/cty"
)

// Object is a single build-object record. It carries only what was set at
// its own level; everything else is resolved through SuperClass.
type Object struct {
	ID         string
	Kind       Kind
	Name       string
	SuperClass string // id of the superclass record, empty for extension roots
	Parent     string // id of the owning record, empty for roots
	Extension  bool
	Attrs      map[string]cty.Value
	Children   []string // owned children, in local declaration order

	dirty   bool
	rebuild bool
}

// clone returns a copy that shares no mutable state with o. cty values are
// immutable and are shared.
func (o *Object) clone() *Object {
	c := *o
	c.Attrs = maps.Clone(o.Attrs)
	if c.Attrs == nil {
		c.Attrs = make(map[string]cty.Value)
	}
	c.Children = slices.Clone(o.Children)
	return &c
}

// LocalAttr returns an attribute set on this record itself.
func (o *Object) LocalAttr(name string) (cty.Value, bool) {
	v, ok := o.Attrs[name]
	return v, ok
}

// Lookup resolves ids to records.
type Lookup interface {
	Get(id string) (*Object, bool)
}
