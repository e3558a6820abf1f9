// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import "github.com/zclconf/go-cty/cty"

// Object kinds that may appear in a template definition.
const (
	KindToolChain      = "toolchain"
	KindTool           = "tool"
	KindOption         = "option"
	KindInputType      = "input_type"
	KindOutputType     = "output_type"
	KindTargetPlatform = "target_platform"
	KindBuilder        = "builder"
)

// Model is the unified, format-agnostic representation of every template
// loaded at startup.
type Model struct {
	// ToolChains are the tool-chain templates, in declaration order.
	ToolChains []*ObjectDefinition `validate:"dive"`
	// Tools are standalone tool templates that tool-chain tools may name as
	// their superclass.
	Tools         []*ObjectDefinition `validate:"dive"`
	PropertyTypes []*PropertyType     `validate:"dive"`
	Converters    []*ConverterRule    `validate:"dive"`
}

// ObjectDefinition is the template for one build object and the objects it
// owns.
type ObjectDefinition struct {
	Kind       string `validate:"required,oneof=toolchain tool option input_type output_type target_platform builder"`
	ID         string `validate:"required"`
	Name       string
	SuperClass string
	// Attributes holds every attribute set at this level. Values are kept as
	// cty values so that lists and maps survive untouched.
	Attributes map[string]cty.Value
	Children   []*ObjectDefinition `validate:"dive"`
	// Source describes where the definition was declared, for diagnostics.
	Source string
}

// PropertyType is a build property classification, such as the artifact
// type, and the values it may take.
type PropertyType struct {
	ID     string   `validate:"required"`
	Name   string
	Values []string `validate:"min=1,dive,required"`
}

// HasValue reports whether v is one of the declared values.
func (p *PropertyType) HasValue(v string) bool {
	for _, candidate := range p.Values {
		if candidate == v {
			return true
		}
	}
	return false
}

// ConverterRule licenses the migration of a tool or tool-chain from one
// template identity to another.
type ConverterRule struct {
	Name    string
	Kind    string `validate:"required,oneof=toolchain tool"`
	FromID  string `validate:"required"`
	ToID    string `validate:"required"`
	Handler string `validate:"required"`
	// ResultKind is the object family the handler produces. It defaults to
	// Kind when empty.
	ResultKind string
}

// Result returns the declared result kind, defaulting to the rule's kind.
func (r *ConverterRule) Result() string {
	if r.ResultKind == "" {
		return r.Kind
	}
	return r.ResultKind
}
