// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// allowedChildren lists, per kind, the kinds a definition may own.
var allowedChildren = map[string][]string{
	KindToolChain: {KindTool, KindOption, KindTargetPlatform, KindBuilder},
	KindTool:      {KindOption, KindInputType, KindOutputType},
}

// Validate checks the struct tags of the whole model, then the structural
// rules that tags cannot express: unique ids across every definition and
// legal nesting of child kinds.
func (m *Model) Validate() error {
	if err := validator.New().Struct(m); err != nil {
		return fmt.Errorf("template model validation failed: %w", err)
	}

	seen := make(map[string]string)
	var walk func(def *ObjectDefinition) error
	walk = func(def *ObjectDefinition) error {
		if prev, dup := seen[def.ID]; dup {
			return fmt.Errorf("duplicate template id %q (%s, previously %s)", def.ID, describe(def), prev)
		}
		seen[def.ID] = describe(def)
		for _, child := range def.Children {
			if !contains(allowedChildren[def.Kind], child.Kind) {
				return fmt.Errorf("%s %q cannot own a %s (%q)", def.Kind, def.ID, child.Kind, child.ID)
			}
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}

	for _, def := range m.ToolChains {
		if def.Kind != KindToolChain {
			return fmt.Errorf("template %q is a %s, expected a toolchain", def.ID, def.Kind)
		}
		if err := walk(def); err != nil {
			return err
		}
	}
	for _, def := range m.Tools {
		if def.Kind != KindTool {
			return fmt.Errorf("template %q is a %s, expected a tool", def.ID, def.Kind)
		}
		if err := walk(def); err != nil {
			return err
		}
	}

	props := make(map[string]struct{}, len(m.PropertyTypes))
	for _, p := range m.PropertyTypes {
		if _, dup := props[p.ID]; dup {
			return fmt.Errorf("duplicate property type %q", p.ID)
		}
		props[p.ID] = struct{}{}
	}
	return nil
}

func describe(def *ObjectDefinition) string {
	if def.Source == "" {
		return def.Kind
	}
	return def.Kind + " at " + def.Source
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
