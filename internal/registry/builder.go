// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"context"
	"fmt"
	"maps"
	"strings"

	"github.com/specialistvlad/mbuildgo/internal/config"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
)

// Builder assembles a Registry.
type Builder struct {
	model    *config.Model
	handlers map[string]ConverterFunc
}

// NewBuilder creates a builder over the loaded template model.
func NewBuilder(m *config.Model, modules ...Module) *Builder {
	b := &Builder{
		model:    m,
		handlers: make(map[string]ConverterFunc),
	}
	for _, mod := range modules {
		mod.Register(b)
	}
	return b
}

// Build validates the model against the registered handlers and produces the
// immutable registry.
func (b *Builder) Build(ctx context.Context) (*Registry, error) {
	logger := ctxlog.FromContext(ctx)
	if b.model == nil {
		return nil, fmt.Errorf("registry: no template model")
	}
	if err := b.model.Validate(); err != nil {
		return nil, err
	}

	reg := &Registry{
		arena:         model.NewArena(nil),
		propertyTypes: make(map[string]*config.PropertyType),
		handlers:      maps.Clone(b.handlers),
		fingerprints:  make(map[string]string),
		byFingerprint: make(map[string][]string),
	}

	for _, def := range b.model.Tools {
		if err := addDefinition(reg.arena, def, ""); err != nil {
			return nil, err
		}
		reg.tools = append(reg.tools, def.ID)
	}
	for _, def := range b.model.ToolChains {
		if err := addDefinition(reg.arena, def, ""); err != nil {
			return nil, err
		}
		reg.toolChains = append(reg.toolChains, def.ID)
	}
	for _, p := range b.model.PropertyTypes {
		reg.propertyTypes[p.ID] = p
	}
	reg.rules = append(reg.rules, b.model.Converters...)

	if err := reg.validate(ctx); err != nil {
		return nil, err
	}
	reg.arena.Freeze()
	reg.indexFingerprints()

	logger.Info("Registry built.",
		"toolchains", len(reg.toolChains),
		"tools", len(reg.tools),
		"property_types", len(reg.propertyTypes),
		"converters", len(reg.rules),
		"handlers", len(reg.handlers),
	)
	return reg, nil
}

// addDefinition stores def and its children as extension records.
func addDefinition(a *model.Arena, def *config.ObjectDefinition, parent string) error {
	kind, err := model.ParseKind(def.Kind)
	if err != nil {
		return err
	}
	obj := &model.Object{
		ID:         def.ID,
		Kind:       kind,
		Name:       def.Name,
		SuperClass: def.SuperClass,
		Parent:     parent,
		Extension:  true,
		Attrs:      maps.Clone(def.Attributes),
	}
	if err := a.Add(obj); err != nil {
		return fmt.Errorf("template %q: %w", def.ID, err)
	}
	for _, child := range def.Children {
		if err := addDefinition(a, child, def.ID); err != nil {
			return err
		}
	}
	return nil
}

// validate performs a parity check between the templates, the converter
// rules and the registered handlers. All problems are reported at once.
func (r *Registry) validate(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, id := range r.arena.IDs() {
		obj, _ := r.arena.Local(id)
		if obj.SuperClass == "" {
			continue
		}
		super, ok := r.arena.Get(obj.SuperClass)
		if !ok {
			errs = append(errs, fmt.Sprintf("%s '%s': superclass '%s' is not defined", obj.Kind, id, obj.SuperClass))
			continue
		}
		if super.Kind != obj.Kind {
			errs = append(errs, fmt.Sprintf("%s '%s': superclass '%s' is a %s", obj.Kind, id, obj.SuperClass, super.Kind))
		}
		chain := r.arena.SuperChain(id)
		if last := chain[len(chain)-1]; last.SuperClass != "" {
			if _, resolvable := r.arena.Get(last.SuperClass); resolvable {
				errs = append(errs, fmt.Sprintf("%s '%s': superclass chain is cyclic", obj.Kind, id))
			}
		}
	}

	for _, rule := range r.rules {
		if _, ok := r.handlers[rule.Handler]; !ok {
			errs = append(errs, fmt.Sprintf("converter '%s': handler '%s' is not registered", rule.Name, rule.Handler))
		}
		for _, ref := range []string{rule.FromID, rule.ToID} {
			if _, ok := r.Template(ref); !ok {
				logger.Warn("Converter rule references an unknown template; it can never match.", "converter", rule.Name, "template", ref)
			}
		}
	}

	for _, id := range r.arena.IDs() {
		for _, req := range r.arena.List(id, model.AttrRequiredProperties) {
			if _, ok := r.propertyTypes[req]; !ok {
				logger.Warn("Template requires an undefined property type.", "template", id, "property_type", req)
			}
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
