// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// This file contains the logic for translating the HCL schema structs into
// the format-agnostic template model defined in the config package.

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/specialistvlad/mbuildgo/internal/config"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
)

// translateFile appends every block of one decoded file to model.
func (l *Loader) translateFile(ctx context.Context, root *fileRoot, model *config.Model) error {
	for _, tc := range root.ToolChains {
		def, err := l.translateObject(ctx, config.KindToolChain, tc)
		if err != nil {
			return err
		}
		model.ToolChains = append(model.ToolChains, def)
	}
	for _, tool := range root.Tools {
		def, err := l.translateObject(ctx, config.KindTool, tool)
		if err != nil {
			return err
		}
		model.Tools = append(model.Tools, def)
	}
	for _, p := range root.PropertyTypes {
		model.PropertyTypes = append(model.PropertyTypes, &config.PropertyType{
			ID:     p.ID,
			Name:   p.Name,
			Values: p.Values,
		})
	}
	for _, c := range root.Converters {
		model.Converters = append(model.Converters, &config.ConverterRule{
			Name:       c.Name,
			Kind:       c.Kind,
			FromID:     c.From,
			ToID:       c.To,
			Handler:    c.Handler,
			ResultKind: c.ResultKind,
		})
	}
	return nil
}

// translateObject converts one object block, and everything nested in it,
// into a definition of the given kind.
func (l *Loader) translateObject(ctx context.Context, kind string, b *ObjectBlock) (*config.ObjectDefinition, error) {
	logger := ctxlog.FromContext(ctx).With("kind", kind, "id", b.ID)
	logger.Debug("Translating HCL template block.")

	attrs, err := bodyAttributes(ctx, b.Remain)
	if err != nil {
		return nil, fmt.Errorf("in %s %q: %w", kind, b.ID, err)
	}

	def := &config.ObjectDefinition{
		Kind:       kind,
		ID:         b.ID,
		Name:       b.Name,
		SuperClass: b.SuperClass,
		Attributes: attrs,
		Source:     b.DefRange.String(),
	}

	nested := []struct {
		kind   string
		blocks []*ObjectBlock
	}{
		{config.KindTool, b.Tools},
		{config.KindOption, b.Options},
		{config.KindInputType, b.InputTypes},
		{config.KindOutputType, b.OutputTypes},
		{config.KindTargetPlatform, b.TargetPlatforms},
		{config.KindBuilder, b.Builders},
	}
	for _, n := range nested {
		for _, child := range n.blocks {
			childDef, err := l.translateObject(ctx, n.kind, child)
			if err != nil {
				return nil, err
			}
			def.Children = append(def.Children, childDef)
		}
	}
	return def, nil
}
