// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package llvm contributes the converter handlers used by the LLVM templates
// shipped next to it.
package llvm

import (
	"context"

	"github.com/specialistvlad/mbuildgo/internal/converter"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

// FromGCCHandler converts a GCC compiler into Clang.
const FromGCCHandler = "llvm.from_gcc"

// Module implements the registry.Module interface for this package.
type Module struct{}

// optimizationLevels maps GCC levels Clang does not offer to the nearest
// Clang level.
var optimizationLevels = map[string]string{
	"-Og": "-O1",
	"-O":  "-O1",
}

// FromGCC migrates a GCC compiler like the built-in handler and then carries
// over optimization levels the built-in handler had to drop because Clang
// spells them differently.
func FromGCC(ctx context.Context, req *registry.ConvertRequest) (*model.Object, error) {
	obj, err := converter.Migrate(ctx, req)
	if err != nil {
		return nil, err
	}
	a := req.Arena
	logger := ctxlog.FromContext(ctx).With("from", req.From.ID, "to", obj.ID)

	targets := a.Children(obj.ID, model.KindOption)
	for _, opt := range a.CustomOptions(req.From.ID) {
		if a.String(opt.ID, model.AttrValueType) != model.ValueEnumerated {
			continue
		}
		level, ok := optimizationLevels[a.String(opt.ID, model.AttrValue)]
		if !ok {
			continue
		}
		match, ok := a.MatchOption(opt, targets)
		if !ok {
			continue
		}
		if _, err := a.SetOptionValue(obj.ID, a.RealID(match.ID), cty.StringVal(level), req.Gen); err != nil {
			_ = a.Remove(obj.ID)
			return nil, err
		}
		logger.Debug("Translated optimization level.", "option", match.ID, "value", level)
	}
	return obj, nil
}

// Register registers the handler with the engine.
func (m *Module) Register(b *registry.Builder) {
	b.RegisterConverter(FromGCCHandler, FromGCC)
}
