// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/mbuildgo/internal/config"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/objid"
)

// ConvertRequest is everything a converter handler gets to work with.
type ConvertRequest struct {
	// Arena is the project arena being modified.
	Arena *model.Arena
	// From is the project record being converted.
	From *model.Object
	// To is the id of the template the result must derive from.
	To string
	// Rule is the converter rule being executed.
	Rule *config.ConverterRule

	// ID, when set, is the id the caller wants the result to carry.
	ID  string
	Gen objid.Generator
}

// ConverterFunc builds the replacement for req.From inside req.Arena. The
// returned record must already be stored in the arena.
type ConverterFunc func(ctx context.Context, req *ConvertRequest) (*model.Object, error)

// Module is the interface that Go packages implement to contribute converter
// handlers.
type Module interface {
	Register(b *Builder)
}

// RegisterConverter registers the Go function behind a converter handler
// name.
func (b *Builder) RegisterConverter(name string, fn ConverterFunc) {
	if _, exists := b.handlers[name]; exists {
		panic(fmt.Sprintf("converter handler with name '%s' already registered", name))
	}
	slog.Debug("Registering converter handler.", "name", name)
	b.handlers[name] = fn
}
