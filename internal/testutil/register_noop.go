// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

import (
	"context"

	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/registry"
)

// NoOpConverters registers a "migrate" handler that produces nothing. It
// lets tests that never run a converter build a registry from TemplatesHCL,
// whose rules name that handler.
type NoOpConverters struct{}

// Register implements registry.Module.
func (NoOpConverters) Register(b *registry.Builder) {
	b.RegisterConverter("migrate", func(context.Context, *registry.ConvertRequest) (*model.Object, error) {
		return nil, nil
	})
}
