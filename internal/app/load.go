// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/mbuildgo/internal/config"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/registry"
)

// loadRegistry reads the template definitions and freezes them, together
// with the compiled-in handler modules, into a registry.
func loadRegistry(ctx context.Context, loader config.Loader, paths []string, modules []registry.Module) (*registry.Registry, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading templates...", "paths", paths)

	model, err := loader.Load(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	if len(model.ToolChains) == 0 && len(model.Tools) == 0 {
		return nil, fmt.Errorf("no templates found in %v", paths)
	}

	reg, err := registry.NewBuilder(model, modules...).Build(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("Templates loaded.", "toolchains", len(reg.ToolChains()), "tools", len(reg.Tools()))
	return reg, nil
}
