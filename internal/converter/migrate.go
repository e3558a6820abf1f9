// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package converter

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/registry"
)

// MigrateHandler is the name of the built-in converter handler.
const MigrateHandler = "migrate"

// Module registers the built-in converter handlers.
type Module struct{}

// Register implements registry.Module.
func (Module) Register(b *registry.Builder) {
	b.RegisterConverter(MigrateHandler, Migrate)
}

// Migrate is the built-in converter handler.
//
// A tool is replaced by a fresh instance of the target template placed under
// the same owner, carrying over every custom option value that has a
// matching option on the target.
//
// A tool-chain is replaced by a new tool-chain deriving from the target
// template. The existing tool instances move over unchanged and the target's
// own tool slots start out unused, so that a subsequent tool-list
// modification decides tool by tool what to convert, keep or create.
// Non-tool children of the target are instantiated and tool-chain level
// options are migrated like tool options.
func Migrate(ctx context.Context, req *registry.ConvertRequest) (*model.Object, error) {
	switch req.From.Kind {
	case model.KindTool:
		return migrateTool(ctx, req)
	case model.KindToolChain:
		return migrateToolChain(ctx, req)
	default:
		return nil, fmt.Errorf("migrate: cannot convert a %s", req.From.Kind)
	}
}

func migrateTool(ctx context.Context, req *registry.ConvertRequest) (*model.Object, error) {
	a := req.Arena
	obj, err := model.Instantiate(a, req.To, req.From.Parent, req.Gen)
	if err != nil {
		return nil, err
	}
	n, err := a.MigrateOptions(req.From.ID, obj.ID, req.Gen)
	if err != nil {
		return nil, errors.Join(err, a.Remove(obj.ID))
	}
	ctxlog.FromContext(ctx).Debug("Migrated tool.", "from", req.From.ID, "to", obj.ID, "options", n)
	return obj, nil
}

func migrateToolChain(ctx context.Context, req *registry.ConvertRequest) (*model.Object, error) {
	a := req.Arena
	id := req.ID
	if id == "" {
		id = req.Gen.Next(a.RealID(req.To))
	}
	obj := &model.Object{
		ID:         id,
		Kind:       model.KindToolChain,
		SuperClass: req.To,
		Parent:     req.From.Parent,
	}
	if err := a.Add(obj); err != nil {
		return nil, err
	}
	// Reparented tools go back to the old tool-chain before the new one is
	// removed together with everything it owns.
	var reparented []string
	fail := func(err error) (*model.Object, error) {
		for _, toolID := range reparented {
			err = errors.Join(err, a.Reparent(toolID, req.From.ID))
		}
		return nil, errors.Join(err, a.Remove(obj.ID))
	}

	var slots []string
	for _, child := range a.MergedChildren(req.To) {
		if child.Kind == model.KindTool {
			slots = append(slots, child.ID)
			continue
		}
		if _, err := model.Instantiate(a, child.ID, obj.ID, req.Gen); err != nil {
			return fail(err)
		}
	}
	if len(slots) > 0 {
		if err := a.SetAttr(obj.ID, model.AttrUnusedChildren, model.ListValue(slots)); err != nil {
			return fail(err)
		}
	}
	n, err := a.MigrateOptions(req.From.ID, obj.ID, req.Gen)
	if err != nil {
		return fail(err)
	}

	// Tools resolved from a template slot rather than owned by the old
	// tool-chain get an instance of their own so that they survive the move.
	moved := 0
	for _, tool := range a.Children(req.From.ID, model.KindTool) {
		if local, ok := a.Local(tool.ID); ok && local.Parent == req.From.ID {
			if err := a.Reparent(tool.ID, obj.ID); err != nil {
				return fail(err)
			}
			reparented = append(reparented, tool.ID)
		} else if _, err := model.Instantiate(a, tool.ID, obj.ID, req.Gen); err != nil {
			return fail(err)
		}
		moved++
	}

	ctxlog.FromContext(ctx).Debug("Migrated tool-chain.", "from", req.From.ID, "to", obj.ID, "tools", moved, "options", n)
	return obj, nil
}
