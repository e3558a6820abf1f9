// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package converter

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/mbuildgo/internal/config"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/objid"
	"github.com/specialistvlad/mbuildgo/internal/registry"
)

var (
	// ErrNoResult is reported when a handler produced nothing.
	ErrNoResult = errors.New("converter produced no object")
	// ErrWrongKind is reported when a handler produced an object of a
	// different family than its rule converts.
	ErrWrongKind = errors.New("converter produced an object of the wrong kind")
	// ErrNoHandler is reported when a rule names an unregistered handler.
	ErrNoHandler = errors.New("converter handler is not registered")
)

// Result is the outcome of one converter invocation.
type Result struct {
	Info   *Info
	Object *model.Object
	// Err is set when the conversion failed. The failure is reported, not
	// raised: callers fall back to building from the template.
	Err error
	// Fatal marks failures caused by a rule whose declared result kind is
	// not a build-object family. Err is then a *model.BuildError.
	Fatal bool
}

// OK reports whether the conversion produced a usable object.
func (r *Result) OK() bool {
	return r.Err == nil && r.Object != nil
}

// Invoke runs the handler of info's rule against the project arena.
func Invoke(ctx context.Context, reg *registry.Registry, a *model.Arena, gen objid.Generator, info *Info) *Result {
	logger := ctxlog.FromContext(ctx).With("converter", info.Rule.Name, "from", info.From, "to", info.To)
	res := &Result{Info: info}

	expected, err := model.ParseKind(info.Rule.Kind)
	if err != nil {
		res.Err = &model.BuildError{Op: "convert", ID: info.From, Reason: "rule converts an unknown object family", Err: err}
		res.Fatal = true
		return res
	}
	switch info.Rule.Result() {
	case config.KindToolChain, config.KindTool:
	default:
		res.Err = &model.BuildError{
			Op:     "convert",
			ID:     info.From,
			Reason: fmt.Sprintf("converter %q declares result kind %q, which is not a build object family", info.Rule.Name, info.Rule.Result()),
		}
		res.Fatal = true
		logger.Warn("Converter declares an unknown result kind.", "result_kind", info.Rule.Result())
		return res
	}

	handler, ok := reg.Handler(info.Rule.Handler)
	if !ok {
		res.Err = fmt.Errorf("%w: %q", ErrNoHandler, info.Rule.Handler)
		logger.Warn("Converter invocation failed.", "error", res.Err)
		return res
	}
	from, err := a.Must(info.From)
	if err != nil {
		res.Err = err
		return res
	}

	before := snapshot(a)
	obj, err := handler(ctx, &registry.ConvertRequest{
		Arena: a,
		From:  from,
		To:    info.To,
		Rule:  info.Rule,
		ID:    info.ResultID,
		Gen:   gen,
	})
	switch {
	case err != nil:
		res.Err = err
	case obj == nil:
		res.Err = ErrNoResult
	case obj.Kind != expected:
		res.Err = fmt.Errorf("%w: got %s, want %s", ErrWrongKind, obj.Kind, expected)
	}
	if res.Err != nil {
		if err := rollback(a, before); err != nil {
			logger.Error("Failed to undo a failed conversion.", "error", err)
		}
		logger.Warn("Converter invocation failed.", "error", res.Err)
		return res
	}

	res.Object = obj
	logger.Debug("Converter invocation succeeded.", "result", obj.ID)
	return res
}

// placement is where a local record sat before a handler ran. index is -1
// for records without a local owner.
type placement struct {
	parent string
	index  int
}

func snapshot(a *model.Arena) map[string]placement {
	out := make(map[string]placement, a.Len())
	for _, id := range a.IDs() {
		obj, _ := a.Local(id)
		p := placement{parent: obj.Parent, index: -1}
		if parent, ok := a.Local(obj.Parent); ok {
			p.index = slices.Index(parent.Children, id)
		}
		out[id] = p
	}
	return out
}

// rollback moves records a handler reparented back to their old owners, in
// their old positions, then removes every record the handler added.
func rollback(a *model.Arena, before map[string]placement) error {
	var errs []error

	var moved []string
	for _, id := range a.IDs() {
		p, existed := before[id]
		if obj, _ := a.Local(id); existed && obj.Parent != p.parent {
			moved = append(moved, id)
		}
	}
	slices.SortStableFunc(moved, func(x, y string) int { return before[x].index - before[y].index })
	for _, id := range moved {
		p := before[id]
		if err := a.Reparent(id, p.parent); err != nil {
			errs = append(errs, err)
			continue
		}
		if p.index >= 0 {
			if err := a.Move(id, p.index); err != nil {
				errs = append(errs, err)
			}
		}
	}

	for _, id := range a.IDs() {
		if _, existed := before[id]; existed {
			continue
		}
		obj, ok := a.Local(id)
		if !ok {
			continue // removed with its owner
		}
		if _, ownerAdded := a.Local(obj.Parent); ownerAdded {
			if _, existed := before[obj.Parent]; !existed {
				continue
			}
		}
		if err := a.Remove(id); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
