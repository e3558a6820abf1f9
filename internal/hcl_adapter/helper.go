// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package hcl_adapter

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
)

// schemaAttributes are decoded into ObjectBlock fields and must not show up
// again in the attribute map.
var schemaAttributes = map[string]struct{}{
	"name":        {},
	"super_class": {},
}

// nestedBlocks are the object kinds ObjectBlock decodes as children.
var nestedBlocks = map[string]struct{}{
	"tool":            {},
	"option":          {},
	"input_type":      {},
	"output_type":     {},
	"target_platform": {},
	"builder":         {},
}

// bodyAttributes evaluates every attribute left in a remain body. Template
// attributes are literals, so they are evaluated without an EvalContext.
//
// A native syntax body still holds the nested blocks the schema consumed and
// JustAttributes rejects any block, so its attributes are read directly.
func bodyAttributes(ctx context.Context, body hcl.Body) (map[string]cty.Value, error) {
	out := make(map[string]cty.Value)
	if body == nil {
		return out, nil
	}

	var attrs hcl.Attributes
	if syntaxBody, ok := body.(*hclsyntax.Body); ok {
		for _, block := range syntaxBody.Blocks {
			if _, known := nestedBlocks[block.Type]; !known {
				return nil, fmt.Errorf("%s: unexpected %q block", block.TypeRange, block.Type)
			}
		}
		attrs = make(hcl.Attributes, len(syntaxBody.Attributes))
		for name, attr := range syntaxBody.Attributes {
			attrs[name] = attr.AsHCLAttribute()
		}
	} else {
		var diags hcl.Diagnostics
		attrs, diags = body.JustAttributes()
		if diags.HasErrors() {
			return nil, diags
		}
	}

	for name, attr := range attrs {
		if _, consumed := schemaAttributes[name]; consumed {
			continue
		}
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, fmt.Errorf("invalid value for attribute %q: %w", name, diags)
		}
		out[name] = Normalize(val)
		ctxlog.FromContext(ctx).Debug("Decoded template attribute.", "attribute", name, "type", out[name].Type().FriendlyName())
	}
	return out, nil
}

// Normalize converts the literal shapes HCL produces into the collection
// types the model stores: a tuple of strings becomes a list of strings, an
// object of strings a map of strings, and an object of string sequences a
// map of string lists. Anything else is returned unchanged.
func Normalize(v cty.Value) cty.Value {
	if v.IsNull() || !v.IsWhollyKnown() {
		return v
	}
	ty := v.Type()
	switch {
	case ty.IsTupleType():
		if v.LengthInt() == 0 {
			return cty.ListValEmpty(cty.String)
		}
		if allOf(v, func(ev cty.Value) bool { return ev.Type() == cty.String }) {
			if out, err := convert.Convert(v, cty.List(cty.String)); err == nil {
				return out
			}
		}
	case ty.IsObjectType():
		if v.LengthInt() == 0 {
			return cty.MapValEmpty(cty.String)
		}
		vals := make(map[string]cty.Value, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			vals[k.AsString()] = Normalize(ev)
		}
		obj := cty.ObjectVal(vals)
		for _, target := range []cty.Type{cty.Map(cty.String), cty.Map(cty.List(cty.String))} {
			if allOf(obj, func(ev cty.Value) bool { return ev.Type().Equals(target.ElementType()) }) {
				if out, err := convert.Convert(obj, target); err == nil {
					return out
				}
			}
		}
		return obj
	}
	return v
}

func allOf(v cty.Value, pred func(cty.Value) bool) bool {
	for it := v.ElementIterator(); it.Next(); {
		if _, ev := it.Element(); !pred(ev) {
			return false
		}
	}
	return true
}
