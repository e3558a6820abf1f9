// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package projectstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/hcl_adapter"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/registry"
	"github.com/zclconf/go-cty/cty"
)

const (
	attrName       = "name"
	attrSuperClass = "super_class"
)

// Serialize writes the local records of a as HCL. Inherited attributes are
// not written.
func Serialize(a *model.Arena) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for i, id := range a.Roots() {
		if i > 0 {
			body.AppendNewline()
		}
		if err := writeRecord(a, body, id); err != nil {
			return nil, err
		}
	}
	return f.Bytes(), nil
}

func writeRecord(a *model.Arena, body *hclwrite.Body, id string) error {
	obj, ok := a.Local(id)
	if !ok || obj.Extension {
		return nil
	}
	blk := body.AppendNewBlock(obj.Kind.String(), []string{obj.ID})
	b := blk.Body()
	if obj.Name != "" {
		b.SetAttributeValue(attrName, cty.StringVal(obj.Name))
	}
	if obj.SuperClass != "" {
		b.SetAttributeValue(attrSuperClass, cty.StringVal(obj.SuperClass))
	}
	for _, name := range model.SortedKeys(obj.Attrs) {
		if name == attrName || name == attrSuperClass {
			return fmt.Errorf("serialize %q: attribute name %q is reserved", obj.ID, name)
		}
		v := obj.Attrs[name]
		if v.IsNull() || !v.IsWhollyKnown() {
			continue
		}
		b.SetAttributeValue(name, v)
	}
	for _, child := range obj.Children {
		if err := writeRecord(a, b, child); err != nil {
			return err
		}
	}
	return nil
}

// Deserialize reads a tree written by Serialize into a new arena layered
// over reg's templates. All problems are reported together.
func Deserialize(ctx context.Context, reg *registry.Registry, filename string, data []byte) (*model.Arena, error) {
	logger := ctxlog.FromContext(ctx).With("file", filename)
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", filename, diags)
	}
	body, ok := file.Body.(*hclsyntax.Body)
	if !ok {
		return nil, fmt.Errorf("parse %s: not a native HCL body", filename)
	}

	a := model.NewArena(reg.Arena())
	var problems []string
	for name := range body.Attributes {
		problems = append(problems, fmt.Sprintf("unexpected top-level attribute %q", name))
	}
	for _, blk := range body.Blocks {
		problems = readRecord(a, blk, "", problems)
	}
	for _, id := range a.IDs() {
		obj, _ := a.Local(id)
		if obj.SuperClass == "" {
			continue
		}
		if super, ok := a.Get(obj.SuperClass); !ok {
			problems = append(problems, fmt.Sprintf("%s %q: unknown superclass %q", obj.Kind, id, obj.SuperClass))
		} else if super.Kind != obj.Kind {
			problems = append(problems, fmt.Sprintf("%s %q: superclass %q is a %s", obj.Kind, id, obj.SuperClass, super.Kind))
		}
	}
	if len(problems) > 0 {
		return nil, fmt.Errorf("project %s is invalid:\n- %s", filename, strings.Join(problems, "\n- "))
	}

	logger.Debug("Project tree loaded.", "records", a.Len())
	return a, nil
}

func readRecord(a *model.Arena, blk *hclsyntax.Block, parent string, problems []string) []string {
	kind, err := model.ParseKind(blk.Type)
	if err != nil {
		return append(problems, fmt.Sprintf("%s: %v", blk.DefRange(), err))
	}
	if len(blk.Labels) != 1 || blk.Labels[0] == "" {
		return append(problems, fmt.Sprintf("%s: %s block needs exactly one id label", blk.DefRange(), blk.Type))
	}

	obj := &model.Object{ID: blk.Labels[0], Kind: kind, Parent: parent, Attrs: make(map[string]cty.Value)}
	for name, attr := range blk.Body.Attributes {
		v, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			problems = append(problems, diags.Error())
			continue
		}
		switch name {
		case attrName, attrSuperClass:
			if v.Type() != cty.String || v.IsNull() {
				problems = append(problems, fmt.Sprintf("%s: %s must be a string", attr.SrcRange, name))
				continue
			}
			if name == attrName {
				obj.Name = v.AsString()
			} else {
				obj.SuperClass = v.AsString()
			}
		default:
			obj.Attrs[name] = hcl_adapter.Normalize(v)
		}
	}
	if err := a.Add(obj); err != nil {
		return append(problems, fmt.Sprintf("%s: %v", blk.DefRange(), err))
	}
	for _, child := range blk.Body.Blocks {
		problems = readRecord(a, child, obj.ID, problems)
	}
	return problems
}
