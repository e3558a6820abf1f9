// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Attribute names shared by definitions, the resolver and persisted trees.
const (
	AttrCommand              = "command"
	AttrInputExtensions      = "input_extensions"
	AttrInterfaceExtensions  = "interface_extensions"
	AttrOutputExtensions     = "output_extensions"
	AttrExtensions           = "extensions"
	AttrBuildVariable        = "build_variable"
	AttrMultipleOfType       = "multiple_of_type"
	AttrPrimaryInput         = "primary_input"
	AttrCustomBuildStep      = "custom_build_step"
	AttrNatureFilter         = "nature_filter"
	AttrSupportsManagedBuild = "supports_managed_build"
	AttrSupportedProperties  = "supported_properties"
	AttrRequiredProperties   = "required_properties"
	AttrTargetTools          = "target_tools"
	AttrUnusedChildren       = "unused_children"
	AttrConvertTo            = "convert_to"
	AttrValueType            = "value_type"
	AttrValue                = "value"
	AttrDefaultValue         = "default_value"
	AttrEnumValues           = "enum_values"
	AttrBuildProperties      = "build_properties"
	AttrNatures              = "natures"
	AttrManagedBuildOn       = "managed_build_on"
	AttrPath                 = "path"
	AttrSelectedTool         = "selected_tool"
	AttrOSList               = "os_list"
	AttrArchList             = "arch_list"
	AttrBinaryParser         = "binary_parser"
	AttrArguments            = "arguments"
)

// Option value types.
const (
	ValueBoolean    = "boolean"
	ValueEnumerated = "enumerated"
	ValueString     = "string"
	ValueStringList = "string_list"
	ValuePathList   = "path_list"
	ValueSymbolList = "symbol_list"
)

// Nature filters and project natures.
const (
	NatureBoth = "both"
	NatureC    = "c"
	NatureCC   = "cc"
)

// StringValue wraps s as a cty string.
func StringValue(s string) cty.Value {
	return cty.StringVal(s)
}

// BoolValue wraps b as a cty bool.
func BoolValue(b bool) cty.Value {
	return cty.BoolVal(b)
}

// ListValue wraps ss as a cty list of strings. An empty or nil slice yields
// an empty, known list.
func ListValue(ss []string) cty.Value {
	if len(ss) == 0 {
		return cty.ListValEmpty(cty.String)
	}
	vals := make([]cty.Value, len(ss))
	for i, s := range ss {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}

// StringMapValue wraps m as a cty map of strings.
func StringMapValue(m map[string]string) cty.Value {
	if len(m) == 0 {
		return cty.MapValEmpty(cty.String)
	}
	vals := make(map[string]cty.Value, len(m))
	for k, v := range m {
		vals[k] = cty.StringVal(v)
	}
	return cty.MapVal(vals)
}

// MapListValue wraps m as a cty map of string lists.
func MapListValue(m map[string][]string) cty.Value {
	if len(m) == 0 {
		return cty.MapValEmpty(cty.List(cty.String))
	}
	vals := make(map[string]cty.Value, len(m))
	for k, v := range m {
		vals[k] = ListValue(v)
	}
	return cty.MapVal(vals)
}

// AsString decodes a string value. Null, unknown or mistyped values decode
// to the empty string.
func AsString(v cty.Value) string {
	var s string
	if !usable(v) || gocty.FromCtyValue(v, &s) != nil {
		return ""
	}
	return s
}

// AsBool decodes a bool value, returning def when v is not a usable bool.
func AsBool(v cty.Value, def bool) bool {
	var b bool
	if !usable(v) || gocty.FromCtyValue(v, &b) != nil {
		return def
	}
	return b
}

// AsList decodes a list, set or tuple of strings.
func AsList(v cty.Value) []string {
	if !usable(v) {
		return nil
	}
	if !v.Type().IsListType() && !v.Type().IsSetType() && !v.Type().IsTupleType() {
		if s := AsString(v); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, 0, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		_, ev := it.Element()
		if s := AsString(ev); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// AsStringMap decodes a map or object of strings.
func AsStringMap(v cty.Value) map[string]string {
	if !usable(v) || !(v.Type().IsMapType() || v.Type().IsObjectType()) {
		return nil
	}
	out := make(map[string]string, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		out[k.AsString()] = AsString(ev)
	}
	return out
}

// AsMapList decodes a map or object whose elements are string lists.
func AsMapList(v cty.Value) map[string][]string {
	if !usable(v) || !(v.Type().IsMapType() || v.Type().IsObjectType()) {
		return nil
	}
	out := make(map[string][]string, v.LengthInt())
	for it := v.ElementIterator(); it.Next(); {
		k, ev := it.Element()
		out[k.AsString()] = AsList(ev)
	}
	return out
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func usable(v cty.Value) bool {
	return v.IsKnown() && !v.IsNull()
}
