// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// This file contains the HCL schema structs that template files are decoded
// into before translation into the config model.

package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	ToolChains    []*ObjectBlock       `hcl:"toolchain,block"`
	Tools         []*ObjectBlock       `hcl:"tool,block"`
	PropertyTypes []*PropertyTypeBlock `hcl:"property_type,block"`
	Converters    []*ConverterBlock    `hcl:"converter,block"`
	Remain        hcl.Body             `hcl:",remain"`
}

// ObjectBlock is any build-object template block. Nesting rules between
// kinds are enforced by config.Model.Validate, not by the schema.
type ObjectBlock struct {
	ID              string         `hcl:"id,label"`
	Name            string         `hcl:"name,optional"`
	SuperClass      string         `hcl:"super_class,optional"`
	Tools           []*ObjectBlock `hcl:"tool,block"`
	Options         []*ObjectBlock `hcl:"option,block"`
	InputTypes      []*ObjectBlock `hcl:"input_type,block"`
	OutputTypes     []*ObjectBlock `hcl:"output_type,block"`
	TargetPlatforms []*ObjectBlock `hcl:"target_platform,block"`
	Builders        []*ObjectBlock `hcl:"builder,block"`
	DefRange        hcl.Range      `hcl:",def_range"`
	// Remain carries every other attribute; they become the definition's
	// attribute map.
	Remain hcl.Body `hcl:",remain"`
}

// PropertyTypeBlock declares a build property type and its values.
type PropertyTypeBlock struct {
	ID     string   `hcl:"id,label"`
	Name   string   `hcl:"name,optional"`
	Values []string `hcl:"values"`
}

// ConverterBlock declares a converter rule.
type ConverterBlock struct {
	Name       string `hcl:"name,label"`
	Kind       string `hcl:"kind"`
	From       string `hcl:"from"`
	To         string `hcl:"to"`
	Handler    string `hcl:"handler"`
	ResultKind string `hcl:"result_kind,optional"`
}
