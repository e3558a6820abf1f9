// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import "fmt"

// Kind identifies the family a build object belongs to.
type Kind int

const (
	KindUnknown Kind = iota
	KindConfiguration
	KindFolderInfo
	KindResourceConfiguration
	KindToolChain
	KindTool
	KindOption
	KindInputType
	KindOutputType
	KindTargetPlatform
	KindBuilder
)

var kindNames = map[Kind]string{
	KindConfiguration:         "configuration",
	KindFolderInfo:            "folder",
	KindResourceConfiguration: "resource",
	KindToolChain:             "toolchain",
	KindTool:                  "tool",
	KindOption:                "option",
	KindInputType:             "input_type",
	KindOutputType:            "output_type",
	KindTargetPlatform:        "target_platform",
	KindBuilder:               "builder",
}

// String returns the block name used for the kind in definitions and
// persisted trees.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind is the inverse of Kind.String.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown build object kind %q", s)
}

// IsResourceInfo reports whether objects of this kind own a tool list that
// the modification engine can edit.
func (k Kind) IsResourceInfo() bool {
	return k == KindFolderInfo || k == KindResourceConfiguration
}
