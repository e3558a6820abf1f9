// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"github.com/specialistvlad/mbuildgo/internal/converter"
	"github.com/specialistvlad/mbuildgo/internal/registry"
	"github.com/specialistvlad/mbuildgo/modules/llvm"
)

// coreModules is the definitive list of all converter handler modules that
// are compiled into the mbuild binary.
var coreModules = []registry.Module{
	converter.Module{},
	&llvm.Module{},
}
