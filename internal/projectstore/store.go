// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package projectstore defines where project trees live between runs and
// the format they are written in.
//
// # What Gets Stored
//
// Only project records are stored. Templates come from the registry on every
// run, so a stored tree is a set of overrides:
//   - Every record is written as a block named after its kind, labelled with
//     its id.
//   - A record carries `super_class` when it has one, its display name when
//     it set one, and only the attributes it sets itself.
//   - Attributes inherited from a superclass are never written. Reloading the
//     tree against the same registry resolves them again, which is what keeps
//     template upgrades visible to existing projects.
//
// # Example
//
//	configuration "debug" {
//	  name    = "Debug"
//	  natures = ["c"]
//	  folder "debug.root.1" {
//	    path = "/"
//	    toolchain "gnu.base.2" {
//	      super_class = "gnu.base"
//	      tool "gnu.c.compiler.3" {
//	        super_class = "gnu.base.cc"
//	        option "gnu.c.compiler.option.optimization.4" {
//	          super_class = "gnu.c.compiler.option.optimization"
//	          value       = "-O2"
//	        }
//	      }
//	    }
//	  }
//	}
//
// # Implementations
//
//   - FileStore keeps one HCL file per project in a directory.
//   - inmemorystore keeps serialized trees in memory, for tests and
//     short-lived tools.
package projectstore

import (
	"context"
	"errors"

	"github.com/specialistvlad/mbuildgo/internal/model"
)

// ErrProjectNotFound is returned when loading a project that was never
// saved.
var ErrProjectNotFound = errors.New("project not found")

// Store loads and saves project trees by name.
type Store interface {
	// Load returns the stored tree of name layered over the registry's
	// templates.
	Load(ctx context.Context, name string) (*model.Arena, error)
	// Save stores the local records of a.
	Save(ctx context.Context, name string, a *model.Arena) error
	// List returns the names of the stored projects, sorted.
	List(ctx context.Context) ([]string, error)
}
