// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package session holds a project's configuration tree and the working-copy
// protocol used to change it.
//
// The live tree of a Project is never edited directly. A caller checks out a
// WorkingCopy, performs any number of tool-list modifications and tool-chain
// swaps on it, and then commits or discards the whole copy. A commit fails
// with ErrStaleWorkingCopy when another working copy was committed in the
// meantime.
package session

import (
	"context"
	"errors"
)

var (
	// ErrStaleWorkingCopy is returned when committing a working copy whose
	// base revision is no longer the live one.
	ErrStaleWorkingCopy = errors.New("working copy is stale")
	// ErrClosed is returned when a committed or discarded working copy is
	// used again.
	ErrClosed = errors.New("working copy is closed")
)

// Factory opens sessions on stored projects. Different implementations can
// keep projects in different places.
type Factory interface {
	NewSession(ctx context.Context, name string) (Session, error)
}

// Session is a project opened for editing.
type Session interface {
	Project() *Project
	// Close persists the committed state of the project if it has unsaved
	// changes.
	Close(ctx context.Context) error
}
