// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an id does not resolve to a record.
	ErrNotFound = errors.New("build object not found")
	// ErrReadOnly is returned on any attempt to mutate an extension record
	// or a frozen arena.
	ErrReadOnly = errors.New("build object is read-only")
	// ErrKindMismatch is returned when a record is not of the expected kind.
	ErrKindMismatch = errors.New("unexpected build object kind")
)

// BuildError reports a failure to construct or reconfigure part of a build
// configuration.
type BuildError struct {
	Op     string
	ID     string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	msg := e.Op
	if e.ID != "" {
		msg += " " + e.ID
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *BuildError) Unwrap() error {
	return e.Err
}

func notFound(id string) error {
	return fmt.Errorf("%w: %q", ErrNotFound, id)
}

func kindMismatch(id string, got, want Kind) error {
	return fmt.Errorf("%w: %q is a %s, want %s", ErrKindMismatch, id, got, want)
}
