// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package objid

import (
	"strconv"
	"sync/atomic"

	"github.com/google/uuid"
)

// Generator produces identifiers for new project-level objects.
type Generator interface {
	// Next returns a fresh identifier derived from base.
	Next(base string) string
}

// RandomGenerator appends a random 32-bit number to the base id.
type RandomGenerator struct{}

// Next implements Generator.
func (RandomGenerator) Next(base string) string {
	return base + "." + strconv.FormatUint(uint64(uuid.New().ID()), 10)
}

// SequenceGenerator appends a monotonically increasing counter. Output is
// stable across runs, which keeps fixtures and serialized trees comparable.
type SequenceGenerator struct {
	n atomic.Uint64
}

// NewSequenceGenerator returns a generator whose first suffix is 1.
func NewSequenceGenerator() *SequenceGenerator {
	return &SequenceGenerator{}
}

// Next implements Generator.
func (g *SequenceGenerator) Next(base string) string {
	return base + "." + strconv.FormatUint(g.n.Add(1), 10)
}
