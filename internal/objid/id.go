// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package objid

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/mod/semver"
)

// segmentRegex validates a single segment of an identifier path.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_+-]+$`)

// ID is the structured form of a build-object identifier.
type ID struct {
	// Base is the identifier without its version suffix.
	Base string
	// Version is the semantic version without the "v" prefix. Empty when
	// the identifier is unversioned.
	Version string
}

// String returns the canonical form, `base` or `base_version`.
func (id ID) String() string {
	if id.Version == "" {
		return id.Base
	}
	return id.Base + "_" + id.Version
}

// HasVersion reports whether the identifier carries a version suffix.
func (id ID) HasVersion() bool {
	return id.Version != ""
}

// Parse splits a raw identifier into its base and version parts.
func Parse(raw string) (ID, error) {
	if raw == "" {
		return ID{}, fmt.Errorf("identifier cannot be empty")
	}
	for _, segment := range strings.Split(raw, ".") {
		if segment == "" {
			return ID{}, fmt.Errorf("identifier %q contains empty segment", raw)
		}
	}

	id := ID{Base: raw}
	if i := strings.LastIndex(raw, "_"); i > 0 && i < len(raw)-1 {
		candidate := raw[i+1:]
		if semver.IsValid("v" + candidate) {
			id.Base = raw[:i]
			id.Version = candidate
		}
	}

	// Validate base segments only; the version part uses dots of its own.
	for _, segment := range strings.Split(id.Base, ".") {
		if segment == "" {
			return ID{}, fmt.Errorf("identifier %q contains empty segment", raw)
		}
		if !segmentRegex.MatchString(segment) {
			return ID{}, fmt.Errorf("invalid identifier segment %q in %q", segment, raw)
		}
	}
	return id, nil
}

// BaseOf returns the unversioned part of raw. Invalid identifiers are
// returned unchanged.
func BaseOf(raw string) string {
	id, err := Parse(raw)
	if err != nil {
		return raw
	}
	return id.Base
}

// SameBase reports whether two identifiers differ at most in their version.
func SameBase(a, b string) bool {
	return BaseOf(a) == BaseOf(b)
}

// Compare orders two identifiers with the same base by version. An
// unversioned identifier sorts before any versioned one. Identifiers with
// different bases are ordered lexically by base.
func Compare(a, b string) int {
	ia, errA := Parse(a)
	ib, errB := Parse(b)
	if errA != nil || errB != nil {
		return strings.Compare(a, b)
	}
	if ia.Base != ib.Base {
		return strings.Compare(ia.Base, ib.Base)
	}
	switch {
	case ia.Version == "" && ib.Version == "":
		return 0
	case ia.Version == "":
		return -1
	case ib.Version == "":
		return 1
	}
	return semver.Compare("v"+ia.Version, "v"+ib.Version)
}
