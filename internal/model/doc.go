// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package model is the build object model: tool-chains, tools, options,
// input and output types, per-folder and per-file override nodes, and the
// configuration that owns them.
//
// # Arena and resolution
//
// Build objects are plain records stored in an Arena and addressed by id.
// Every record may name a superclass, which is another record reachable from
// the same arena. Extension templates live in a frozen, read-only arena that
// project arenas use as their base; project records live in the project arena
// and are the only mutable ones.
//
// Attribute lookups never follow live pointers. Attr walks the superclass
// chain by id and returns the first locally set value, so an attribute left
// unset on a project record keeps tracking its template.
//
// Collection attributes (options, tools, input and output types) are resolved
// by override-merge:
//
//  1. start from the superclass's resolved list, in its order;
//  2. a local child whose superclass is the id of an existing slot replaces
//     that slot in place;
//  3. any other local child is appended.
//
// Inherited ordering is therefore stable, local overrides are always visible,
// and locally added children never move inherited ones. A record can hide
// inherited slots by listing their ids in its unused_children attribute.
//
// # Identity
//
// The real identity of a record is the id of the last record on its
// superclass chain, the extension root. Two tools are the same logical tool
// iff their real identities are equal.
//
// # Flags
//
// Dirty and needs-rebuild flags follow one rule: clearing a flag clears it on
// every owned descendant, raising it raises it on every owner up to the
// configuration. Extension records never carry either flag.
package model
