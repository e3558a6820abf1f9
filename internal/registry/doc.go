// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package registry provides the immutable, process-wide table the engine
// reads from: the extension arena built from template definitions, the
// converter rules, the Go handlers that implement them, and the build
// property catalog.
//
// A Builder collects the loaded config.Model and the handlers registered by
// Go modules, validates that the two are in sync, and produces a Registry.
// After Build nothing in the Registry changes; it is safe to share across
// goroutines and is passed by reference to every component that needs it.
package registry
