// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package converter finds and runs the converter rules that migrate a tool or
// tool-chain from one template identity to another.
//
// Rules are looked up by the template identities on the superclass chain of
// the converted object and of the requested target. When the target itself
// is not named by any rule, templates with the same structural fingerprint
// are tried in turn. Invocation failures are returned as values: a failed
// conversion is something the caller reports and recovers from.
package converter
