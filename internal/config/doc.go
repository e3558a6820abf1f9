// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package config defines the format-agnostic template model: the read-only
// tool-chain, tool and property definitions, and the converter rules that
// license migration between them. It also declares the Loader interface
// implemented by format-specific packages such as hcl_adapter.
//
// The config.Model is the single input of the registry package, which turns
// it into the immutable extension arena used by the engine.
package config
