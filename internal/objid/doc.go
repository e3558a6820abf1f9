// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package objid defines the identifier grammar shared by every build object.
//
// An identifier is a dot-separated path of segments such as
// `gnu.c.compiler.exe.debug`. Extension templates may carry a version suffix
// separated by an underscore (`gnu.c.compiler_4.2.0`); the version is a
// semantic version without the leading "v".
//
// Project-level objects receive generated identifiers derived from the id of
// the template they were created from: `<template id>.<number>`. Generation is
// delegated to a Generator so that tests and reproducible tooling can use a
// deterministic sequence.
package objid
