// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package testutil holds fixtures and helpers shared by package tests: a
// template pack covering the common tool-chain swap scenarios, a logger
// harness and constructors for small project configurations.
package testutil
