// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

// Package modify applies tool-list changes to a folder's tool-chain or to a
// resource configuration.
//
// A change is a set of tools to remove and a set of tools to add. Tools that
// appear on both sides by real identity cancel out. A removed tool that a
// converter rule licenses to become one of the added tools is converted in
// place, keeping the settings the converter migrates; everything else is
// removed or created from its template. Afterwards the tool-chain's target
// list is re-derived and the node is marked dirty and in need of a rebuild.
package modify
