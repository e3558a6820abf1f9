// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package swap

// State is a step of a tool-chain swap.
type State int

const (
	Idle State = iota
	EvaluatingIdentity
	ConvertingInPlace
	RebuildingFromTemplate
	Applying
)

var stateNames = [...]string{
	Idle:                   "idle",
	EvaluatingIdentity:     "evaluating-identity",
	ConvertingInPlace:      "converting-in-place",
	RebuildingFromTemplate: "rebuilding-from-template",
	Applying:               "applying",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// transitions lists the states reachable from each state.
var transitions = map[State][]State{
	Idle:                   {EvaluatingIdentity},
	EvaluatingIdentity:     {Idle, ConvertingInPlace, RebuildingFromTemplate},
	ConvertingInPlace:      {Applying, RebuildingFromTemplate},
	RebuildingFromTemplate: {Applying},
	Applying:               {Idle},
}
