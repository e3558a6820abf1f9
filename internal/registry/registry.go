// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package registry

import (
	"slices"
	"sort"
	"strings"

	"github.com/specialistvlad/mbuildgo/internal/config"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/objid"
)

// Registry is the read-only table of templates, converters and property
// types. The zero value is not usable; obtain one from Builder.Build.
type Registry struct {
	arena         *model.Arena
	toolChains    []string
	tools         []string
	propertyTypes map[string]*config.PropertyType
	rules         []*config.ConverterRule
	handlers      map[string]ConverterFunc
	fingerprints  map[string]string
	byFingerprint map[string][]string
}

// Arena returns the frozen extension arena. Project arenas use it as their
// base.
func (r *Registry) Arena() *model.Arena {
	return r.arena
}

// ToolChains returns the ids of the top-level tool-chain templates in
// declaration order.
func (r *Registry) ToolChains() []string {
	return slices.Clone(r.toolChains)
}

// Tools returns the ids of the standalone tool templates.
func (r *Registry) Tools() []string {
	return slices.Clone(r.tools)
}

// Template resolves a template id. An unversioned id that is not itself
// defined resolves to the latest version with that base.
func (r *Registry) Template(id string) (*model.Object, bool) {
	if obj, ok := r.arena.Get(id); ok {
		return obj, true
	}
	if latest, ok := r.Latest(id); ok {
		return r.arena.Get(latest)
	}
	return nil, false
}

// Latest returns the highest-versioned template whose base id is base.
func (r *Registry) Latest(base string) (string, bool) {
	base = objid.BaseOf(base)
	var best string
	for _, id := range r.arena.IDs() {
		if objid.BaseOf(id) != base {
			continue
		}
		if best == "" || objid.Compare(id, best) > 0 {
			best = id
		}
	}
	return best, best != ""
}

// Rules returns the converter rules for one object kind.
func (r *Registry) Rules(kind string) []*config.ConverterRule {
	var out []*config.ConverterRule
	for _, rule := range r.rules {
		if rule.Kind == kind {
			out = append(out, rule)
		}
	}
	return out
}

// Handler returns the Go function registered under name.
func (r *Registry) Handler(name string) (ConverterFunc, bool) {
	fn, ok := r.handlers[name]
	return fn, ok
}

// PropertyType returns a build property type by id.
func (r *Registry) PropertyType(id string) (*config.PropertyType, bool) {
	p, ok := r.propertyTypes[id]
	return p, ok
}

// PropertyTypes returns every known property type sorted by id.
func (r *Registry) PropertyTypes() []*config.PropertyType {
	out := make([]*config.PropertyType, 0, len(r.propertyTypes))
	for _, id := range model.SortedKeys(r.propertyTypes) {
		out = append(out, r.propertyTypes[id])
	}
	return out
}

// Fingerprint returns the structural signature of a tool or tool-chain
// template: the extensions it consumes and produces.
func (r *Registry) Fingerprint(id string) string {
	return r.fingerprints[id]
}

// Identical returns the other templates of the same kind whose declared
// capabilities match id's, sorted by id.
func (r *Registry) Identical(id string) []string {
	fp, ok := r.fingerprints[id]
	if !ok {
		return nil
	}
	var out []string
	for _, other := range r.byFingerprint[fp] {
		if other != id {
			out = append(out, other)
		}
	}
	return out
}

func (r *Registry) indexFingerprints() {
	for _, id := range r.arena.IDs() {
		obj, _ := r.arena.Local(id)
		var fp string
		switch obj.Kind {
		case model.KindTool:
			fp = toolFingerprint(r.arena.ToolOf(obj))
		case model.KindToolChain:
			tc, _ := r.arena.ToolChain(id)
			parts := make([]string, 0)
			for _, t := range tc.Tools() {
				parts = append(parts, toolFingerprint(t))
			}
			sort.Strings(parts)
			fp = "toolchain[" + strings.Join(parts, "|") + "]"
		default:
			continue
		}
		r.fingerprints[id] = fp
		r.byFingerprint[fp] = append(r.byFingerprint[fp], id)
	}
}

func toolFingerprint(t *model.Tool) string {
	in := slices.Sorted(slices.Values(t.InputExtensions()))
	out := slices.Sorted(slices.Values(t.OutputExtensions()))
	return "tool(" + strings.Join(in, ",") + "->" + strings.Join(out, ",") + ")"
}
