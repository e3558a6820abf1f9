// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package converter

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/specialistvlad/mbuildgo/internal/config"
	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/objid"
	"github.com/specialistvlad/mbuildgo/internal/registry"
)

// DefaultCacheSize is the number of lookups a Resolver remembers.
const DefaultCacheSize = 256

// Info is a matched converter: the rule to run, the object to convert and
// the template the result must derive from.
type Info struct {
	From string
	To   string
	// Via is the template id the rule actually names. It differs from To
	// when the match went through a structurally identical template.
	Via  string
	Rule *config.ConverterRule

	// ResultID optionally fixes the id of the produced object.
	ResultID string
}

type cacheEntry struct {
	rule *config.ConverterRule
	via  string
}

// Resolver looks up converter rules. Lookups depend only on template
// identities, so results are cached across project objects.
type Resolver struct {
	reg   *registry.Registry
	cache *lru.Cache[string, cacheEntry]
}

// NewResolver creates a resolver over the registry's rule table.
func NewResolver(reg *registry.Registry, cacheSize int) (*Resolver, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, cacheEntry](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create converter cache: %w", err)
	}
	return &Resolver{reg: reg, cache: cache}, nil
}

// Find returns the converter licensing the migration of fromID to the
// template toID.
func (r *Resolver) Find(ctx context.Context, a *model.Arena, fromID, toID string) (*Info, bool) {
	logger := ctxlog.FromContext(ctx).With("from", fromID, "to", toID)

	from, ok := a.Get(fromID)
	if !ok {
		return nil, false
	}
	kind := from.Kind.String()
	fromChain := templateChain(a, fromID)
	key := kind + ":" + strings.Join(fromChain, ">") + "|" + toID

	entry, cached := r.cache.Get(key)
	if !cached {
		entry = r.lookup(a, kind, fromID, fromChain, toID)
		r.cache.Add(key, entry)
	}
	if entry.rule == nil {
		logger.Debug("No converter found.", "cached", cached)
		return nil, false
	}
	logger.Debug("Converter found.", "rule", entry.rule.Name, "via", entry.via, "cached", cached)
	return &Info{From: fromID, To: toID, Via: entry.via, Rule: entry.rule}, true
}

// HasConverters reports whether any rule could convert fromID to something.
func (r *Resolver) HasConverters(a *model.Arena, fromID string) bool {
	from, ok := a.Get(fromID)
	if !ok {
		return false
	}
	if len(a.List(fromID, model.AttrConvertTo)) > 0 {
		return true
	}
	chain := templateChain(a, fromID)
	for _, rule := range r.reg.Rules(from.Kind.String()) {
		if matchesAny(rule.FromID, chain) {
			return true
		}
	}
	return false
}

func (r *Resolver) lookup(a *model.Arena, kind, fromID string, fromChain []string, toID string) cacheEntry {
	targets := [][]string{templateChain(a, toID)}
	for _, identical := range r.reg.Identical(a.RealID(toID)) {
		targets = append(targets, templateChain(a, identical))
	}
	rules := r.reg.Rules(kind)
	convertTo := a.List(fromID, model.AttrConvertTo)

	for _, chain := range targets {
		for _, rule := range rules {
			if !matchesAny(rule.FromID, fromChain) {
				continue
			}
			for _, to := range chain {
				if matches(rule.ToID, to) {
					return cacheEntry{rule: rule, via: to}
				}
			}
		}
		for _, declared := range convertTo {
			for _, to := range chain {
				if matches(declared, to) {
					return cacheEntry{
						rule: &config.ConverterRule{
							Name:    "convert_to:" + declared,
							Kind:    kind,
							FromID:  a.RealID(fromID),
							ToID:    declared,
							Handler: MigrateHandler,
						},
						via: to,
					}
				}
			}
		}
	}
	return cacheEntry{}
}

// templateChain returns the extension ids on the superclass chain of id.
func templateChain(a *model.Arena, id string) []string {
	var out []string
	for _, obj := range a.SuperChain(id) {
		if obj.Extension {
			out = append(out, obj.ID)
		}
	}
	return out
}

func matches(ruleID, id string) bool {
	return ruleID == id || objid.SameBase(ruleID, id)
}

func matchesAny(ruleID string, ids []string) bool {
	for _, id := range ids {
		if matches(ruleID, id) {
			return true
		}
	}
	return false
}
