// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package properties

import (
	"context"
	"slices"

	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/registry"
)

// Compatibility is the outcome of a property modification check. The maps
// go from property type id to the value currently assigned, which is empty
// when the type is checked without an assignment.
type Compatibility struct {
	RequiredUnsupported map[string]string
	AllUnsupported      map[string]string
	// Undefined lists type ids unknown to the property catalog.
	Undefined []string
}

// IsCompatible reports whether no required property is left unsupported.
func (c *Compatibility) IsCompatible() bool {
	return len(c.RequiredUnsupported) == 0
}

// Required returns the property types configID requires: the ones it names
// itself plus those required by its current tool-chain, or the artifact type
// when that union is empty.
func Required(reg *registry.Registry, a *model.Arena, configID string) ([]string, error) {
	cfg, err := a.ConfigurationOf(configID)
	if err != nil {
		return nil, err
	}
	required := cfg.RequiredProperties()
	if tc, err := cfg.ToolChain(); err == nil {
		current := ForTools(reg, a, tc.ID(), tc.FilteredTools(cfg.Natures()))
		required = append(required, current.RequiredTypeIDs()...)
	}
	slices.Sort(required)
	required = slices.Compact(required)
	if len(required) == 0 {
		required = []string{ArtifactType}
	}
	return required, nil
}

// Check verifies that candidate supports every property type assigned on the
// configuration owning configID, together with every required type.
func Check(ctx context.Context, reg *registry.Registry, a *model.Arena, configID string, candidate Restriction) (*Compatibility, error) {
	logger := ctxlog.FromContext(ctx).With("configuration", configID)

	cfg, err := a.ConfigurationOf(configID)
	if err != nil {
		return nil, err
	}
	required, err := Required(reg, a, cfg.ID())
	if err != nil {
		return nil, err
	}

	assigned := cfg.BuildProperties()
	checked := model.SortedKeys(assigned)
	for _, t := range required {
		if _, ok := assigned[t]; !ok {
			checked = append(checked, t)
		}
	}

	res := &Compatibility{
		RequiredUnsupported: make(map[string]string),
		AllUnsupported:      make(map[string]string),
	}
	for _, typeID := range checked {
		if _, known := reg.PropertyType(typeID); !known {
			logger.Warn("Property type is not defined; skipping.", "property_type", typeID)
			res.Undefined = append(res.Undefined, typeID)
			continue
		}
		value := assigned[typeID]
		if candidate.SupportsType(typeID) && (value == "" || candidate.SupportsValue(typeID, value)) {
			continue
		}
		res.AllUnsupported[typeID] = value
		if slices.Contains(required, typeID) {
			res.RequiredUnsupported[typeID] = value
		}
	}

	logger.Debug("Property compatibility checked.",
		"checked", len(checked),
		"required_unsupported", len(res.RequiredUnsupported),
		"all_unsupported", len(res.AllUnsupported),
		"undefined", len(res.Undefined),
	)
	return res, nil
}
