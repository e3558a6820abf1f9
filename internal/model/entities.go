// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package model

import (
	"fmt"
	"slices"

	"github.com/specialistvlad/mbuildgo/internal/objid"
)

// Tool is a resolved view of a tool record.
type Tool struct {
	arena *Arena
	obj   *Object
}

// Tool returns a view of the tool record id.
func (a *Arena) Tool(id string) (*Tool, error) {
	obj, err := a.ofKind(id, KindTool)
	if err != nil {
		return nil, err
	}
	return &Tool{arena: a, obj: obj}, nil
}

// ToolOf wraps an already resolved tool record.
func (a *Arena) ToolOf(obj *Object) *Tool {
	return &Tool{arena: a, obj: obj}
}

func (t *Tool) ID() string          { return t.obj.ID }
func (t *Tool) Object() *Object     { return t.obj }
func (t *Tool) Arena() *Arena       { return t.arena }
func (t *Tool) RealID() string      { return t.arena.RealID(t.obj.ID) }
func (t *Tool) Name() string        { return t.arena.DisplayName(t.obj.ID) }
func (t *Tool) Command() string     { return t.arena.String(t.obj.ID, AttrCommand) }
func (t *Tool) IsExtension() bool   { return t.obj.Extension }
func (t *Tool) ConvertTo() []string { return t.arena.List(t.obj.ID, AttrConvertTo) }

// String implements fmt.Stringer for log output.
func (t *Tool) String() string {
	return t.obj.ID
}

// Options returns the resolved options of the tool.
func (t *Tool) Options() []*Object {
	return t.arena.Children(t.obj.ID, KindOption)
}

// InputTypes returns the resolved input types of the tool.
func (t *Tool) InputTypes() []*Object {
	return t.arena.Children(t.obj.ID, KindInputType)
}

// OutputTypes returns the resolved output types of the tool.
func (t *Tool) OutputTypes() []*Object {
	return t.arena.Children(t.obj.ID, KindOutputType)
}

// PrimaryInputType returns the input type that absorbs every additional
// input: among the input types flagged multiple_of_type, the one flagged
// primary_input, else the first of them.
func (t *Tool) PrimaryInputType() (*Object, bool) {
	var first *Object
	for _, it := range t.InputTypes() {
		if !t.arena.Bool(it.ID, AttrMultipleOfType, false) {
			continue
		}
		if t.arena.Bool(it.ID, AttrPrimaryInput, false) {
			return it, true
		}
		if first == nil {
			first = it
		}
	}
	return first, first != nil
}

// InputExtensions returns the source extensions the tool consumes. Input
// types flagged multiple_of_type other than the primary one do not
// contribute.
func (t *Tool) InputExtensions() []string {
	exts := t.arena.List(t.obj.ID, AttrInputExtensions)
	primary, hasPrimary := t.PrimaryInputType()
	for _, it := range t.InputTypes() {
		if t.arena.Bool(it.ID, AttrMultipleOfType, false) && (!hasPrimary || it.ID != primary.ID) {
			continue
		}
		exts = append(exts, t.arena.List(it.ID, AttrExtensions)...)
	}
	return dedupe(exts)
}

// InterfaceExtensions returns the header-like extensions of the tool.
func (t *Tool) InterfaceExtensions() []string {
	return dedupe(t.arena.List(t.obj.ID, AttrInterfaceExtensions))
}

// OutputExtensions returns the extensions the tool produces.
func (t *Tool) OutputExtensions() []string {
	exts := t.arena.List(t.obj.ID, AttrOutputExtensions)
	for _, ot := range t.OutputTypes() {
		exts = append(exts, t.arena.List(ot.ID, AttrExtensions)...)
	}
	return dedupe(exts)
}

// BuildVariables returns the build-output variable names of the tool's
// output types.
func (t *Tool) BuildVariables() []string {
	var vars []string
	for _, ot := range t.OutputTypes() {
		if v := t.arena.String(ot.ID, AttrBuildVariable); v != "" {
			vars = append(vars, v)
		}
	}
	return dedupe(vars)
}

// IsCustomBuildStep reports whether the tool is a user-defined build step.
func (t *Tool) IsCustomBuildStep() bool {
	return t.arena.Bool(t.obj.ID, AttrCustomBuildStep, false)
}

// NatureFilter returns the project nature the tool applies to.
func (t *Tool) NatureFilter() string {
	if f := t.arena.String(t.obj.ID, AttrNatureFilter); f != "" {
		return f
	}
	return NatureBoth
}

// SupportsManagedBuild reports whether the tool can take part in a managed
// build.
func (t *Tool) SupportsManagedBuild() bool {
	return t.arena.Bool(t.obj.ID, AttrSupportsManagedBuild, true)
}

// AppliesTo reports whether the tool's nature filter admits a project with
// the given natures.
func (t *Tool) AppliesTo(natures []string) bool {
	return NatureApplies(t.NatureFilter(), natures)
}

// NatureApplies evaluates a nature filter against project natures. A project
// with the cc nature is a C++ project; any other project is a C project.
func NatureApplies(filter string, natures []string) bool {
	hasCC := slices.Contains(natures, NatureCC)
	switch filter {
	case NatureC:
		return !hasCC
	case NatureCC:
		return hasCC
	default:
		return true
	}
}

// ToolChain is a resolved view of a tool-chain record.
type ToolChain struct {
	arena *Arena
	obj   *Object
}

// ToolChain returns a view of the tool-chain record id.
func (a *Arena) ToolChain(id string) (*ToolChain, error) {
	obj, err := a.ofKind(id, KindToolChain)
	if err != nil {
		return nil, err
	}
	return &ToolChain{arena: a, obj: obj}, nil
}

func (tc *ToolChain) ID() string      { return tc.obj.ID }
func (tc *ToolChain) Object() *Object { return tc.obj }
func (tc *ToolChain) RealID() string  { return tc.arena.RealID(tc.obj.ID) }
func (tc *ToolChain) Name() string    { return tc.arena.DisplayName(tc.obj.ID) }

// Tools returns the resolved tools of the tool-chain.
func (tc *ToolChain) Tools() []*Tool {
	return toolViews(tc.arena, tc.arena.Children(tc.obj.ID, KindTool))
}

// FilteredTools returns the tools applicable to a project with the given
// natures.
func (tc *ToolChain) FilteredTools(natures []string) []*Tool {
	return FilterTools(tc.Tools(), natures)
}

// Options returns the resolved tool-chain level options.
func (tc *ToolChain) Options() []*Object {
	return tc.arena.Children(tc.obj.ID, KindOption)
}

// TargetTools returns the declared target tool ids.
func (tc *ToolChain) TargetTools() []string {
	return tc.arena.List(tc.obj.ID, AttrTargetTools)
}

// IsTargetTool reports whether t is nominated as a target of the chain. A
// nomination matches any id on the tool's superclass chain, ignoring
// template versions.
func (tc *ToolChain) IsTargetTool(t *Tool) bool {
	return MatchesAny(tc.arena, t.ID(), tc.TargetTools())
}

// TargetPlatform returns the chain's target platform.
func (tc *ToolChain) TargetPlatform() (*Object, bool) {
	return firstOf(tc.arena.Children(tc.obj.ID, KindTargetPlatform))
}

// Builder returns the chain's builder.
func (tc *ToolChain) Builder() (*Object, bool) {
	return firstOf(tc.arena.Children(tc.obj.ID, KindBuilder))
}

// MatchesAny reports whether any id on the superclass chain of id equals
// one of candidates, comparing unversioned bases.
func MatchesAny(a *Arena, id string, candidates []string) bool {
	for _, obj := range a.SuperChain(id) {
		for _, c := range candidates {
			if c == obj.ID || objid.SameBase(c, obj.ID) {
				return true
			}
		}
	}
	return false
}

// FolderInfo is a resolved view of a path-scoped override node.
type FolderInfo struct {
	arena *Arena
	obj   *Object
}

// FolderInfo returns a view of the folder record id.
func (a *Arena) FolderInfo(id string) (*FolderInfo, error) {
	obj, err := a.ofKind(id, KindFolderInfo)
	if err != nil {
		return nil, err
	}
	return &FolderInfo{arena: a, obj: obj}, nil
}

func (f *FolderInfo) ID() string      { return f.obj.ID }
func (f *FolderInfo) Object() *Object { return f.obj }
func (f *FolderInfo) Path() string    { return f.arena.String(f.obj.ID, AttrPath) }

// ToolChain returns the tool-chain the folder owns.
func (f *FolderInfo) ToolChain() (*ToolChain, error) {
	owned := f.arena.OwnedChildren(f.obj.ID, KindToolChain)
	if len(owned) != 1 {
		return nil, fmt.Errorf("folder %q owns %d tool-chains, want exactly one", f.obj.ID, len(owned))
	}
	return &ToolChain{arena: f.arena, obj: owned[0]}, nil
}

// ResourceConfiguration is a resolved view of a file-scoped override node.
type ResourceConfiguration struct {
	arena *Arena
	obj   *Object
}

// ResourceConfiguration returns a view of the resource record id.
func (a *Arena) ResourceConfiguration(id string) (*ResourceConfiguration, error) {
	obj, err := a.ofKind(id, KindResourceConfiguration)
	if err != nil {
		return nil, err
	}
	return &ResourceConfiguration{arena: a, obj: obj}, nil
}

func (r *ResourceConfiguration) ID() string      { return r.obj.ID }
func (r *ResourceConfiguration) Object() *Object { return r.obj }
func (r *ResourceConfiguration) Path() string    { return r.arena.String(r.obj.ID, AttrPath) }

// Tools returns the tools applicable to the resource.
func (r *ResourceConfiguration) Tools() []*Tool {
	return toolViews(r.arena, r.arena.Children(r.obj.ID, KindTool))
}

// CustomBuildStep returns the single custom build step tool in effect: the
// selected one if it is still present, otherwise the first custom build step
// in order.
func (r *ResourceConfiguration) CustomBuildStep() (*Tool, bool) {
	selected := r.arena.String(r.obj.ID, AttrSelectedTool)
	var first *Tool
	for _, t := range r.Tools() {
		if !t.IsCustomBuildStep() {
			continue
		}
		if selected != "" && (t.ID() == selected || MatchesAny(r.arena, t.ID(), []string{selected})) {
			return t, true
		}
		if first == nil {
			first = t
		}
	}
	return first, first != nil
}

// Configuration is a resolved view of a build configuration.
type Configuration struct {
	arena *Arena
	obj   *Object
}

// Configuration returns a view of the configuration record id.
func (a *Arena) Configuration(id string) (*Configuration, error) {
	obj, err := a.ofKind(id, KindConfiguration)
	if err != nil {
		return nil, err
	}
	return &Configuration{arena: a, obj: obj}, nil
}

func (c *Configuration) ID() string      { return c.obj.ID }
func (c *Configuration) Object() *Object { return c.obj }
func (c *Configuration) Name() string    { return c.arena.DisplayName(c.obj.ID) }

// BuildProperties returns the property type to value assignments.
func (c *Configuration) BuildProperties() map[string]string {
	return c.arena.StringMap(c.obj.ID, AttrBuildProperties)
}

// RequiredProperties returns the property types the configuration
// explicitly requires.
func (c *Configuration) RequiredProperties() []string {
	return c.arena.List(c.obj.ID, AttrRequiredProperties)
}

// Natures returns the project natures, defaulting to a C++ project.
func (c *Configuration) Natures() []string {
	if n := c.arena.List(c.obj.ID, AttrNatures); len(n) > 0 {
		return n
	}
	return []string{NatureC, NatureCC}
}

// ManagedBuildOn reports whether the configuration requires managed build.
func (c *Configuration) ManagedBuildOn() bool {
	return c.arena.Bool(c.obj.ID, AttrManagedBuildOn, true)
}

// Folders returns the folder nodes of the configuration; the first one is
// the root folder.
func (c *Configuration) Folders() []*FolderInfo {
	var out []*FolderInfo
	for _, obj := range c.arena.OwnedChildren(c.obj.ID, KindFolderInfo) {
		out = append(out, &FolderInfo{arena: c.arena, obj: obj})
	}
	return out
}

// RootFolder returns the folder that covers the whole project.
func (c *Configuration) RootFolder() (*FolderInfo, error) {
	folders := c.Folders()
	if len(folders) == 0 {
		return nil, fmt.Errorf("configuration %q has no root folder", c.obj.ID)
	}
	return folders[0], nil
}

// ToolChain returns the root folder's tool-chain.
func (c *Configuration) ToolChain() (*ToolChain, error) {
	root, err := c.RootFolder()
	if err != nil {
		return nil, err
	}
	return root.ToolChain()
}

// Resources returns the file-scoped override nodes.
func (c *Configuration) Resources() []*ResourceConfiguration {
	var out []*ResourceConfiguration
	for _, obj := range c.arena.OwnedChildren(c.obj.ID, KindResourceConfiguration) {
		out = append(out, &ResourceConfiguration{arena: c.arena, obj: obj})
	}
	return out
}

// ConfigurationOf returns the configuration that owns id.
func (a *Arena) ConfigurationOf(id string) (*Configuration, error) {
	if obj, ok := a.Get(id); ok && obj.Kind == KindConfiguration {
		return &Configuration{arena: a, obj: obj}, nil
	}
	owner, ok := a.OwnerOfKind(id, KindConfiguration)
	if !ok {
		return nil, fmt.Errorf("%q is not owned by a configuration: %w", id, ErrNotFound)
	}
	return &Configuration{arena: a, obj: owner}, nil
}

// ToolHolder returns the record whose children are the tools of a
// resource-info node: a folder's tool-chain, or the resource configuration
// itself.
func (a *Arena) ToolHolder(nodeID string) (*Object, error) {
	node, err := a.Must(nodeID)
	if err != nil {
		return nil, err
	}
	switch node.Kind {
	case KindFolderInfo:
		f := &FolderInfo{arena: a, obj: node}
		tc, err := f.ToolChain()
		if err != nil {
			return nil, err
		}
		return tc.obj, nil
	case KindResourceConfiguration, KindToolChain:
		return node, nil
	default:
		return nil, kindMismatch(nodeID, node.Kind, KindFolderInfo)
	}
}

// FilterTools keeps the tools whose nature filter admits natures.
func FilterTools(tools []*Tool, natures []string) []*Tool {
	var out []*Tool
	for _, t := range tools {
		if t.AppliesTo(natures) {
			out = append(out, t)
		}
	}
	return out
}

// ToolIDs returns the ids of tools, in order.
func ToolIDs(tools []*Tool) []string {
	ids := make([]string, len(tools))
	for i, t := range tools {
		ids[i] = t.ID()
	}
	return ids
}

func (a *Arena) ofKind(id string, kind Kind) (*Object, error) {
	obj, err := a.Must(id)
	if err != nil {
		return nil, err
	}
	if obj.Kind != kind {
		return nil, kindMismatch(id, obj.Kind, kind)
	}
	return obj, nil
}

func toolViews(a *Arena, objs []*Object) []*Tool {
	out := make([]*Tool, 0, len(objs))
	for _, obj := range objs {
		out = append(out, &Tool{arena: a, obj: obj})
	}
	return out
}

func firstOf(objs []*Object) (*Object, bool) {
	if len(objs) == 0 {
		return nil, false
	}
	return objs[0], true
}

func dedupe(ss []string) []string {
	if len(ss) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ss))
	out := make([]string, 0, len(ss))
	for _, s := range ss {
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
