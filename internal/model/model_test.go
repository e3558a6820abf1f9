package model

import (
	"testing"

	"github.com/specialistvlad/mbuildgo/internal/objid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// templates builds a frozen extension arena:
//
//	tc.base
//	  tool.cc     (.c -> .o), options opt.o, opt.g
//	  tool.ld     (.o -> .exe)
//	tc.derived : tc.base
//	  tool.cc.fast : tool.cc   (overrides opt.o with opt.o.fast)
//	  tool.as                   (.s -> .o)
func templates(t *testing.T) *Arena {
	t.Helper()
	a := NewArena(nil)
	add := func(o *Object) {
		o.Extension = true
		require.NoError(t, a.Add(o))
	}
	add(&Object{ID: "tc.base", Kind: KindToolChain, Name: "Base", Attrs: map[string]cty.Value{
		AttrTargetTools: ListValue([]string{"tool.ld"}),
	}})
	add(&Object{ID: "tool.cc", Kind: KindTool, Name: "CC", Parent: "tc.base", Attrs: map[string]cty.Value{
		AttrCommand:          StringValue("gcc"),
		AttrInputExtensions:  ListValue([]string{"c"}),
		AttrOutputExtensions: ListValue([]string{"o"}),
	}})
	add(&Object{ID: "opt.o", Kind: KindOption, Parent: "tool.cc", Attrs: map[string]cty.Value{
		AttrValueType: StringValue(ValueEnumerated), AttrValue: StringValue("-O0"),
	}})
	add(&Object{ID: "opt.g", Kind: KindOption, Parent: "tool.cc", Attrs: map[string]cty.Value{
		AttrValueType: StringValue(ValueBoolean), AttrValue: BoolValue(true),
	}})
	add(&Object{ID: "tool.ld", Kind: KindTool, Name: "LD", Parent: "tc.base", Attrs: map[string]cty.Value{
		AttrCommand:          StringValue("ld"),
		AttrInputExtensions:  ListValue([]string{"o"}),
		AttrOutputExtensions: ListValue([]string{"exe"}),
	}})
	add(&Object{ID: "tc.derived", Kind: KindToolChain, SuperClass: "tc.base"})
	add(&Object{ID: "tool.cc.fast", Kind: KindTool, SuperClass: "tool.cc", Parent: "tc.derived"})
	add(&Object{ID: "opt.o.fast", Kind: KindOption, SuperClass: "opt.o", Parent: "tool.cc.fast", Attrs: map[string]cty.Value{
		AttrValue: StringValue("-O3"),
	}})
	add(&Object{ID: "tool.as", Kind: KindTool, Parent: "tc.derived", Attrs: map[string]cty.Value{
		AttrInputExtensions:  ListValue([]string{"s"}),
		AttrOutputExtensions: ListValue([]string{"o"}),
	}})
	a.Freeze()
	return a
}

func ids(objs []*Object) []string {
	out := make([]string, len(objs))
	for i, o := range objs {
		out[i] = o.ID
	}
	return out
}

func TestAttr_ResolvesThroughSuperClassChain(t *testing.T) {
	t.Parallel()
	a := templates(t)

	v, ok := a.Attr("tool.cc.fast", AttrCommand)
	require.True(t, ok)
	assert.Equal(t, "gcc", AsString(v))
	assert.Equal(t, "-O3", a.String("opt.o.fast", AttrValue))
	assert.Equal(t, ValueEnumerated, a.String("opt.o.fast", AttrValueType), "unset attribute falls back to the superclass")
	assert.Equal(t, "CC", a.DisplayName("tool.cc.fast"))

	_, ok = a.Attr("tool.cc.fast", AttrBuildVariable)
	assert.False(t, ok)
}

func TestChildren_OverrideMerge(t *testing.T) {
	t.Parallel()
	a := templates(t)

	// The override replaces tool.cc in place, the new tool is appended.
	assert.Equal(t, []string{"tool.cc.fast", "tool.ld", "tool.as"}, ids(a.Children("tc.derived", KindTool)))
	// Option order is inherited; only the overridden slot changes.
	assert.Equal(t, []string{"opt.o.fast", "opt.g"}, ids(a.Children("tool.cc.fast", KindOption)))
	assert.Equal(t, []string{"tool.cc.fast", "tool.as"}, ids(a.OwnedChildren("tc.derived", KindTool)))
}

func TestChildren_UnusedChildrenHidesInheritedSlot(t *testing.T) {
	t.Parallel()
	a := NewArena(templates(t))
	require.NoError(t, a.Add(&Object{ID: "p.tc", Kind: KindToolChain, SuperClass: "tc.base"}))
	require.NoError(t, a.SetAttr("p.tc", AttrUnusedChildren, ListValue([]string{"tool.ld"})))

	assert.Equal(t, []string{"tool.cc"}, ids(a.Children("p.tc", KindTool)))
}

func TestRealID(t *testing.T) {
	t.Parallel()
	a := NewArena(templates(t))
	require.NoError(t, a.Add(&Object{ID: "p.tool", Kind: KindTool, SuperClass: "tool.cc.fast"}))

	assert.Equal(t, "tool.cc", a.RealID("p.tool"))
	assert.Equal(t, "tool.cc", a.RealID("tool.cc"))
	assert.True(t, a.SameLogical("p.tool", "tool.cc.fast"))
	assert.False(t, a.SameLogical("p.tool", "tool.ld"))
	assert.Equal(t, "missing", a.RealID("missing"))
	assert.True(t, a.DerivesFrom("p.tool", "tool.cc"))
}

func TestSuperChain_StopsOnCycle(t *testing.T) {
	t.Parallel()
	a := NewArena(nil)
	require.NoError(t, a.Add(&Object{ID: "x", Kind: KindTool, SuperClass: "y"}))
	require.NoError(t, a.Add(&Object{ID: "y", Kind: KindTool, SuperClass: "x"}))

	assert.Len(t, a.SuperChain("x"), 2)
	assert.Empty(t, a.Children("x", KindOption))
}

func TestArena_ReadOnly(t *testing.T) {
	t.Parallel()
	base := templates(t)
	a := NewArena(base)

	require.ErrorIs(t, base.SetAttr("tool.cc", AttrCommand, StringValue("clang")), ErrReadOnly)
	require.ErrorIs(t, a.SetAttr("tool.cc", AttrCommand, StringValue("clang")), ErrReadOnly)
	require.ErrorIs(t, a.SetAttr("nope", AttrCommand, StringValue("clang")), ErrNotFound)
	require.ErrorIs(t, base.Add(&Object{ID: "late", Kind: KindTool}), ErrReadOnly)
	require.Error(t, a.Add(&Object{ID: "tool.cc", Kind: KindTool}), "ids are unique across the base")
}

func TestArena_RemoveAndClone(t *testing.T) {
	t.Parallel()
	a := NewArena(templates(t))
	gen := objid.NewSequenceGenerator()
	tc, err := Instantiate(a, "tc.base", "", gen)
	require.NoError(t, err)

	clone := a.Clone()
	tools := a.OwnedChildren(tc.ID, KindTool)
	require.Len(t, tools, 2)
	require.NoError(t, a.Remove(tools[0].ID))

	assert.Len(t, a.OwnedChildren(tc.ID, KindTool), 1)
	_, ok := a.Local(tools[0].ID)
	assert.False(t, ok)
	// Options owned by the removed tool are gone too.
	for _, id := range clone.IDs() {
		if obj, _ := clone.Local(id); obj.Parent == tools[0].ID {
			_, stillThere := a.Local(id)
			assert.False(t, stillThere)
		}
	}
	assert.Len(t, clone.OwnedChildren(tc.ID, KindTool), 2, "clone is unaffected")
}

func TestArena_InsertAndReparent(t *testing.T) {
	t.Parallel()
	a := NewArena(nil)
	require.NoError(t, a.Add(&Object{ID: "p", Kind: KindToolChain}))
	require.NoError(t, a.Add(&Object{ID: "q", Kind: KindToolChain}))
	require.NoError(t, a.Add(&Object{ID: "t1", Kind: KindTool, Parent: "p"}))
	require.NoError(t, a.Add(&Object{ID: "t2", Kind: KindTool, Parent: "p"}))
	require.NoError(t, a.Insert(&Object{ID: "t0", Kind: KindTool, Parent: "p"}, 0))

	p, _ := a.Local("p")
	assert.Equal(t, []string{"t0", "t1", "t2"}, p.Children)

	require.NoError(t, a.Reparent("t1", "q"))
	q, _ := a.Local("q")
	assert.Equal(t, []string{"t0", "t2"}, p.Children)
	assert.Equal(t, []string{"t1"}, q.Children)
	assert.Equal(t, []string{"p", "q"}, a.Roots())
}

func TestFlags_Propagation(t *testing.T) {
	t.Parallel()
	a := NewArena(templates(t))
	require.NoError(t, a.Add(&Object{ID: "cfg", Kind: KindConfiguration}))
	require.NoError(t, a.Add(&Object{ID: "root", Kind: KindFolderInfo, Parent: "cfg"}))
	tc, err := Instantiate(a, "tc.base", "root", objid.NewSequenceGenerator())
	require.NoError(t, err)
	tool := a.OwnedChildren(tc.ID, KindTool)[0]

	a.MarkChanged(tool.ID)
	for _, id := range []string{tool.ID, tc.ID, "root", "cfg"} {
		assert.True(t, a.IsDirty(id), id)
		assert.True(t, a.NeedsRebuild(id), id)
	}
	assert.False(t, a.IsDirty(a.OwnedChildren(tc.ID, KindTool)[1].ID), "siblings are untouched")

	a.SetDirty("root", false)
	assert.False(t, a.IsDirty("root"))
	assert.False(t, a.IsDirty(tool.ID))
	assert.True(t, a.IsDirty("cfg"), "clearing does not travel upwards")

	a.SetDirty("tool.cc", true)
	assert.False(t, a.IsDirty("tool.cc"), "extension records are never dirty")
}

func TestTool_InputExtensionsWithMultipleOfType(t *testing.T) {
	t.Parallel()

	build := func(primary string) *Tool {
		a := NewArena(nil)
		require.NoError(t, a.Add(&Object{ID: "t", Kind: KindTool, Attrs: map[string]cty.Value{
			AttrInputExtensions: ListValue([]string{"c"}),
		}}))
		for _, id := range []string{"in.a", "in.b"} {
			attrs := map[string]cty.Value{
				AttrMultipleOfType: BoolValue(true),
				AttrExtensions:     ListValue([]string{id + ".ext"}),
			}
			if id == primary {
				attrs[AttrPrimaryInput] = BoolValue(true)
			}
			require.NoError(t, a.Add(&Object{ID: id, Kind: KindInputType, Parent: "t", Attrs: attrs}))
		}
		require.NoError(t, a.Add(&Object{ID: "in.plain", Kind: KindInputType, Parent: "t", Attrs: map[string]cty.Value{
			AttrExtensions: ListValue([]string{"c", "i"}),
		}}))
		tool, err := a.Tool("t")
		require.NoError(t, err)
		return tool
	}

	assert.Equal(t, []string{"c", "in.b.ext", "i"}, build("in.b").InputExtensions())
	assert.Equal(t, []string{"c", "in.a.ext", "i"}, build("").InputExtensions(), "first candidate wins without a primary")
}

func TestNatureApplies(t *testing.T) {
	t.Parallel()
	cpp := []string{NatureC, NatureCC}
	c := []string{NatureC}

	assert.True(t, NatureApplies(NatureBoth, cpp))
	assert.True(t, NatureApplies(NatureCC, cpp))
	assert.False(t, NatureApplies(NatureC, cpp))
	assert.True(t, NatureApplies(NatureC, c))
	assert.False(t, NatureApplies(NatureCC, c))
}

func TestToolChain_TargetTools(t *testing.T) {
	t.Parallel()
	a := NewArena(templates(t))
	tcObj, err := Instantiate(a, "tc.derived", "", objid.NewSequenceGenerator())
	require.NoError(t, err)
	tc, err := a.ToolChain(tcObj.ID)
	require.NoError(t, err)

	var targets []string
	for _, tool := range tc.Tools() {
		if tc.IsTargetTool(tool) {
			targets = append(targets, tool.RealID())
		}
	}
	assert.Equal(t, []string{"tool.ld"}, targets)
	assert.Equal(t, "Base", tc.Name())
}

func TestResourceConfiguration_CustomBuildStep(t *testing.T) {
	t.Parallel()
	a := NewArena(nil)
	require.NoError(t, a.Add(&Object{ID: "rc", Kind: KindResourceConfiguration}))
	for _, id := range []string{"plain", "step.a", "step.b"} {
		attrs := map[string]cty.Value{}
		if id != "plain" {
			attrs[AttrCustomBuildStep] = BoolValue(true)
		}
		require.NoError(t, a.Add(&Object{ID: id, Kind: KindTool, Parent: "rc", Attrs: attrs}))
	}
	rc, err := a.ResourceConfiguration("rc")
	require.NoError(t, err)

	step, ok := rc.CustomBuildStep()
	require.True(t, ok)
	assert.Equal(t, "step.a", step.ID())

	require.NoError(t, a.SetAttr("rc", AttrSelectedTool, StringValue("step.b")))
	step, _ = rc.CustomBuildStep()
	assert.Equal(t, "step.b", step.ID())

	require.NoError(t, a.SetAttr("rc", AttrSelectedTool, StringValue("gone")))
	step, _ = rc.CustomBuildStep()
	assert.Equal(t, "step.a", step.ID(), "a stale selection falls back to the first step")
}

func TestInstantiate(t *testing.T) {
	t.Parallel()
	a := NewArena(templates(t))
	tc, err := Instantiate(a, "tc.derived", "", objid.NewSequenceGenerator())
	require.NoError(t, err)

	assert.Equal(t, "tc.base.1", tc.ID)
	assert.Equal(t, "tc.derived", tc.SuperClass)
	assert.False(t, tc.Extension)

	view, err := a.ToolChain(tc.ID)
	require.NoError(t, err)
	tools := view.Tools()
	require.Len(t, tools, 3)
	real := make([]string, len(tools))
	for i, tool := range tools {
		real[i] = tool.RealID()
		assert.False(t, tool.IsExtension())
	}
	assert.Equal(t, []string{"tool.cc", "tool.ld", "tool.as"}, real)
	assert.Equal(t, "-O3", a.String(tools[0].Options()[0].ID, AttrValue))
}

func TestCloneSubtree_RemapsInternalReferences(t *testing.T) {
	t.Parallel()
	a := NewArena(templates(t))
	gen := objid.NewSequenceGenerator()
	tc, err := Instantiate(a, "tc.base", "", gen)
	require.NoError(t, err)
	tool := a.OwnedChildren(tc.ID, KindTool)[0]
	// A record whose superclass is another project record inside the subtree.
	require.NoError(t, a.Add(&Object{ID: "p.override", Kind: KindOption, SuperClass: tool.Children[0], Parent: tool.ID}))
	require.NoError(t, a.SetAttr("p.override", AttrValue, StringValue("-O2")))

	mapping, err := CloneSubtree(a, tc.ID, "", gen)
	require.NoError(t, err)

	copied, ok := a.Local(mapping["p.override"])
	require.True(t, ok)
	assert.Equal(t, mapping[tool.Children[0]], copied.SuperClass)
	assert.Equal(t, "-O2", a.String(copied.ID, AttrValue))
	assert.Equal(t, "tool.cc", a.RealID(mapping[tool.ID]))
	assert.NotEqual(t, tc.ID, mapping[tc.ID])
}

func TestSetOptionValue(t *testing.T) {
	t.Parallel()
	a := NewArena(templates(t))
	gen := objid.NewSequenceGenerator()
	tc, err := Instantiate(a, "tc.base", "", gen)
	require.NoError(t, err)
	tool := a.OwnedChildren(tc.ID, KindTool)[0]

	opt, err := a.SetOptionValue(tool.ID, "opt.o", StringValue("-O2"), gen)
	require.NoError(t, err)
	assert.Equal(t, tool.ID, opt.Parent, "the instantiated option is reused")
	assert.Equal(t, "-O2", a.String(opt.ID, AttrValue))
	assert.Len(t, a.CustomOptions(tool.ID), 1)

	require.NoError(t, a.SetAttr(opt.ID, AttrEnumValues, ListValue([]string{"-O0", "-O2"})))
	_, err = a.SetOptionValue(tool.ID, "opt.o", StringValue("-O9"), gen)
	require.Error(t, err)
	assert.Equal(t, "-O2", a.String(opt.ID, AttrValue))

	_, err = a.SetOptionValue(tool.ID, "opt.missing", BoolValue(true), gen)
	require.ErrorIs(t, err, ErrNotFound)
}
