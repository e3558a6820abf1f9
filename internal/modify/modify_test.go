package modify

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/mbuildgo/internal/conflict"
	"github.com/specialistvlad/mbuildgo/internal/converter"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/registry"
	"github.com/specialistvlad/mbuildgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

const extraTemplates = `
toolchain "empty.base" {}

converter "gcc-to-x" {
  kind    = "tool"
  from    = "gnu.c.compiler"
  to      = "tool.x"
  handler = "nothing"
}
`

type nothingHandler struct{}

func (nothingHandler) Register(b *registry.Builder) {
	b.RegisterConverter("nothing", func(context.Context, *registry.ConvertRequest) (*model.Object, error) {
		return nil, nil
	})
}

type fixture struct {
	reg      *registry.Registry
	resolver *converter.Resolver
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	reg := testutil.Registry(t, []registry.Module{converter.Module{}, nothingHandler{}}, extraTemplates)
	resolver, err := converter.NewResolver(reg, converter.DefaultCacheSize)
	require.NoError(t, err)
	return &fixture{reg: reg, resolver: resolver}
}

func (f *fixture) engine(p *testutil.Project) *Engine {
	return NewEngine(f.reg, f.resolver, p.Gen)
}

func apply(t *testing.T, f *fixture, p *testutil.Project, removed, added []string) *Result {
	t.Helper()
	ctx, _ := testutil.Context(t)
	res, err := f.engine(p).Apply(ctx, p.Arena, p.Folder, removed, added)
	require.NoError(t, err)
	return res
}

func realIDs(tools []*model.Tool) []string {
	out := make([]string, len(tools))
	for i, t := range tools {
		out[i] = t.RealID()
	}
	return out
}

func toolChain(t *testing.T, p *testutil.Project) *model.ToolChain {
	t.Helper()
	tc, err := p.Arena.ToolChain(p.ToolChain)
	require.NoError(t, err)
	return tc
}

func TestApply_CancellingPairIsNoOp(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := testutil.NewProject(t, f.reg, "gnu.base")
	cc := testutil.ToolByReal(t, p.Arena, p.ToolChain, "gnu.c.compiler")
	before := p.Arena.IDs()

	res := apply(t, f, p, []string{cc.ID()}, []string{"gnu.c.compiler"})

	assert.Equal(t, []string{"gnu.c.compiler"}, res.Cancelled)
	assert.False(t, res.Changed())
	if diff := cmp.Diff(before, p.Arena.IDs()); diff != "" {
		t.Errorf("tree changed (-before +after):\n%s", diff)
	}
	assert.False(t, p.Arena.IsDirty(p.Configuration))
	assert.False(t, p.Arena.NeedsRebuild(p.Folder))
}

func TestApply_AddConflictingTools(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := testutil.NewProject(t, f.reg, "empty.base")

	res := apply(t, f, p, nil, []string{"tool.x", "tool.y"})
	require.Len(t, res.Created, 2)
	assert.Equal(t, []string{"tool.x", "tool.y"}, realIDs(toolChain(t, p).Tools()))
	assert.True(t, p.Arena.IsDirty(p.Configuration))
	assert.True(t, p.Arena.NeedsRebuild(p.Folder))

	ctx, _ := testutil.Context(t)
	st, err := conflict.ModificationStatus(ctx, f.reg, p.Arena, p.Folder, nil, nil)
	require.NoError(t, err)
	require.Len(t, st.Conflicts, 1)
	assert.Equal(t, []string{"tool.x", "tool.y"}, realIDs(st.Conflicts[0]))
}

func TestApply_ConvertsToolInPlace(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := testutil.NewProject(t, f.reg, "gnu.base")
	cc := testutil.ToolByReal(t, p.Arena, p.ToolChain, "gnu.c.compiler")
	testutil.SetOption(t, p.Arena, p.Gen, cc.ID(), "gnu.c.compiler.option.optimization", cty.StringVal("-O2"))

	res := apply(t, f, p, []string{cc.ID()}, []string{"llvm.clang"})

	require.Len(t, res.Converted, 1)
	assert.Empty(t, res.Failed)
	assert.Empty(t, res.Created)
	assert.Equal(t, []string{cc.ID()}, res.Removed)
	assert.Equal(t, []string{"gnu.base.cpp", "gnu.base.linker", "llvm.clang"}, realIDs(toolChain(t, p).Tools()))

	clang := testutil.ToolByReal(t, p.Arena, p.ToolChain, "llvm.clang")
	assert.Equal(t, res.Converted[0].Object.ID, clang.ID())
	var value string
	for _, opt := range clang.Options() {
		if p.Arena.RealID(opt.ID) == "llvm.clang.option.optimization" {
			value = p.Arena.String(opt.ID, model.AttrValue)
		}
	}
	assert.Equal(t, "-O2", value)

	unused, _ := p.Arena.LocalAttr(p.ToolChain, model.AttrUnusedChildren)
	assert.Equal(t, []string{"gnu.base.cc"}, model.AsList(unused))
	assert.True(t, p.Arena.IsDirty(p.Configuration))
}

func TestApply_FailedConversionFallsBackToTemplate(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := testutil.NewProject(t, f.reg, "gnu.base")
	cc := testutil.ToolByReal(t, p.Arena, p.ToolChain, "gnu.c.compiler")

	res := apply(t, f, p, []string{cc.ID()}, []string{"tool.x"})

	require.Len(t, res.Failed, 1)
	assert.ErrorIs(t, res.Failed[0].Err, converter.ErrNoResult)
	assert.Empty(t, res.Converted)
	assert.Len(t, res.Created, 1)
	assert.Equal(t, []string{"gnu.base.cpp", "gnu.base.linker", "tool.x"}, realIDs(toolChain(t, p).Tools()))
}

func TestApply_TargetTools(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	t.Run("replacement sharing an output extension", func(t *testing.T) {
		t.Parallel()
		p := testutil.NewProject(t, f.reg, "gnu.base")
		linker := testutil.ToolByReal(t, p.Arena, p.ToolChain, "gnu.base.linker")

		res := apply(t, f, p, []string{linker.ID()}, []string{"llvm.base.lld"})

		assert.Equal(t, map[string]string{linker.ID(): "llvm.base.lld"}, res.Targets.Replaced)
		assert.Empty(t, res.Targets.Dropped)
		tc := toolChain(t, p)
		assert.Equal(t, []string{"llvm.base.lld"}, tc.TargetTools())
		assert.True(t, tc.IsTargetTool(testutil.ToolByReal(t, p.Arena, p.ToolChain, "llvm.base.lld")))
	})

	t.Run("no replacement drops the target", func(t *testing.T) {
		t.Parallel()
		p := testutil.NewProject(t, f.reg, "gnu.base")
		linker := testutil.ToolByReal(t, p.Arena, p.ToolChain, "gnu.base.linker")

		res := apply(t, f, p, []string{linker.ID()}, nil)

		assert.Equal(t, []string{linker.ID()}, res.Targets.Dropped)
		assert.Empty(t, toolChain(t, p).TargetTools())
	})

	t.Run("removing a non-target leaves the list alone", func(t *testing.T) {
		t.Parallel()
		p := testutil.NewProject(t, f.reg, "gnu.base")
		cpp := testutil.ToolByReal(t, p.Arena, p.ToolChain, "gnu.base.cpp")

		apply(t, f, p, []string{cpp.ID()}, nil)

		_, local := p.Arena.LocalAttr(p.ToolChain, model.AttrTargetTools)
		assert.False(t, local)
		assert.Equal(t, []string{"gnu.base.linker"}, toolChain(t, p).TargetTools())
	})
}

func TestBestTarget_FallsBackToBuildVariable(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := testutil.NewProject(t, f.reg, "gnu.base")
	tc := toolChain(t, p)

	snap := TargetSnapshot{ToolID: "gone", Outputs: []string{"elf"}, Variables: []string{"OBJS"}}
	best, ok := bestTarget(snap, tc.Tools())
	require.True(t, ok)
	assert.Equal(t, "gnu.c.compiler", best.RealID())

	_, ok = bestTarget(TargetSnapshot{Outputs: []string{"elf"}}, tc.Tools())
	assert.False(t, ok)
}

func TestApply_UnknownRemovedTool(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := testutil.NewProject(t, f.reg, "empty.base")
	ctx, _ := testutil.Context(t)

	_, err := f.engine(p).Apply(ctx, p.Arena, p.Folder, []string{"tool.x"}, nil)
	require.ErrorIs(t, err, model.ErrNotFound)
	assert.False(t, p.Arena.IsDirty(p.Configuration))
}

func TestCreateAndRemoveTool(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	p := testutil.NewProject(t, f.reg, "gnu.base")
	a := p.Arena
	cc := testutil.ToolByReal(t, a, p.ToolChain, "gnu.c.compiler")

	require.NoError(t, RemoveTool(a, p.ToolChain, cc.ID()))
	assert.Equal(t, []string{"gnu.base.cpp", "gnu.base.linker"}, realIDs(toolChain(t, p).Tools()))
	assert.Equal(t, []string{"gnu.base.cc"}, localUnused(a, p.ToolChain))

	obj, err := CreateTool(a, p.ToolChain, "gnu.base.cc", p.Gen)
	require.NoError(t, err)
	assert.Equal(t, "gnu.base.cc", obj.SuperClass)
	assert.Equal(t, []string{"gnu.c.compiler", "gnu.base.cpp", "gnu.base.linker"}, realIDs(toolChain(t, p).Tools()))
	_, hidden := a.LocalAttr(p.ToolChain, model.AttrUnusedChildren)
	assert.False(t, hidden)

	_, err = CreateTool(a, p.ToolChain, "gnu.base.builder", p.Gen)
	require.Error(t, err)
	require.ErrorIs(t, RemoveTool(a, p.ToolChain, "ghost"), model.ErrNotFound)
}
