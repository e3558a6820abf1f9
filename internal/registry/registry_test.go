package registry_test

import (
	"context"
	"testing"

	"github.com/specialistvlad/mbuildgo/internal/config"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/registry"
	"github.com/specialistvlad/mbuildgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubModule = testutil.NoOpConverters

func TestBuild_TemplatePack(t *testing.T) {
	t.Parallel()
	reg := testutil.Registry(t, []registry.Module{stubModule{}})

	assert.Equal(t, []string{"gnu.base", "gnu.base_2.0.0", "cross.base", "llvm.base", "script.base"}, reg.ToolChains())
	assert.Equal(t, []string{"gnu.c.compiler", "tool.x", "tool.y", "llvm.clang"}, reg.Tools())
	assert.True(t, reg.Arena().Frozen())

	obj, ok := reg.Template("gnu.base.cc")
	require.True(t, ok)
	assert.True(t, obj.Extension)
	assert.Equal(t, "gcc", reg.Arena().String("gnu.base.cc", model.AttrCommand))

	_, ok = reg.Handler("migrate")
	assert.True(t, ok)
	assert.Len(t, reg.Rules(config.KindToolChain), 1)
	assert.Len(t, reg.Rules(config.KindTool), 1)

	pt, ok := reg.PropertyType("artifact.type")
	require.True(t, ok)
	assert.True(t, pt.HasValue("exe"))
	assert.Len(t, reg.PropertyTypes(), 2)
}

func TestLatestAndTemplate(t *testing.T) {
	t.Parallel()
	reg := testutil.Registry(t, []registry.Module{stubModule{}}, `toolchain "gnu.base_1.5.0" { super_class = "gnu.base" }`)

	latest, ok := reg.Latest("gnu.base")
	require.True(t, ok)
	assert.Equal(t, "gnu.base_2.0.0", latest)

	latest, ok = reg.Latest("gnu.base_1.5.0")
	require.True(t, ok)
	assert.Equal(t, "gnu.base_2.0.0", latest, "any version resolves to the newest")

	_, ok = reg.Latest("nope")
	assert.False(t, ok)

	obj, ok := reg.Template("gnu.base")
	require.True(t, ok)
	assert.Equal(t, "gnu.base", obj.ID, "an exact id wins over a newer version")
}

func TestIdentical(t *testing.T) {
	t.Parallel()
	reg := testutil.Registry(t, []registry.Module{stubModule{}})

	assert.Equal(t, []string{"gnu.base_2.0.0"}, reg.Identical("gnu.base"))
	assert.Contains(t, reg.Identical("gnu.c.compiler"), "llvm.clang")
	assert.Contains(t, reg.Identical("gnu.c.compiler"), "cross.cc")
	assert.NotContains(t, reg.Identical("gnu.c.compiler"), "gnu.c.compiler")
	assert.Empty(t, reg.Identical("cross.base"))
	assert.Empty(t, reg.Identical("unknown"))
	assert.Equal(t, "tool(c->o)", reg.Fingerprint("gnu.c.compiler"))
}

func TestBuild_ValidationErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		model   *config.Model
		modules []registry.Module
		wantErr []string
	}{
		{
			name: "missing superclass and handler",
			model: &config.Model{
				Tools: []*config.ObjectDefinition{{Kind: config.KindTool, ID: "a", SuperClass: "ghost"}},
				Converters: []*config.ConverterRule{
					{Name: "r", Kind: config.KindTool, FromID: "a", ToID: "a", Handler: "nope"},
				},
			},
			wantErr: []string{"superclass 'ghost' is not defined", "handler 'nope' is not registered"},
		},
		{
			name: "kind mismatch",
			model: &config.Model{
				ToolChains: []*config.ObjectDefinition{{Kind: config.KindToolChain, ID: "tc", SuperClass: "t"}},
				Tools:      []*config.ObjectDefinition{{Kind: config.KindTool, ID: "t"}},
			},
			wantErr: []string{"superclass 't' is a tool"},
		},
		{
			name: "cycle",
			model: &config.Model{
				Tools: []*config.ObjectDefinition{
					{Kind: config.KindTool, ID: "a", SuperClass: "b"},
					{Kind: config.KindTool, ID: "b", SuperClass: "a"},
				},
			},
			wantErr: []string{"superclass chain is cyclic"},
		},
		{
			name:    "invalid model",
			model:   &config.Model{Tools: []*config.ObjectDefinition{{Kind: config.KindTool}}},
			wantErr: []string{"validation failed"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := registry.NewBuilder(tc.model, tc.modules...).Build(context.Background())
			require.Error(t, err)
			for _, want := range tc.wantErr {
				assert.Contains(t, err.Error(), want)
			}
		})
	}
}

func TestRegisterConverter_DuplicatePanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() {
		registry.NewBuilder(&config.Model{}, stubModule{}, stubModule{})
	})
}
