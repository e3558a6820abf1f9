package properties

import (
	"slices"
	"testing"

	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/registry"
	"github.com/specialistvlad/mbuildgo/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRestriction is a declared restriction over explicit sets.
type setRestriction struct {
	supported map[string][]string
}

func (s setRestriction) Restricts() bool { return true }
func (s setRestriction) SupportsType(t string) bool {
	_, ok := s.supported[t]
	return ok
}
func (s setRestriction) SupportsValue(t, v string) bool { return slices.Contains(s.supported[t], v) }
func (s setRestriction) RequiresType(string) bool       { return false }
func (s setRestriction) RequiredTypeIDs() []string      { return nil }
func (s setRestriction) SupportedTypeIDs() []string     { return model.SortedKeys(s.supported) }
func (s setRestriction) SupportedValueIDs(t string) []string {
	return s.supported[t]
}

func modules() []registry.Module { return []registry.Module{testutil.NoOpConverters{}} }

func TestForObject(t *testing.T) {
	t.Parallel()
	reg := testutil.Registry(t, modules())
	a := reg.Arena()

	cross := ForObject(reg, a, "cross.base")
	assert.True(t, cross.Restricts())
	assert.True(t, cross.SupportsType("artifact.type"))
	assert.False(t, cross.SupportsType("build.type"))
	assert.True(t, cross.SupportsValue("artifact.type", "staticLib"))
	assert.False(t, cross.SupportsValue("artifact.type", "exe"))
	assert.Equal(t, []string{"artifact.type"}, cross.SupportedTypeIDs())

	// Tools without declarations support everything the catalog knows.
	open := ForObject(reg, a, "cross.cc")
	assert.False(t, open.Restricts())
	assert.True(t, open.SupportsValue("artifact.type", "exe"))
	assert.False(t, open.SupportsType("undefined.type"))
	assert.Equal(t, []string{"artifact.type", "build.type"}, open.SupportedTypeIDs())
}

func TestComposite(t *testing.T) {
	t.Parallel()
	reg := testutil.Registry(t, modules())
	a := reg.Arena()

	c := Composite(ForObject(reg, a, "cross.base"), ForObject(reg, a, "llvm.base"), ForObject(reg, a, "cross.cc"))
	assert.True(t, c.SupportsValue("artifact.type", "exe"), "llvm supports exe")
	assert.True(t, c.SupportsValue("artifact.type", "staticLib"), "cross supports staticLib")
	assert.False(t, c.SupportsType("build.type"), "undeclared members do not vote")
	assert.Equal(t, []string{"exe", "sharedLib", "staticLib"}, c.SupportedValueIDs("artifact.type"))

	onlyOpen := Composite(ForObject(reg, a, "cross.cc"), ForObject(reg, a, "tool.x"))
	assert.True(t, onlyOpen.SupportsType("build.type"))
	assert.False(t, onlyOpen.Restricts())
}

func TestCheck(t *testing.T) {
	t.Parallel()
	reg := testutil.Registry(t, modules())

	testCases := []struct {
		name           string
		assigned       map[string]string
		required       []string
		candidate      string
		wantRequired   map[string]string
		wantAll        map[string]string
		wantUndefined  []string
		wantCompatible bool
	}{
		{
			// A configuration requiring artifact.type=exe cannot move to a
			// tool-chain that only builds static libraries.
			name:           "required value unsupported",
			assigned:       map[string]string{"artifact.type": "exe"},
			required:       []string{"artifact.type"},
			candidate:      "cross.base",
			wantRequired:   map[string]string{"artifact.type": "exe"},
			wantAll:        map[string]string{"artifact.type": "exe"},
			wantCompatible: false,
		},
		{
			name:           "optional type unsupported",
			assigned:       map[string]string{"artifact.type": "staticLib", "build.type": "debug"},
			required:       []string{"artifact.type"},
			candidate:      "cross.base",
			wantRequired:   map[string]string{},
			wantAll:        map[string]string{"build.type": "debug"},
			wantCompatible: true,
		},
		{
			name:           "artifact type implicitly required",
			assigned:       map[string]string{"artifact.type": "exe"},
			candidate:      "cross.base",
			wantRequired:   map[string]string{"artifact.type": "exe"},
			wantAll:        map[string]string{"artifact.type": "exe"},
			wantCompatible: false,
		},
		{
			name:           "undefined types are not unsupported",
			assigned:       map[string]string{"vendor.flavor": "x", "artifact.type": "exe"},
			required:       []string{"artifact.type"},
			candidate:      "gnu.base",
			wantRequired:   map[string]string{},
			wantAll:        map[string]string{},
			wantUndefined:  []string{"vendor.flavor"},
			wantCompatible: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			ctx, _ := testutil.Context(t)
			p := testutil.NewProject(t, reg, "script.base")
			require.NoError(t, p.Arena.SetAttr(p.Configuration, model.AttrBuildProperties, model.StringMapValue(tc.assigned)))
			if tc.required != nil {
				require.NoError(t, p.Arena.SetAttr(p.Configuration, model.AttrRequiredProperties, model.ListValue(tc.required)))
			}

			candidate, err := ForToolChain(reg, p.Arena, tc.candidate, []string{model.NatureC, model.NatureCC})
			require.NoError(t, err)
			res, err := Check(ctx, reg, p.Arena, p.Configuration, candidate)
			require.NoError(t, err)

			assert.Equal(t, tc.wantRequired, res.RequiredUnsupported)
			assert.Equal(t, tc.wantAll, res.AllUnsupported)
			assert.Equal(t, tc.wantUndefined, res.Undefined)
			assert.Equal(t, tc.wantCompatible, res.IsCompatible())
		})
	}
}

// Widening the supported set never turns a compatible configuration into an
// incompatible one.
func TestCheck_Monotonic(t *testing.T) {
	t.Parallel()
	reg := testutil.Registry(t, modules())
	ctx, _ := testutil.Context(t)

	small := setRestriction{supported: map[string][]string{"artifact.type": {"exe"}}}
	large := setRestriction{supported: map[string][]string{"artifact.type": {"exe", "staticLib"}, "build.type": {"debug"}}}

	assignments := []map[string]string{
		{"artifact.type": "exe"},
		{"artifact.type": "staticLib"},
		{"artifact.type": "exe", "build.type": "debug"},
		{"build.type": "release"},
		{},
	}
	for _, assigned := range assignments {
		p := testutil.NewProject(t, reg, "script.base")
		require.NoError(t, p.Arena.SetAttr(p.Configuration, model.AttrBuildProperties, model.StringMapValue(assigned)))

		underSmall, err := Check(ctx, reg, p.Arena, p.Configuration, small)
		require.NoError(t, err)
		underLarge, err := Check(ctx, reg, p.Arena, p.Configuration, large)
		require.NoError(t, err)
		if underSmall.IsCompatible() {
			assert.True(t, underLarge.IsCompatible(), "assignment %v", assigned)
		}
		for typeID := range underLarge.AllUnsupported {
			assert.Contains(t, underSmall.AllUnsupported, typeID)
		}
	}
}

func TestRequired(t *testing.T) {
	t.Parallel()
	reg := testutil.Registry(t, modules(), `
toolchain "strict.base" {
  required_properties = ["build.type"]
  tool "strict.cc" { input_extensions = ["c"] }
}`)
	p := testutil.NewProject(t, reg, "strict.base")

	required, err := Required(reg, p.Arena, p.Configuration)
	require.NoError(t, err)
	assert.Equal(t, []string{"build.type"}, required)

	plain := testutil.NewProject(t, reg, "script.base")
	required, err = Required(reg, plain.Arena, plain.Folder)
	require.NoError(t, err)
	assert.Equal(t, []string{ArtifactType}, required)
}
