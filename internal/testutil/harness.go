// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package testutil

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/hcl_adapter"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/objid"
	"github.com/specialistvlad/mbuildgo/internal/registry"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// Context returns a context carrying a debug logger that writes into the
// returned buffer. The log is echoed to the test output when
// MBUILD_TEST_LOGS=true.
func Context(t *testing.T) (context.Context, *SafeBuffer) {
	t.Helper()
	buf := &SafeBuffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	t.Cleanup(func() {
		if os.Getenv("MBUILD_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
	return ctxlog.WithLogger(context.Background(), logger), buf
}

// Registry builds a registry from TemplatesHCL plus extra HCL sources, with
// the given handler modules registered.
func Registry(t *testing.T, modules []registry.Module, extra ...string) *registry.Registry {
	t.Helper()
	ctx, _ := Context(t)
	src := TemplatesHCL
	for _, e := range extra {
		src += "\n" + e
	}
	m, err := hcl_adapter.NewLoader().LoadBytes(ctx, "templates.hcl", []byte(src))
	require.NoError(t, err)
	reg, err := registry.NewBuilder(m, modules...).Build(ctx)
	require.NoError(t, err)
	return reg
}

// Project is a single-configuration project tree used by engine tests.
type Project struct {
	Arena         *model.Arena
	Configuration string
	Folder        string
	ToolChain     string
	Gen           *objid.SequenceGenerator
}

// NewProject creates a configuration with a root folder owning an instance
// of toolChainTemplate. Natures default to a C++ project.
func NewProject(t *testing.T, reg *registry.Registry, toolChainTemplate string, natures ...string) *Project {
	t.Helper()
	a := model.NewArena(reg.Arena())
	gen := objid.NewSequenceGenerator()
	cfg := &model.Object{ID: "cfg", Kind: model.KindConfiguration, Name: "Debug"}
	require.NoError(t, a.Add(cfg))
	if len(natures) > 0 {
		require.NoError(t, a.SetAttr(cfg.ID, model.AttrNatures, model.ListValue(natures)))
	}
	folder := &model.Object{ID: "cfg.root", Kind: model.KindFolderInfo, Parent: cfg.ID}
	require.NoError(t, a.Add(folder))
	require.NoError(t, a.SetAttr(folder.ID, model.AttrPath, model.StringValue("/")))

	p := &Project{Arena: a, Configuration: cfg.ID, Folder: folder.ID, Gen: gen}
	if toolChainTemplate != "" {
		tc, err := model.Instantiate(a, toolChainTemplate, folder.ID, gen)
		require.NoError(t, err)
		p.ToolChain = tc.ID
	}
	a.SetDirty(cfg.ID, false)
	a.SetRebuild(cfg.ID, false)
	return p
}

// ToolByReal returns the resolved tool of holder whose real identity is
// realID.
func ToolByReal(t *testing.T, a *model.Arena, holderID, realID string) *model.Tool {
	t.Helper()
	for _, obj := range a.Children(holderID, model.KindTool) {
		if a.RealID(obj.ID) == realID {
			return a.ToolOf(obj)
		}
	}
	require.Failf(t, "tool not found", "no tool with real id %q under %q", realID, holderID)
	return nil
}

// SetOption sets the value of the option of tool whose real identity is
// realOptionID, creating a project override when needed.
func SetOption(t *testing.T, a *model.Arena, gen objid.Generator, toolID, realOptionID string, value cty.Value) {
	t.Helper()
	for _, opt := range a.Children(toolID, model.KindOption) {
		if a.RealID(opt.ID) != realOptionID {
			continue
		}
		id := opt.ID
		if local, ok := a.Local(opt.ID); !ok || local.Extension || local.Parent != toolID {
			override := &model.Object{ID: gen.Next(realOptionID), Kind: model.KindOption, SuperClass: opt.ID, Parent: toolID}
			require.NoError(t, a.Add(override))
			id = override.ID
		}
		require.NoError(t, a.SetAttr(id, model.AttrValue, value))
		return
	}
	require.Failf(t, "option not found", "no option %q on tool %q", realOptionID, toolID)
}

// WriteFiles writes files (relative path to content) below a fresh temp dir
// and returns the dir.
func WriteFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		p := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}
