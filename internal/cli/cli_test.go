package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/specialistvlad/mbuildgo/internal/app"
	"github.com/specialistvlad/mbuildgo/internal/hcl_adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mbuild runs the command line against the shipped templates and the
// projects in dir.
func mbuild(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	out := &bytes.Buffer{}
	args = append([]string{"--templates", app.ShippedTemplates(), "--projects", dir, "--log-level", "error"}, args...)
	err := Execute(context.Background(), out, args, hcl_adapter.NewLoader())
	return out.String(), err
}

// toolID finds the id of the tool instantiated from realID in describe
// output.
func toolID(t *testing.T, describe, realID string) string {
	t.Helper()
	for _, line := range strings.Split(describe, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 3 && fields[0] == "tool" && fields[2] == "["+realID+"]" {
			return fields[1]
		}
	}
	require.Failf(t, "tool not described", "%s in:\n%s", realID, describe)
	return ""
}

func TestCLI_Workflow(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	out, err := mbuild(t, dir, "init", "demo", "--toolchain", "gnu.base", "--name", "Debug")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration debug created in demo")
	assert.FileExists(t, filepath.Join(dir, "demo.mbuild.hcl"))

	out, err = mbuild(t, dir, "projects")
	require.NoError(t, err)
	assert.Equal(t, "demo\n", out)

	out, err = mbuild(t, dir, "describe", "demo")
	require.NoError(t, err)
	gcc := toolID(t, out, "gnu.c.compiler")

	_, err = mbuild(t, dir, "set-option", "--", "demo", gcc, "gnu.c.compiler.option.optimization", "-Og")
	require.NoError(t, err)

	out, err = mbuild(t, dir, "status", "demo", "debug", "--add", "llvm.clang")
	require.NoError(t, err)
	assert.Contains(t, out, "conflict: ")

	out, err = mbuild(t, dir, "check", "demo", "debug", "llvm.base")
	require.NoError(t, err)
	assert.Equal(t, "compatible\n", out)

	out, err = mbuild(t, dir, "swap", "demo", "debug", "llvm.base")
	require.NoError(t, err)
	assert.Contains(t, out, "tool-chain is now")

	out, err = mbuild(t, dir, "describe", "demo")
	require.NoError(t, err)
	assert.Contains(t, out, `llvm.clang.option.optimization = "-O1"`)

	out, err = mbuild(t, dir, "duplicate", "demo", "debug", "release", "--name", "Release")
	require.NoError(t, err)
	assert.Contains(t, out, "configuration release created in demo")
}

func TestCLI_Templates(t *testing.T) {
	t.Parallel()
	out, err := mbuild(t, t.TempDir(), "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "toolchain gnu.base\tGNU")
	assert.Contains(t, out, "toolchain llvm.base\tLLVM")
	assert.Contains(t, out, "tool llvm.clang")
}

func TestCLI_Errors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		args     []string
		wantCode int
	}{
		{name: "unknown flag", args: []string{"projects", "--nope"}, wantCode: 2},
		{name: "invalid log level", args: []string{"--log-level", "loud", "projects"}, wantCode: 2},
		{name: "modify without tools", args: []string{"modify", "demo", "debug"}, wantCode: 2},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := mbuild(t, t.TempDir(), tc.args...)
			require.Error(t, err)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, tc.wantCode, exitErr.Code)
		})
	}

	t.Run("missing project", func(t *testing.T) {
		t.Parallel()
		_, err := mbuild(t, t.TempDir(), "describe", "ghost")
		require.ErrorContains(t, err, "ghost")
	})

	t.Run("wrong argument count", func(t *testing.T) {
		t.Parallel()
		_, err := mbuild(t, t.TempDir(), "describe")
		require.Error(t, err)
	})
}

func TestCLI_ConfigFile(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	projects := filepath.Join(dir, "store")
	path := filepath.Join(dir, "mbuild.yaml")
	yaml := "template_paths: [" + app.ShippedTemplates() + "]\nprojects_dir: " + projects + "\nlog_level: error\n"
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))

	out := &bytes.Buffer{}
	err := Execute(context.Background(), out, []string{"--config", path, "init", "demo", "--toolchain", "llvm.base"}, hcl_adapter.NewLoader())
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(projects, "demo.mbuild.hcl"))

	out.Reset()
	err = Execute(context.Background(), out, []string{"--config", path, "--projects", dir, "projects"}, hcl_adapter.NewLoader())
	require.NoError(t, err)
	assert.Empty(t, out.String(), "flags override the file")
}
