// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package app

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/specialistvlad/mbuildgo/internal/hcl_adapter"
	"github.com/specialistvlad/mbuildgo/internal/objid"
	"github.com/specialistvlad/mbuildgo/internal/testutil"
)

// ShippedTemplates returns the path of the template modules in this
// repository.
func ShippedTemplates() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "..", "..", "modules")
}

// SetupAppTest creates a new app instance for system testing, storing
// projects in a temp dir and generating sequential ids.
func SetupAppTest(t *testing.T, cfg *Config, opts ...Option) (*App, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	if len(cfg.TemplatePaths) == 0 {
		cfg.TemplatePaths = []string{ShippedTemplates()}
	}
	if cfg.ProjectsDir == "" {
		cfg.ProjectsDir = t.TempDir()
	}
	opts = append([]Option{WithGenerator(objid.NewSequenceGenerator())}, opts...)
	testApp, err := NewApp(logBuffer, cfg, hcl_adapter.NewLoader(), opts...)
	if err != nil {
		t.Fatalf("failed to set up app: %v", err)
	}

	t.Cleanup(func() {
		if os.Getenv("MBUILD_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})

	return testApp, logBuffer
}
