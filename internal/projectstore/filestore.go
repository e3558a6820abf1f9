// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev

package projectstore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/specialistvlad/mbuildgo/internal/ctxlog"
	"github.com/specialistvlad/mbuildgo/internal/fsutil"
	"github.com/specialistvlad/mbuildgo/internal/model"
	"github.com/specialistvlad/mbuildgo/internal/registry"
)

// Extension is the file suffix of stored projects.
const Extension = ".mbuild.hcl"

// FileStore keeps each project in dir as <name>.mbuild.hcl.
type FileStore struct {
	dir string
	reg *registry.Registry
}

var _ Store = (*FileStore)(nil)

// NewFileStore returns a store rooted at dir. The directory is created on
// the first save.
func NewFileStore(dir string, reg *registry.Registry) *FileStore {
	return &FileStore{dir: dir, reg: reg}
}

func (s *FileStore) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid project name %q", name)
	}
	return filepath.Join(s.dir, name+Extension), nil
}

// Load implements Store.
func (s *FileStore) Load(ctx context.Context, name string) (*model.Arena, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load %q: %w", name, ErrProjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load %q: %w", name, err)
	}
	return Deserialize(ctx, s.reg, path, data)
}

// Save implements Store.
func (s *FileStore) Save(ctx context.Context, name string, a *model.Arena) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	data, err := Serialize(a)
	if err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("save %q: %w", name, err)
	}
	ctxlog.FromContext(ctx).Info("Saved project.", "project", name, "path", path, "bytes", len(data))
	return nil
}

// List implements Store. A missing directory holds no projects.
func (s *FileStore) List(ctx context.Context) ([]string, error) {
	files, err := fsutil.FindFilesByExtension(s.dir, Extension)
	if errors.Is(err, fs.ErrNotExist) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list projects in %s: %w", s.dir, err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		if filepath.Dir(f) != filepath.Clean(s.dir) {
			continue
		}
		names = append(names, strings.TrimSuffix(filepath.Base(f), Extension))
	}
	slices.Sort(names)
	ctxlog.FromContext(ctx).Debug("Listed projects.", "dir", s.dir, "count", len(names))
	return names, nil
}
