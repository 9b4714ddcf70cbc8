package artifact

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when a store has no artifact under a name.
var ErrNotFound = errors.New("artifact: not found")

// Store reads persisted artifacts by name.
type Store interface {
	Read(ctx context.Context, name string) ([]byte, error)
	// Describe names the store for logs and summaries.
	Describe() string
}

// FSStore reads artifacts from an fs.FS.
type FSStore struct {
	fsys fs.FS
	desc string
}

// NewFSStore creates a Store over fsys.
func NewFSStore(fsys fs.FS, desc string) *FSStore {
	return &FSStore{fsys: fsys, desc: desc}
}

func (s *FSStore) Read(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s in %s", ErrNotFound, name, s.desc)
	}
	if err != nil {
		return nil, fmt.Errorf("artifact: read %s: %w", name, err)
	}
	return data, nil
}

func (s *FSStore) Describe() string { return s.desc }

// DirStore is an FSStore rooted at an absolute directory, so artifacts
// resolve the same way regardless of the process working directory.
type DirStore struct {
	*FSStore
	dir string
}

// NewDirStore resolves dir to an absolute path and checks it exists.
func NewDirStore(dir string) (*DirStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("artifact: resolve %s: %w", dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("artifact: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("artifact: %s is not a directory", abs)
	}
	return &DirStore{
		FSStore: NewFSStore(os.DirFS(abs), abs),
		dir:     abs,
	}, nil
}

// Dir returns the absolute artifact directory.
func (s *DirStore) Dir() string { return s.dir }
