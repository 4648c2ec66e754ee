package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/darfe-e/greenFarmacy/domain"
	"gopkg.in/yaml.v3"
)

// FileStore is a file-backed implementation of domain.SnapshotStore. Paths
// ending in .yaml or .yml are written as YAML, everything else as JSON.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// compile-time assertion
var _ domain.SnapshotStore = (*FileStore)(nil)

// NewFileStore constructs a FileStore at the given path. If the file exists
// it must decode; a missing file is an empty ledger.
func NewFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path}
	if _, err := s.read(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileStore) Path() string { return s.path }

func (s *FileStore) isYAML() bool {
	ext := strings.ToLower(filepath.Ext(s.path))
	return ext == ".yaml" || ext == ".yml"
}

func (s *FileStore) read() (domain.Snapshot, error) {
	var snap domain.Snapshot

	b, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			// no file yet; that's fine
			return snap, nil
		}
		return snap, err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return snap, nil
	}
	if s.isYAML() {
		err = yaml.Unmarshal(b, &snap)
	} else {
		err = json.Unmarshal(b, &snap)
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return snap, nil
}

func (s *FileStore) write(snap domain.Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	var (
		b   []byte
		err error
	)
	if s.isYAML() {
		b, err = yaml.Marshal(snap)
	} else {
		b, err = json.MarshalIndent(snap, "", "  ")
	}
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *FileStore) Load(ctx context.Context) (domain.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return domain.Snapshot{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.read()
}

func (s *FileStore) Save(ctx context.Context, snap domain.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(snap)
}
