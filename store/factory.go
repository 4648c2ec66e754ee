package store

import (
	"fmt"

	"github.com/darfe-e/greenFarmacy/domain"
)

// NewStore picks where ledger snapshots live between runs. "memory" (or
// "mem") keeps them for the life of the process only; "file" writes them to
// path as JSON, or YAML for a .yaml/.yml path.
func NewStore(kind, path string) (domain.SnapshotStore, error) {
	switch kind {
	case "memory", "mem":
		return NewInMemoryStore(), nil
	case "file":
		if path == "" {
			return nil, fmt.Errorf("file path required for file store")
		}
		return NewFileStore(path)
	default:
		return nil, fmt.Errorf("unknown store kind: %s", kind)
	}
}
