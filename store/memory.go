// Package store provides snapshot persistence for the pharmacy ledger.
package store

import (
	"context"
	"sync"

	"github.com/darfe-e/greenFarmacy/domain"
)

// InMemoryStore keeps the last saved snapshot in process memory. It is what
// the interactive shell uses when no file is configured.
type InMemoryStore struct {
	mu   sync.RWMutex
	snap domain.Snapshot
}

// NewInMemoryStore constructs a new InMemoryStore
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// compile-time assertion that InMemoryStore implements domain.SnapshotStore
var _ domain.SnapshotStore = (*InMemoryStore)(nil)

func (s *InMemoryStore) Load(ctx context.Context) (domain.Snapshot, error) {
	select {
	case <-ctx.Done():
		return domain.Snapshot{}, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneSnapshot(s.snap), nil
}

func (s *InMemoryStore) Save(ctx context.Context, snap domain.Snapshot) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.snap = cloneSnapshot(snap)
	return nil
}

// cloneSnapshot copies every slice so the caller and the store never share
// backing arrays.
func cloneSnapshot(in domain.Snapshot) domain.Snapshot {
	out := domain.Snapshot{
		Products:   make([]domain.ProductRecord, len(in.Products)),
		Pharmacies: make([]domain.PharmacyRecord, len(in.Pharmacies)),
		Returns:    append([]domain.ReturnRecord(nil), in.Returns...),
		Movements:  append([]domain.Movement(nil), in.Movements...),
	}
	for i, p := range in.Products {
		p.Analogues = append([]domain.ProductID(nil), p.Analogues...)
		out.Products[i] = p
	}
	for i, p := range in.Pharmacies {
		p.Stock = append([]domain.StockLine(nil), p.Stock...)
		out.Pharmacies[i] = p
	}
	return out
}
