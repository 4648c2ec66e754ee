package ledger

import (
	"fmt"

	"github.com/darfe-e/greenFarmacy/domain"
)

// Snapshot captures the full state for a SnapshotStore.
func (m *Manager) Snapshot() domain.Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := domain.Snapshot{
		Products:   make([]domain.ProductRecord, 0, m.catalog.Len()),
		Pharmacies: make([]domain.PharmacyRecord, 0, len(m.pharmacies)),
		Returns:    make([]domain.ReturnRecord, 0, len(m.returns)),
		Movements:  m.journal.List(MovementFilter{}),
	}
	for _, p := range m.catalog.List() {
		snap.Products = append(snap.Products, p.Record())
	}
	for _, id := range m.pharmacyIDs() {
		snap.Pharmacies = append(snap.Pharmacies, m.pharmacies[id].Record())
	}
	for _, r := range m.sortedReturns() {
		snap.Returns = append(snap.Returns, r.Record())
	}
	return snap
}

// Restore replaces the whole state with snap. Nothing changes if any record
// is invalid.
func (m *Manager) Restore(snap domain.Snapshot) error {
	catalog := NewCatalog()
	analogues := make(map[domain.ProductID][]domain.ProductID)
	for _, rec := range snap.Products {
		links := rec.Analogues
		rec.Analogues = nil
		p, err := domain.ProductFromRecord(rec)
		if err != nil {
			return fmt.Errorf("product %s: %w", rec.ID, err)
		}
		if err := catalog.Add(p); err != nil {
			return fmt.Errorf("product %s: %w", rec.ID, err)
		}
		analogues[p.ID] = links
	}
	for id, links := range analogues {
		for _, a := range links {
			if err := catalog.AddAnalogue(id, a); err != nil {
				return fmt.Errorf("product %s: %w", id, err)
			}
		}
	}

	pharmacies := make(map[string]*domain.Pharmacy, len(snap.Pharmacies))
	for _, rec := range snap.Pharmacies {
		if _, exists := pharmacies[rec.ID]; exists {
			return domain.NewDuplicateIDError(domain.KindPharmacy, rec.ID)
		}
		for _, line := range rec.Stock {
			if !catalog.Contains(line.ProductID) {
				return fmt.Errorf("pharmacy %s: %w", rec.ID,
					domain.NewNotFoundError(domain.KindProduct, string(line.ProductID)))
			}
		}
		p, err := domain.PharmacyFromRecord(rec)
		if err != nil {
			return fmt.Errorf("pharmacy %s: %w", rec.ID, err)
		}
		pharmacies[p.ID()] = p
	}

	returns := make(map[string]*domain.Return, len(snap.Returns))
	for _, rec := range snap.Returns {
		if _, exists := returns[rec.ID]; exists {
			return domain.NewDuplicateIDError(domain.KindReturn, rec.ID)
		}
		r, err := domain.ReturnFromRecord(rec)
		if err != nil {
			return fmt.Errorf("return %s: %w", rec.ID, err)
		}
		if r.IsPending() && !catalog.Contains(r.ProductID()) {
			return fmt.Errorf("return %s: %w", rec.ID,
				domain.NewNotFoundError(domain.KindProduct, string(r.ProductID())))
		}
		returns[r.ID()] = r
	}

	journal := NewJournal()
	for _, mv := range snap.Movements {
		journal.Record(mv)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.catalog = catalog
	m.pharmacies = pharmacies
	m.returns = returns
	m.journal = journal
	m.logger.Debug("ledger restored",
		"products", catalog.Len(),
		"pharmacies", len(pharmacies),
		"returns", len(returns),
		"movements", journal.Len(),
	)
	return nil
}

func (m *Manager) sortedReturns() []*domain.Return {
	out := make([]*domain.Return, 0, len(m.returns))
	for _, r := range m.returns {
		out = append(out, r)
	}
	sortReturns(out)
	return out
}
