package ledger

import (
	"fmt"
	"strings"

	"github.com/darfe-e/greenFarmacy/domain"
)

// RegisterProduct adds a catalog entry. Products past their expiration
// date are refused.
func (m *Manager) RegisterProduct(p *domain.MedicalProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkExpiry(p); err != nil {
		return err
	}
	if err := m.catalog.Add(p); err != nil {
		return err
	}
	m.logger.Debug("product registered", "product_id", p.ID)
	return nil
}

// RegisterProducts adds a batch of catalog entries. Analogues may refer to
// existing entries or to any entry of the batch. Either every product is
// registered or, on the first failure, none is.
func (m *Manager) RegisterProducts(products []*domain.MedicalProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.catalog.clone()
	links := make([][]domain.ProductID, len(products))
	for i, p := range products {
		if p == nil {
			return domain.NewInvalidArgumentError("product", "is required", nil)
		}
		if err := m.checkExpiry(p); err != nil {
			return fmt.Errorf("product %s: %w", p.ID, err)
		}
		cp := p.Clone()
		links[i] = cp.Analogues()
		for _, a := range links[i] {
			_ = cp.RemoveAnalogue(a)
		}
		if err := next.Add(cp); err != nil {
			return fmt.Errorf("product %s: %w", p.ID, err)
		}
	}
	for i, p := range products {
		for _, a := range links[i] {
			if err := next.AddAnalogue(p.ID, a); err != nil {
				return fmt.Errorf("product %s: %w", p.ID, err)
			}
		}
	}

	m.catalog = next
	m.logger.Debug("products registered", "count", len(products))
	return nil
}

// UpdateProduct replaces the descriptive fields of a catalog entry. The new
// expiration date must not lie in the past.
func (m *Manager) UpdateProduct(p *domain.MedicalProduct) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.checkExpiry(p); err != nil {
		return err
	}
	return m.catalog.Update(p)
}

// UnregisterProduct removes a catalog entry. It is refused while any
// pharmacy still holds the product or a pending return refers to it.
func (m *Manager) UnregisterProduct(id domain.ProductID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.catalog.Contains(id) {
		return domain.NewNotFoundError(domain.KindProduct, string(id))
	}
	for _, pid := range m.pharmacyIDs() {
		if q := m.pharmacies[pid].QuantityOf(id); q > 0 {
			return domain.NewInUseError(id, fmt.Sprintf("%d units stocked at pharmacy %s", q, pid))
		}
	}
	for _, r := range m.returns {
		if r.IsPending() && r.ProductID() == id {
			return domain.NewInUseError(id, "referenced by pending return "+r.ID())
		}
	}
	if err := m.catalog.Remove(id); err != nil {
		return err
	}
	m.logger.Debug("product unregistered", "product_id", id)
	return nil
}

// Product returns a copy of one catalog entry.
func (m *Manager) Product(id domain.ProductID) (*domain.MedicalProduct, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.catalog.Get(id)
}

// Products lists the whole catalog ordered by id.
func (m *Manager) Products() []*domain.MedicalProduct {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.catalog.List()
}

// SearchProducts matches term against id, name, manufacturer country and
// active substance.
func (m *Manager) SearchProducts(term string) ([]*domain.MedicalProduct, error) {
	if strings.TrimSpace(term) == "" {
		return nil, domain.NewInvalidArgumentError("term", "cannot be empty", term)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.catalog.Search(term), nil
}

// AddAnalogue marks analogueID as an analogue of id.
func (m *Manager) AddAnalogue(id, analogueID domain.ProductID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.catalog.AddAnalogue(id, analogueID)
}

// RemoveAnalogue drops analogueID from the analogues of id.
func (m *Manager) RemoveAnalogue(id, analogueID domain.ProductID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.catalog.RemoveAnalogue(id, analogueID)
}

// Analogues returns the catalog entries recorded as analogues of id.
func (m *Manager) Analogues(id domain.ProductID) ([]*domain.MedicalProduct, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.catalog.Analogues(id)
}

// AvailableAnalogues returns the analogues of id that pharmacyID has in stock.
func (m *Manager) AvailableAnalogues(pharmacyID string, id domain.ProductID) ([]*domain.MedicalProduct, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, err := m.pharmacy(pharmacyID)
	if err != nil {
		return nil, err
	}
	all, err := m.catalog.Analogues(id)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.MedicalProduct, 0, len(all))
	for _, a := range all {
		if p.QuantityOf(a.ID) > 0 {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *Manager) checkExpiry(p *domain.MedicalProduct) error {
	if p == nil || p.ExpirationDate.IsZero() {
		return nil
	}
	if p.ExpirationDate.Before(m.today()) {
		return domain.NewInvalidArgumentError("expiration_date", "product has already expired", p.ExpirationDate.String())
	}
	return nil
}
