package ledger

import (
	"sort"

	"github.com/darfe-e/greenFarmacy/domain"
)

// SubmitReturn registers a pending return after checking that its pharmacy
// and product exist.
func (m *Manager) SubmitReturn(r *domain.Return) error {
	if r == nil {
		return domain.NewInvalidArgumentError("return", "is required", nil)
	}
	if !r.IsPending() {
		return domain.NewInvalidArgumentError("status", "a submitted return must be pending", r.Status())
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.returns[r.ID()]; exists {
		return domain.NewDuplicateIDError(domain.KindReturn, r.ID())
	}
	if _, err := m.pharmacy(r.PharmacyID()); err != nil {
		return err
	}
	if !m.catalog.Contains(r.ProductID()) {
		return domain.NewNotFoundError(domain.KindProduct, string(r.ProductID()))
	}
	m.returns[r.ID()] = r.Clone()
	m.logger.Debug("return submitted",
		"return_id", r.ID(),
		"pharmacy_id", r.PharmacyID(),
		"product_id", r.ProductID(),
		"quantity", r.Quantity(),
	)
	return nil
}

// ApproveReturn credits the returned units to the owning pharmacy and
// finalizes the return. Crediting and the status change happen together or
// not at all.
func (m *Manager) ApproveReturn(id string) (*domain.Return, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.ret(id)
	if err != nil {
		return nil, err
	}
	if !r.IsPending() {
		return nil, domain.NewInvalidTransitionError(r.ID(), r.Status(), domain.ReturnApproved)
	}
	p, err := m.pharmacy(r.PharmacyID())
	if err != nil {
		return nil, err
	}

	today := m.today()
	before := p.QuantityOf(r.ProductID())
	if err := r.Approve(p.Storage(), today); err != nil {
		return nil, err
	}
	m.journal.Record(domain.Movement{
		Kind:       domain.MovementReturn,
		Date:       today,
		PharmacyID: r.PharmacyID(),
		ProductID:  r.ProductID(),
		Change:     r.Quantity(),
		Before:     before,
		After:      p.QuantityOf(r.ProductID()),
		Reference:  r.ID(),
		Note:       r.Reason(),
	})
	m.logger.Debug("return approved", "return_id", id, "quantity", r.Quantity())
	return r.Clone(), nil
}

// RejectReturn finalizes the return without touching any storage.
func (m *Manager) RejectReturn(id, reason string) (*domain.Return, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, err := m.ret(id)
	if err != nil {
		return nil, err
	}
	if err := r.Reject(reason, m.today()); err != nil {
		return nil, err
	}
	m.logger.Debug("return rejected", "return_id", id)
	return r.Clone(), nil
}

// Return returns a copy of one return.
func (m *Manager) Return(id string) (*domain.Return, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	r, err := m.ret(id)
	if err != nil {
		return nil, err
	}
	return r.Clone(), nil
}

// Returns lists returns with the given status, or all of them when status
// is empty, ordered by date then id.
func (m *Manager) Returns(status domain.ReturnStatus) []*domain.Return {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*domain.Return, 0, len(m.returns))
	for _, r := range m.returns {
		if status == "" || r.Status() == status {
			out = append(out, r.Clone())
		}
	}
	sortReturns(out)
	return out
}

func sortReturns(rs []*domain.Return) {
	sort.Slice(rs, func(i, j int) bool {
		if !rs[i].Date().Equal(rs[j].Date()) {
			return rs[i].Date().Before(rs[j].Date())
		}
		return rs[i].ID() < rs[j].ID()
	})
}

func (m *Manager) ret(id string) (*domain.Return, error) {
	r, ok := m.returns[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.KindReturn, id)
	}
	return r, nil
}
