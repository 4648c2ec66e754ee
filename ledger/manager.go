// Package ledger owns the pharmacy network: pharmacies and their storages,
// the product catalog, customer returns and the stock movement journal.
package ledger

import (
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/darfe-e/greenFarmacy/domain"
)

// Manager is the single entry point for the presentation layer. Callers
// address pharmacies by id and only ever receive value copies, so removing
// a pharmacy cannot leave a caller holding a dangling reference.
//
// One RWMutex guards every operation; multi-step operations such as
// resolve-pharmacy-then-mutate-storage run entirely under the write lock.
type Manager struct {
	mu         sync.RWMutex
	pharmacies map[string]*domain.Pharmacy
	catalog    *Catalog
	returns    map[string]*domain.Return
	journal    *Journal

	logger *slog.Logger
	today  func() domain.SafeDate
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for debug events on mutations.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithClock overrides the source of "today" used to date movements and
// return resolutions.
func WithClock(today func() domain.SafeDate) Option {
	return func(m *Manager) {
		if today != nil {
			m.today = today
		}
	}
}

// NewManager constructs an empty Manager
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		pharmacies: make(map[string]*domain.Pharmacy),
		catalog:    NewCatalog(),
		returns:    make(map[string]*domain.Return),
		journal:    NewJournal(),
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		today:      domain.Today,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// AddPharmacy takes a private copy of p; later changes to p are not seen.
func (m *Manager) AddPharmacy(p *domain.Pharmacy) error {
	if p == nil {
		return domain.NewInvalidArgumentError("pharmacy", "is required", nil)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.pharmacies[p.ID()]; exists {
		return domain.NewDuplicateIDError(domain.KindPharmacy, p.ID())
	}
	m.pharmacies[p.ID()] = p.Clone()
	m.logger.Debug("pharmacy added", "pharmacy_id", p.ID())
	return nil
}

// RemovePharmacy discards the pharmacy together with its storage.
func (m *Manager) RemovePharmacy(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.pharmacies[id]; !ok {
		return domain.NewNotFoundError(domain.KindPharmacy, id)
	}
	delete(m.pharmacies, id)
	m.logger.Debug("pharmacy removed", "pharmacy_id", id)
	return nil
}

// Pharmacy returns the metadata of one pharmacy.
func (m *Manager) Pharmacy(id string) (domain.PharmacyInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, err := m.pharmacy(id)
	if err != nil {
		return domain.PharmacyInfo{}, err
	}
	return p.Info(), nil
}

// Pharmacies lists every pharmacy ordered by id.
func (m *Manager) Pharmacies() []domain.PharmacyInfo {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]domain.PharmacyInfo, 0, len(m.pharmacies))
	for _, id := range m.pharmacyIDs() {
		out = append(out, m.pharmacies[id].Info())
	}
	return out
}

// Stock lists the storage contents of one pharmacy.
func (m *Manager) Stock(pharmacyID string) ([]domain.StockLine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, err := m.pharmacy(pharmacyID)
	if err != nil {
		return nil, err
	}
	return p.Stock(), nil
}

// QuantityOf returns the quantity of productID stored at pharmacyID.
func (m *Manager) QuantityOf(pharmacyID string, productID domain.ProductID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, err := m.pharmacy(pharmacyID)
	if err != nil {
		return 0, err
	}
	return p.QuantityOf(productID), nil
}

// AddProduct puts qty units of productID into the pharmacy's storage.
func (m *Manager) AddProduct(pharmacyID string, productID domain.ProductID, qty int) error {
	_, err := m.move(domain.MovementAdjustment, pharmacyID, productID, qty, false, "", "")
	return err
}

// RemoveProduct takes qty units out of the pharmacy's storage. An
// InsufficientQuantityError from the storage is returned unchanged.
func (m *Manager) RemoveProduct(pharmacyID string, productID domain.ProductID, qty int) error {
	_, err := m.move(domain.MovementAdjustment, pharmacyID, productID, qty, true, "", "")
	return err
}

// Supply receives qty units from source into the pharmacy's storage.
func (m *Manager) Supply(pharmacyID string, productID domain.ProductID, qty int, source string) (domain.Movement, error) {
	if strings.TrimSpace(source) == "" {
		return domain.Movement{}, domain.NewInvalidArgumentError("source", "cannot be empty", source)
	}
	return m.move(domain.MovementSupply, pharmacyID, productID, qty, false, source, "")
}

// WriteOff removes qty units from the pharmacy's storage for the given reason.
func (m *Manager) WriteOff(pharmacyID string, productID domain.ProductID, qty int, reason string) (domain.Movement, error) {
	if strings.TrimSpace(reason) == "" {
		return domain.Movement{}, domain.NewInvalidArgumentError("reason", "cannot be empty", reason)
	}
	return m.move(domain.MovementWriteOff, pharmacyID, productID, qty, true, "", reason)
}

// TotalQuantity sums the quantity of productID across all pharmacies.
func (m *Manager) TotalQuantity(productID domain.ProductID) int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	total := 0
	for _, p := range m.pharmacies {
		total += p.QuantityOf(productID)
	}
	return total
}

// Availability maps pharmacy id to the positive quantity of productID held there.
func (m *Manager) Availability(productID domain.ProductID) map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string]int)
	for id, p := range m.pharmacies {
		if q := p.QuantityOf(productID); q > 0 {
			out[id] = q
		}
	}
	return out
}

// FindProduct lists the pharmacies stocking a product matched by id or exact name.
func (m *Manager) FindProduct(nameOrID string) ([]domain.PharmacyInfo, error) {
	if strings.TrimSpace(nameOrID) == "" {
		return nil, domain.NewInvalidArgumentError("product", "name or id cannot be empty", nameOrID)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make(map[domain.ProductID]struct{})
	for _, p := range m.catalog.products {
		if string(p.ID) == nameOrID || p.Name == nameOrID {
			ids[p.ID] = struct{}{}
		}
	}

	out := make([]domain.PharmacyInfo, 0)
	for _, pid := range m.pharmacyIDs() {
		ph := m.pharmacies[pid]
		for id := range ids {
			if ph.QuantityOf(id) > 0 {
				out = append(out, ph.Info())
				break
			}
		}
	}
	return out, nil
}

// Movements returns journal entries matching f, oldest first.
func (m *Manager) Movements(f MovementFilter) []domain.Movement {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.journal.List(f)
}

// Clear drops every pharmacy, product, return and movement.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pharmacies = make(map[string]*domain.Pharmacy)
	m.catalog = NewCatalog()
	m.returns = make(map[string]*domain.Return)
	m.journal = NewJournal()
}

// move adds or removes qty units and journals the change. The caller-visible
// failure modes are exactly those of Storage plus NotFound for the pharmacy
// or an unregistered product.
func (m *Manager) move(kind domain.MovementKind, pharmacyID string, productID domain.ProductID, qty int, remove bool, reference, note string) (domain.Movement, error) {
	if qty <= 0 {
		return domain.Movement{}, domain.NewInvalidArgumentError("quantity", "must be positive", qty)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.pharmacy(pharmacyID)
	if err != nil {
		return domain.Movement{}, err
	}
	if !m.catalog.Contains(productID) {
		return domain.Movement{}, domain.NewNotFoundError(domain.KindProduct, string(productID))
	}

	before := p.QuantityOf(productID)
	change := qty
	if remove {
		change = -qty
		err = p.RemoveFromStorage(productID, qty)
	} else {
		err = p.AddToStorage(productID, qty)
	}
	if err != nil {
		return domain.Movement{}, err
	}

	mv := m.journal.Record(domain.Movement{
		Kind:       kind,
		Date:       m.today(),
		PharmacyID: pharmacyID,
		ProductID:  productID,
		Change:     change,
		Before:     before,
		After:      p.QuantityOf(productID),
		Reference:  reference,
		Note:       note,
	})
	m.logger.Debug("stock moved",
		"kind", kind,
		"pharmacy_id", pharmacyID,
		"product_id", productID,
		"change", change,
		"after", mv.After,
	)
	return mv, nil
}

func (m *Manager) pharmacy(id string) (*domain.Pharmacy, error) {
	p, ok := m.pharmacies[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.KindPharmacy, id)
	}
	return p, nil
}

func (m *Manager) pharmacyIDs() []string {
	ids := make([]string, 0, len(m.pharmacies))
	for id := range m.pharmacies {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
