package ledger

import (
	"sort"

	"github.com/darfe-e/greenFarmacy/domain"
)

// Catalog is the registry that owns every MedicalProduct. Storages and
// returns refer to entries by id only.
type Catalog struct {
	products map[domain.ProductID]*domain.MedicalProduct
}

// NewCatalog constructs an empty Catalog
func NewCatalog() *Catalog {
	return &Catalog{
		products: make(map[domain.ProductID]*domain.MedicalProduct),
	}
}

// Add registers a copy of p.
func (c *Catalog) Add(p *domain.MedicalProduct) error {
	if p == nil {
		return domain.NewInvalidArgumentError("product", "is required", nil)
	}
	if err := domain.ValidateProduct(*p); err != nil {
		return err
	}
	if _, exists := c.products[p.ID]; exists {
		return domain.NewDuplicateIDError(domain.KindProduct, string(p.ID))
	}
	for _, a := range p.Analogues() {
		if _, ok := c.products[a]; !ok {
			return domain.NewNotFoundError(domain.KindAnalogue, string(a))
		}
	}
	cp := p.Clone()
	if cp.Form == "" {
		cp.Form = domain.FormOther
	}
	c.products[p.ID] = cp
	return nil
}

// Update replaces the descriptive fields of an existing entry. The analogue
// set is managed separately and is kept as it was.
func (c *Catalog) Update(p *domain.MedicalProduct) error {
	if p == nil {
		return domain.NewInvalidArgumentError("product", "is required", nil)
	}
	if err := domain.ValidateProduct(*p); err != nil {
		return err
	}
	existing, ok := c.products[p.ID]
	if !ok {
		return domain.NewNotFoundError(domain.KindProduct, string(p.ID))
	}
	existing.Name = p.Name
	existing.Form = p.Form
	if existing.Form == "" {
		existing.Form = domain.FormOther
	}
	existing.Price = p.Price
	existing.ExpirationDate = p.ExpirationDate
	existing.ManufacturerCountry = p.ManufacturerCountry
	existing.ActiveSubstance = p.ActiveSubstance
	return nil
}

// Remove deletes the entry and strips it from every other analogue set.
func (c *Catalog) Remove(id domain.ProductID) error {
	if _, ok := c.products[id]; !ok {
		return domain.NewNotFoundError(domain.KindProduct, string(id))
	}
	delete(c.products, id)
	for _, p := range c.products {
		if p.HasAnalogue(id) {
			_ = p.RemoveAnalogue(id)
		}
	}
	return nil
}

func (c *Catalog) get(id domain.ProductID) (*domain.MedicalProduct, error) {
	p, ok := c.products[id]
	if !ok {
		return nil, domain.NewNotFoundError(domain.KindProduct, string(id))
	}
	return p, nil
}

// Contains reports whether id is registered.
func (c *Catalog) Contains(id domain.ProductID) bool {
	_, ok := c.products[id]
	return ok
}

// Get returns a copy of the entry.
func (c *Catalog) Get(id domain.ProductID) (*domain.MedicalProduct, error) {
	p, err := c.get(id)
	if err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// List returns copies of all entries ordered by id.
func (c *Catalog) List() []*domain.MedicalProduct {
	return c.filter(func(*domain.MedicalProduct) bool { return true })
}

// Search returns entries whose id, name, country or substance contains term.
func (c *Catalog) Search(term string) []*domain.MedicalProduct {
	return c.filter(func(p *domain.MedicalProduct) bool { return p.Matches(term) })
}

// AddAnalogue links analogueID to id. Both must be registered.
func (c *Catalog) AddAnalogue(id, analogueID domain.ProductID) error {
	p, err := c.get(id)
	if err != nil {
		return err
	}
	if !c.Contains(analogueID) {
		return domain.NewNotFoundError(domain.KindProduct, string(analogueID))
	}
	return p.AddAnalogue(analogueID)
}

// RemoveAnalogue unlinks analogueID from id.
func (c *Catalog) RemoveAnalogue(id, analogueID domain.ProductID) error {
	p, err := c.get(id)
	if err != nil {
		return err
	}
	return p.RemoveAnalogue(analogueID)
}

// Analogues resolves the analogue set of id to catalog entries.
func (c *Catalog) Analogues(id domain.ProductID) ([]*domain.MedicalProduct, error) {
	p, err := c.get(id)
	if err != nil {
		return nil, err
	}
	ids := p.Analogues()
	out := make([]*domain.MedicalProduct, 0, len(ids))
	for _, a := range ids {
		if entry, ok := c.products[a]; ok {
			out = append(out, entry.Clone())
		}
	}
	return out, nil
}

func (c *Catalog) Len() int { return len(c.products) }

// clone deep-copies every entry, analogue sets included.
func (c *Catalog) clone() *Catalog {
	cp := NewCatalog()
	for id, p := range c.products {
		cp.products[id] = p.Clone()
	}
	return cp
}

func (c *Catalog) filter(keep func(*domain.MedicalProduct) bool) []*domain.MedicalProduct {
	out := make([]*domain.MedicalProduct, 0, len(c.products))
	for _, p := range c.products {
		if keep(p) {
			out = append(out, p.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
