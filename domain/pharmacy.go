package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PharmacyInfo is the descriptive part of a pharmacy, safe to hand out by value.
type PharmacyInfo struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Address  string          `json:"address" yaml:"address"`
	Phone    string          `json:"phone" yaml:"phone"`
	RentCost decimal.Decimal `json:"rent_cost" yaml:"rent_cost"`
	Products int             `json:"products" yaml:"products"`
}

// Pharmacy is a location that exclusively owns one Storage.
type Pharmacy struct {
	id       string
	name     string
	address  string
	phone    string
	rentCost decimal.Decimal
	storage  *Storage
}

// NewPharmacy validates the pharmacy metadata and attaches an empty storage.
// An empty name falls back to "Pharmacy <id>".
func NewPharmacy(id, name, address, phone string, rentCost decimal.Decimal) (*Pharmacy, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewInvalidArgumentError("id", "cannot be empty", id)
	}
	if !rentCost.IsPositive() {
		return nil, NewInvalidArgumentError("rent_cost", "must be positive", rentCost.String())
	}
	if strings.TrimSpace(name) == "" {
		name = "Pharmacy " + id
	}
	return &Pharmacy{
		id:       id,
		name:     name,
		address:  address,
		phone:    phone,
		rentCost: rentCost,
		storage:  NewStorage(id),
	}, nil
}

func (p *Pharmacy) ID() string                { return p.id }
func (p *Pharmacy) Name() string              { return p.name }
func (p *Pharmacy) RentCost() decimal.Decimal { return p.rentCost }

// AddToStorage delegates to the owned storage.
func (p *Pharmacy) AddToStorage(id ProductID, quantity int) error {
	return p.storage.AddProduct(id, quantity)
}

// RemoveFromStorage delegates to the owned storage.
func (p *Pharmacy) RemoveFromStorage(id ProductID, quantity int) error {
	return p.storage.RemoveProduct(id, quantity)
}

func (p *Pharmacy) QuantityOf(id ProductID) int { return p.storage.QuantityOf(id) }

// Stock lists the storage contents ordered by product id.
func (p *Pharmacy) Stock() []StockLine { return p.storage.Lines() }

// Storage exposes the owned storage for credit operations such as Return.Approve.
func (p *Pharmacy) Storage() *Storage { return p.storage }

// Info returns a value copy of the metadata.
func (p *Pharmacy) Info() PharmacyInfo {
	return PharmacyInfo{
		ID:       p.id,
		Name:     p.name,
		Address:  p.address,
		Phone:    p.phone,
		RentCost: p.rentCost,
		Products: p.storage.Len(),
	}
}

// Clone deep-copies the pharmacy and its storage.
func (p *Pharmacy) Clone() *Pharmacy {
	cp := *p
	cp.storage = p.storage.clone(p.id)
	return &cp
}
