// Package domain defines core business types and interfaces.
package domain

import (
	"context"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// ProductID identifies a medical product in the catalog and in every Storage.
type ProductID string

// ProductForm is the dosage form of a medical product.
type ProductForm string

const (
	FormTablet   ProductForm = "tablet"
	FormSyrup    ProductForm = "syrup"
	FormOintment ProductForm = "ointment"
	FormOther    ProductForm = "other"
)

// ParseProductForm maps free text to a ProductForm; empty input means FormOther.
func ParseProductForm(s string) (ProductForm, error) {
	switch f := ProductForm(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormOther, nil
	case FormTablet, FormSyrup, FormOintment, FormOther:
		return f, nil
	default:
		return "", NewInvalidArgumentError("form", "must be tablet, syrup, ointment or other", s)
	}
}

// MedicalProduct is one catalog entry. Analogues are weak references by id;
// the catalog that owns this product does not own the analogues through it.
type MedicalProduct struct {
	ID                  ProductID
	Name                string
	Form                ProductForm
	Price               decimal.Decimal
	ExpirationDate      SafeDate
	ManufacturerCountry string
	ActiveSubstance     string

	analogues map[ProductID]struct{}
}

// ValidateProduct checks the descriptive fields of a catalog entry.
func ValidateProduct(p MedicalProduct) error {
	if strings.TrimSpace(string(p.ID)) == "" {
		return NewInvalidArgumentError("id", "cannot be empty", p.ID)
	}
	if strings.TrimSpace(p.Name) == "" {
		return NewInvalidArgumentError("name", "cannot be empty", p.Name)
	}
	if p.Price.IsNegative() {
		return NewInvalidArgumentError("price", "must be non-negative", p.Price.String())
	}
	if _, err := ParseProductForm(string(p.Form)); err != nil {
		return err
	}
	return nil
}

// AddAnalogue records id as an analogue of p.
func (p *MedicalProduct) AddAnalogue(id ProductID) error {
	if id == "" {
		return NewInvalidArgumentError("analogue", "cannot be empty", id)
	}
	if id == p.ID {
		return NewInvalidArgumentError("analogue", "product cannot be an analogue of itself", id)
	}
	if _, ok := p.analogues[id]; ok {
		return NewDuplicateIDError(KindAnalogue, string(id))
	}
	if p.analogues == nil {
		p.analogues = make(map[ProductID]struct{})
	}
	p.analogues[id] = struct{}{}
	return nil
}

// RemoveAnalogue drops id from the analogue set.
func (p *MedicalProduct) RemoveAnalogue(id ProductID) error {
	if _, ok := p.analogues[id]; !ok {
		return NewNotFoundError(KindAnalogue, string(id))
	}
	delete(p.analogues, id)
	return nil
}

// HasAnalogue reports whether id is in the analogue set.
func (p *MedicalProduct) HasAnalogue(id ProductID) bool {
	_, ok := p.analogues[id]
	return ok
}

// Analogues returns the analogue ids in ascending order.
func (p *MedicalProduct) Analogues() []ProductID {
	out := make([]ProductID, 0, len(p.analogues))
	for id := range p.analogues {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Clone returns a deep copy, including the analogue set.
func (p *MedicalProduct) Clone() *MedicalProduct {
	cp := *p
	cp.analogues = nil
	for id := range p.analogues {
		if cp.analogues == nil {
			cp.analogues = make(map[ProductID]struct{}, len(p.analogues))
		}
		cp.analogues[id] = struct{}{}
	}
	return &cp
}

// Matches reports whether term is a substring of the id, name, manufacturer
// country or active substance (case-insensitive).
func (p *MedicalProduct) Matches(term string) bool {
	term = strings.ToLower(term)
	for _, field := range []string{string(p.ID), p.Name, p.ManufacturerCountry, p.ActiveSubstance} {
		if field != "" && strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// SnapshotStore persists and restores the full ledger state
type SnapshotStore interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
