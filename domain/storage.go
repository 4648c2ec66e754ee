package domain

import (
	"math"
	"sort"
)

// StockLine is one product quantity held by a Storage.
type StockLine struct {
	ProductID ProductID `json:"product_id" yaml:"product_id"`
	Quantity  int       `json:"quantity" yaml:"quantity"`
}

// StockAdder is the part of a Storage a Return needs to credit stock back.
type StockAdder interface {
	AddProduct(id ProductID, quantity int) error
}

// Storage maps product ids to on-hand quantities for one pharmacy.
// Every stored quantity is positive; an absent id means zero.
type Storage struct {
	pharmacyID string
	items      map[ProductID]int
}

// NewStorage creates an empty storage owned by pharmacyID.
func NewStorage(pharmacyID string) *Storage {
	return &Storage{
		pharmacyID: pharmacyID,
		items:      make(map[ProductID]int),
	}
}

var _ StockAdder = (*Storage)(nil)

func (s *Storage) PharmacyID() string { return s.pharmacyID }

// AddProduct increases the quantity for id, creating the entry when absent.
func (s *Storage) AddProduct(id ProductID, quantity int) error {
	if err := checkLine(id, quantity); err != nil {
		return err
	}
	current := s.items[id]
	if current > math.MaxInt-quantity {
		return NewInvalidArgumentError("quantity", "would overflow stored quantity", quantity)
	}
	s.items[id] = current + quantity
	return nil
}

// RemoveProduct decreases the quantity for id. It fails without touching the
// storage when quantity exceeds what is on hand, and drops the entry at zero.
func (s *Storage) RemoveProduct(id ProductID, quantity int) error {
	if err := checkLine(id, quantity); err != nil {
		return err
	}
	current := s.items[id]
	if quantity > current {
		return NewInsufficientQuantityError(id, quantity, current)
	}
	if current == quantity {
		delete(s.items, id)
		return nil
	}
	s.items[id] = current - quantity
	return nil
}

// QuantityOf returns the on-hand quantity, 0 when absent.
func (s *Storage) QuantityOf(id ProductID) int {
	return s.items[id]
}

// Contains reports whether a positive quantity of id is stored.
func (s *Storage) Contains(id ProductID) bool {
	return s.items[id] > 0
}

// ProductIDs returns stored ids in ascending order.
func (s *Storage) ProductIDs() []ProductID {
	out := make([]ProductID, 0, len(s.items))
	for id := range s.items {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Lines returns every stored quantity ordered by product id.
func (s *Storage) Lines() []StockLine {
	ids := s.ProductIDs()
	out := make([]StockLine, 0, len(ids))
	for _, id := range ids {
		out = append(out, StockLine{ProductID: id, Quantity: s.items[id]})
	}
	return out
}

func (s *Storage) Len() int { return len(s.items) }

func (s *Storage) clone(pharmacyID string) *Storage {
	cp := NewStorage(pharmacyID)
	for id, q := range s.items {
		cp.items[id] = q
	}
	return cp
}

func checkLine(id ProductID, quantity int) error {
	if id == "" {
		return NewInvalidArgumentError("product_id", "cannot be empty", id)
	}
	if quantity <= 0 {
		return NewInvalidArgumentError("quantity", "must be positive", quantity)
	}
	return nil
}
