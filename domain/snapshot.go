package domain

import (
	"github.com/shopspring/decimal"
)

// MovementKind classifies a journaled stock change.
type MovementKind string

const (
	MovementSupply     MovementKind = "supply"
	MovementWriteOff   MovementKind = "write-off"
	MovementReturn     MovementKind = "return"
	MovementAdjustment MovementKind = "adjustment"
)

// Movement is one journaled change of a pharmacy's stock.
type Movement struct {
	ID         string       `json:"id" yaml:"id"`
	Kind       MovementKind `json:"kind" yaml:"kind"`
	Date       SafeDate     `json:"date" yaml:"date"`
	PharmacyID string       `json:"pharmacy_id" yaml:"pharmacy_id"`
	ProductID  ProductID    `json:"product_id" yaml:"product_id"`
	Change     int          `json:"change" yaml:"change"`
	Before     int          `json:"before" yaml:"before"`
	After      int          `json:"after" yaml:"after"`
	Reference  string       `json:"reference,omitempty" yaml:"reference,omitempty"`
	Note       string       `json:"note,omitempty" yaml:"note,omitempty"`
}

// ProductRecord is the persisted form of a MedicalProduct.
type ProductRecord struct {
	ID                  ProductID       `json:"id" yaml:"id"`
	Name                string          `json:"name" yaml:"name"`
	Form                ProductForm     `json:"form,omitempty" yaml:"form,omitempty"`
	Price               decimal.Decimal `json:"price" yaml:"price"`
	ExpirationDate      SafeDate        `json:"expiration_date,omitempty" yaml:"expiration_date,omitempty"`
	ManufacturerCountry string          `json:"manufacturer_country,omitempty" yaml:"manufacturer_country,omitempty"`
	ActiveSubstance     string          `json:"active_substance,omitempty" yaml:"active_substance,omitempty"`
	Analogues           []ProductID     `json:"analogues,omitempty" yaml:"analogues,omitempty"`
}

// PharmacyRecord is the persisted form of a Pharmacy with its storage.
type PharmacyRecord struct {
	ID       string          `json:"id" yaml:"id"`
	Name     string          `json:"name" yaml:"name"`
	Address  string          `json:"address,omitempty" yaml:"address,omitempty"`
	Phone    string          `json:"phone,omitempty" yaml:"phone,omitempty"`
	RentCost decimal.Decimal `json:"rent_cost" yaml:"rent_cost"`
	Stock    []StockLine     `json:"stock,omitempty" yaml:"stock,omitempty"`
}

// ReturnRecord is the persisted form of a Return, terminal states included.
type ReturnRecord struct {
	ID              string       `json:"id" yaml:"id"`
	Date            SafeDate     `json:"date" yaml:"date"`
	ProductID       ProductID    `json:"product_id" yaml:"product_id"`
	PharmacyID      string       `json:"pharmacy_id" yaml:"pharmacy_id"`
	Quantity        int          `json:"quantity" yaml:"quantity"`
	Reason          string       `json:"reason" yaml:"reason"`
	Status          ReturnStatus `json:"status" yaml:"status"`
	RejectionReason string       `json:"rejection_reason,omitempty" yaml:"rejection_reason,omitempty"`
	ResolvedOn      SafeDate     `json:"resolved_on,omitempty" yaml:"resolved_on,omitempty"`
}

// Snapshot is the complete ledger state handed to a SnapshotStore.
type Snapshot struct {
	Products   []ProductRecord  `json:"products" yaml:"products"`
	Pharmacies []PharmacyRecord `json:"pharmacies" yaml:"pharmacies"`
	Returns    []ReturnRecord   `json:"returns" yaml:"returns"`
	Movements  []Movement       `json:"movements" yaml:"movements"`
}

// IsEmpty reports whether the snapshot holds no state at all.
func (s Snapshot) IsEmpty() bool {
	return len(s.Products) == 0 && len(s.Pharmacies) == 0 && len(s.Returns) == 0 && len(s.Movements) == 0
}

// Record converts a product into its persisted form.
func (p *MedicalProduct) Record() ProductRecord {
	return ProductRecord{
		ID:                  p.ID,
		Name:                p.Name,
		Form:                p.Form,
		Price:               p.Price,
		ExpirationDate:      p.ExpirationDate,
		ManufacturerCountry: p.ManufacturerCountry,
		ActiveSubstance:     p.ActiveSubstance,
		Analogues:           p.Analogues(),
	}
}

// ProductFromRecord rebuilds a validated product, analogues included.
func ProductFromRecord(rec ProductRecord) (*MedicalProduct, error) {
	p := &MedicalProduct{
		ID:                  rec.ID,
		Name:                rec.Name,
		Form:                rec.Form,
		Price:               rec.Price,
		ExpirationDate:      rec.ExpirationDate,
		ManufacturerCountry: rec.ManufacturerCountry,
		ActiveSubstance:     rec.ActiveSubstance,
	}
	if p.Form == "" {
		p.Form = FormOther
	}
	if err := ValidateProduct(*p); err != nil {
		return nil, err
	}
	for _, id := range rec.Analogues {
		if err := p.AddAnalogue(id); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Record converts a pharmacy and its storage into its persisted form.
func (p *Pharmacy) Record() PharmacyRecord {
	return PharmacyRecord{
		ID:       p.id,
		Name:     p.name,
		Address:  p.address,
		Phone:    p.phone,
		RentCost: p.rentCost,
		Stock:    p.storage.Lines(),
	}
}

// PharmacyFromRecord rebuilds a pharmacy and refills its storage.
func PharmacyFromRecord(rec PharmacyRecord) (*Pharmacy, error) {
	p, err := NewPharmacy(rec.ID, rec.Name, rec.Address, rec.Phone, rec.RentCost)
	if err != nil {
		return nil, err
	}
	for _, line := range rec.Stock {
		if err := p.AddToStorage(line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Record converts a return into its persisted form.
func (r *Return) Record() ReturnRecord {
	return ReturnRecord{
		ID:              r.id,
		Date:            r.date,
		ProductID:       r.productID,
		PharmacyID:      r.pharmacyID,
		Quantity:        r.quantity,
		Reason:          r.reason,
		Status:          r.status,
		RejectionReason: r.rejectionReason,
		ResolvedOn:      r.resolvedOn,
	}
}

// ReturnFromRecord rebuilds a persisted return. Unlike NewReturn it accepts
// terminal statuses, since those were reached through Approve or Reject.
func ReturnFromRecord(rec ReturnRecord) (*Return, error) {
	r, err := NewReturn(rec.ID, rec.Date, &MedicalProduct{ID: rec.ProductID}, rec.PharmacyID, rec.Quantity, rec.Reason)
	if err != nil {
		return nil, err
	}
	status := rec.Status
	if status == "" {
		status = ReturnPending
	}
	if status, err = ParseReturnStatus(string(status)); err != nil {
		return nil, err
	}
	r.status = status
	r.rejectionReason = rec.RejectionReason
	r.resolvedOn = rec.ResolvedOn
	return r, nil
}
