package domain

import (
	"strings"
)

// ReturnStatus is the lifecycle state of a customer return.
type ReturnStatus string

const (
	ReturnPending  ReturnStatus = "pending"
	ReturnApproved ReturnStatus = "approved"
	ReturnRejected ReturnStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed.
func (s ReturnStatus) IsTerminal() bool {
	return s == ReturnApproved || s == ReturnRejected
}

func (s ReturnStatus) String() string { return string(s) }

// ParseReturnStatus accepts any of the three lifecycle states.
func ParseReturnStatus(s string) (ReturnStatus, error) {
	switch st := ReturnStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case ReturnPending, ReturnApproved, ReturnRejected:
		return st, nil
	default:
		return "", NewInvalidArgumentError("status", "must be pending, approved or rejected", s)
	}
}

// Return is a single customer return request. Product, pharmacy and quantity
// are fixed at construction; only the status moves, and only once.
type Return struct {
	id              string
	date            SafeDate
	productID       ProductID
	pharmacyID      string
	quantity        int
	reason          string
	status          ReturnStatus
	rejectionReason string
	resolvedOn      SafeDate
}

// NewReturn builds a pending return for product at pharmacyID.
func NewReturn(id string, date SafeDate, product *MedicalProduct, pharmacyID string, quantity int, reason string) (*Return, error) {
	if strings.TrimSpace(id) == "" {
		return nil, NewInvalidArgumentError("id", "cannot be empty", id)
	}
	if date.IsZero() {
		return nil, NewInvalidArgumentError("date", "is required", date)
	}
	if product == nil || product.ID == "" {
		return nil, NewInvalidArgumentError("product", "is required", nil)
	}
	if strings.TrimSpace(pharmacyID) == "" {
		return nil, NewInvalidArgumentError("pharmacy_id", "cannot be empty", pharmacyID)
	}
	if quantity <= 0 {
		return nil, NewInvalidArgumentError("quantity", "must be positive", quantity)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, NewInvalidArgumentError("reason", "cannot be empty", reason)
	}
	return &Return{
		id:         id,
		date:       date,
		productID:  product.ID,
		pharmacyID: pharmacyID,
		quantity:   quantity,
		reason:     reason,
		status:     ReturnPending,
	}, nil
}

func (r *Return) ID() string              { return r.id }
func (r *Return) Date() SafeDate          { return r.date }
func (r *Return) ProductID() ProductID    { return r.productID }
func (r *Return) PharmacyID() string      { return r.pharmacyID }
func (r *Return) Quantity() int           { return r.quantity }
func (r *Return) Reason() string          { return r.reason }
func (r *Return) Status() ReturnStatus    { return r.status }
func (r *Return) RejectionReason() string { return r.rejectionReason }
func (r *Return) ResolvedOn() SafeDate    { return r.resolvedOn }
func (r *Return) IsPending() bool         { return r.status == ReturnPending }

// Clone returns a copy that shares nothing with r.
func (r *Return) Clone() *Return {
	cp := *r
	return &cp
}

// Approve credits the returned quantity to storage and marks the return
// approved. If the credit fails the status is left untouched.
func (r *Return) Approve(storage StockAdder, on SafeDate) error {
	if r.status != ReturnPending {
		return NewInvalidTransitionError(r.id, r.status, ReturnApproved)
	}
	if storage == nil {
		return NewInvalidArgumentError("storage", "is required", nil)
	}
	if err := storage.AddProduct(r.productID, r.quantity); err != nil {
		return err
	}
	r.status = ReturnApproved
	r.resolvedOn = on
	return nil
}

// Reject finalizes the return without any stock movement. reason is optional.
func (r *Return) Reject(reason string, on SafeDate) error {
	if r.status != ReturnPending {
		return NewInvalidTransitionError(r.id, r.status, ReturnRejected)
	}
	r.status = ReturnRejected
	r.rejectionReason = strings.TrimSpace(reason)
	r.resolvedOn = on
	return nil
}
