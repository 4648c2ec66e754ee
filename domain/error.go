// Package domain defines error types for the pharmacy ledger.
package domain

import (
	"errors"
	"fmt"
)

// NotFoundError is returned when a referenced pharmacy, product or return does not exist
type NotFoundError struct {
	Kind string
	ID   string
}

// Error implements the error interface for NotFoundError
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: id=%s", e.Kind, e.ID)
}

// Is allows proper error type checking with errors.Is()
func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}

// DuplicateIDError is returned when adding an entity whose id is already taken
type DuplicateIDError struct {
	Kind string
	ID   string
}

// Error implements the error interface for DuplicateIDError
func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate %s: id=%s already exists", e.Kind, e.ID)
}

// Is allows proper error type checking with errors.Is()
func (e *DuplicateIDError) Is(target error) bool {
	_, ok := target.(*DuplicateIDError)
	return ok
}

// InsufficientQuantityError is returned when a removal exceeds the on-hand quantity.
// Both figures are carried so callers can show them to the user.
type InsufficientQuantityError struct {
	ProductID ProductID
	Requested int
	Available int
}

// Error implements the error interface for InsufficientQuantityError
func (e *InsufficientQuantityError) Error() string {
	return fmt.Sprintf("insufficient quantity: product=%s, requested=%d, available=%d",
		e.ProductID, e.Requested, e.Available)
}

// Is allows proper error type checking with errors.Is()
func (e *InsufficientQuantityError) Is(target error) bool {
	_, ok := target.(*InsufficientQuantityError)
	return ok
}

// InvalidArgumentError is returned when a constructor or operation precondition is violated
type InvalidArgumentError struct {
	Field  string
	Reason string
	Value  interface{}
}

// Error implements the error interface for InvalidArgumentError
func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: field=%s, reason=%s, value=%v", e.Field, e.Reason, e.Value)
}

// Is allows proper error type checking with errors.Is()
func (e *InvalidArgumentError) Is(target error) bool {
	_, ok := target.(*InvalidArgumentError)
	return ok
}

// InvalidTransitionError is returned when acting on a return that is already finalized
type InvalidTransitionError struct {
	ReturnID string
	From     ReturnStatus
	To       ReturnStatus
}

// Error implements the error interface for InvalidTransitionError
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("return already finalized: id=%s, status=%s, requested=%s", e.ReturnID, e.From, e.To)
}

// Is allows proper error type checking with errors.Is()
func (e *InvalidTransitionError) Is(target error) bool {
	_, ok := target.(*InvalidTransitionError)
	return ok
}

// InUseError is returned when a catalog entry cannot be removed because stock or
// a pending return still refers to it
type InUseError struct {
	ProductID ProductID
	Reason    string
}

// Error implements the error interface for InUseError
func (e *InUseError) Error() string {
	return fmt.Sprintf("product in use: id=%s, %s", e.ProductID, e.Reason)
}

// Is allows proper error type checking with errors.Is()
func (e *InUseError) Is(target error) bool {
	_, ok := target.(*InUseError)
	return ok
}

// Kinds used in NotFoundError and DuplicateIDError
const (
	KindPharmacy = "pharmacy"
	KindProduct  = "product"
	KindReturn   = "return"
	KindAnalogue = "analogue"
)

// Helper functions for creating errors with context

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(kind, id string) error {
	return &NotFoundError{Kind: kind, ID: id}
}

// NewDuplicateIDError creates a new DuplicateIDError
func NewDuplicateIDError(kind, id string) error {
	return &DuplicateIDError{Kind: kind, ID: id}
}

// NewInsufficientQuantityError creates a new InsufficientQuantityError
func NewInsufficientQuantityError(productID ProductID, requested, available int) error {
	return &InsufficientQuantityError{
		ProductID: productID,
		Requested: requested,
		Available: available,
	}
}

// NewInvalidArgumentError creates a new InvalidArgumentError
func NewInvalidArgumentError(field, reason string, value interface{}) error {
	return &InvalidArgumentError{
		Field:  field,
		Reason: reason,
		Value:  value,
	}
}

// NewInvalidTransitionError creates a new InvalidTransitionError
func NewInvalidTransitionError(returnID string, from, to ReturnStatus) error {
	return &InvalidTransitionError{ReturnID: returnID, From: from, To: to}
}

// NewInUseError creates a new InUseError
func NewInUseError(productID ProductID, reason string) error {
	return &InUseError{ProductID: productID, Reason: reason}
}

// Type assertion helpers for use with errors.As()

// IsNotFoundError checks if an error is a NotFoundError
func IsNotFoundError(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsDuplicateIDError checks if an error is a DuplicateIDError
func IsDuplicateIDError(err error) bool {
	var d *DuplicateIDError
	return errors.As(err, &d)
}

// IsInsufficientQuantityError checks if an error is an InsufficientQuantityError
func IsInsufficientQuantityError(err error) bool {
	var iq *InsufficientQuantityError
	return errors.As(err, &iq)
}

// IsInvalidArgumentError checks if an error is an InvalidArgumentError
func IsInvalidArgumentError(err error) bool {
	var ia *InvalidArgumentError
	return errors.As(err, &ia)
}

// IsInvalidTransitionError checks if an error is an InvalidTransitionError
func IsInvalidTransitionError(err error) bool {
	var it *InvalidTransitionError
	return errors.As(err, &it)
}

// IsInUseError checks if an error is an InUseError
func IsInUseError(err error) bool {
	var iu *InUseError
	return errors.As(err, &iu)
}
