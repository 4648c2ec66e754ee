package domain

import (
	"errors"
	"testing"
)

var aspirin = &MedicalProduct{ID: "ASPIRIN-100", Name: "Aspirin"}

func newTestReturn(t *testing.T, qty int) *Return {
	t.Helper()
	r, err := NewReturn("RET-1", MustSafeDate(2026, 10, 18), aspirin, "PH-1", qty, "damaged packaging")
	if err != nil {
		t.Fatalf("NewReturn failed: %v", err)
	}
	return r
}

func TestNewReturnValidation(t *testing.T) {
	day := MustSafeDate(2026, 10, 18)
	tests := []struct {
		name     string
		id       string
		date     SafeDate
		product  *MedicalProduct
		pharmacy string
		qty      int
		reason   string
		errField string
	}{
		{"empty id", "", day, aspirin, "PH-1", 1, "r", "id"},
		{"zero date", "R", SafeDate{}, aspirin, "PH-1", 1, "r", "date"},
		{"nil product", "R", day, nil, "PH-1", 1, "r", "product"},
		{"empty pharmacy", "R", day, aspirin, " ", 1, "r", "pharmacy_id"},
		{"zero quantity", "R", day, aspirin, "PH-1", 0, "r", "quantity"},
		{"empty reason", "R", day, aspirin, "PH-1", 1, "", "reason"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewReturn(tt.id, tt.date, tt.product, tt.pharmacy, tt.qty, tt.reason)
			var invErr *InvalidArgumentError
			if !errors.As(err, &invErr) {
				t.Fatalf("expected InvalidArgumentError, got %v", err)
			}
			if invErr.Field != tt.errField {
				t.Errorf("expected field %q, got %q", tt.errField, invErr.Field)
			}
		})
	}
}

func TestReturnApproveScenario(t *testing.T) {
	s := NewStorage("PH-1")
	r := newTestReturn(t, 10)
	if r.Status() != ReturnPending {
		t.Fatalf("expected pending, got %s", r.Status())
	}

	on := MustSafeDate(2026, 10, 19)
	if err := r.Approve(s, on); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	if r.Status() != ReturnApproved || !r.ResolvedOn().Equal(on) {
		t.Fatalf("unexpected state after approve: %s %s", r.Status(), r.ResolvedOn())
	}
	if q := s.QuantityOf("ASPIRIN-100"); q != 10 {
		t.Fatalf("expected storage credited with 10, got %d", q)
	}

	if err := r.Reject("late", on); !IsInvalidTransitionError(err) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if err := r.Approve(s, on); !IsInvalidTransitionError(err) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if q := s.QuantityOf("ASPIRIN-100"); q != 10 {
		t.Fatalf("second approve credited again: %d", q)
	}
}

func TestReturnReject(t *testing.T) {
	s := NewStorage("PH-1")
	r := newTestReturn(t, 4)

	if err := r.Reject("  no receipt ", MustSafeDate(2026, 10, 19)); err != nil {
		t.Fatalf("reject failed: %v", err)
	}
	if r.Status() != ReturnRejected || r.RejectionReason() != "no receipt" {
		t.Fatalf("unexpected state: %s %q", r.Status(), r.RejectionReason())
	}
	if err := r.Approve(s, MustSafeDate(2026, 10, 19)); !IsInvalidTransitionError(err) {
		t.Fatalf("expected InvalidTransitionError, got %v", err)
	}
	if s.Len() != 0 {
		t.Fatal("reject must not credit stock")
	}
}

type failingStorage struct{}

func (failingStorage) AddProduct(ProductID, int) error {
	return NewInvalidArgumentError("quantity", "would overflow stored quantity", 1)
}

func TestReturnApproveFailureLeavesPending(t *testing.T) {
	r := newTestReturn(t, 3)
	if err := r.Approve(failingStorage{}, MustSafeDate(2026, 10, 19)); err == nil {
		t.Fatal("expected error from failing storage")
	}
	if !r.IsPending() || !r.ResolvedOn().IsZero() {
		t.Fatalf("failed approve changed the return: %s", r.Status())
	}
	if err := r.Approve(nil, MustSafeDate(2026, 10, 19)); !IsInvalidArgumentError(err) {
		t.Fatalf("expected InvalidArgumentError for nil storage, got %v", err)
	}
}

func TestReturnRecordRoundTrip(t *testing.T) {
	r := newTestReturn(t, 2)
	_ = r.Reject("expired", MustSafeDate(2026, 10, 20))

	got, err := ReturnFromRecord(r.Record())
	if err != nil {
		t.Fatalf("ReturnFromRecord failed: %v", err)
	}
	if got.Status() != ReturnRejected || got.RejectionReason() != "expired" || got.ResolvedOn().String() != "2026-10-20" {
		t.Fatalf("unexpected restored return: %+v", got.Record())
	}

	rec := r.Record()
	rec.Status = "lost"
	if _, err := ReturnFromRecord(rec); !IsInvalidArgumentError(err) {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}

	rec.Status = ""
	got, err = ReturnFromRecord(rec)
	if err != nil || !got.IsPending() {
		t.Fatalf("empty status should restore as pending, got %v %v", got, err)
	}
}
