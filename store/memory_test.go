package store

import (
	"context"
	"testing"

	"github.com/darfe-e/greenFarmacy/domain"
	"github.com/shopspring/decimal"
)

func sampleSnapshot() domain.Snapshot {
	return domain.Snapshot{
		Products: []domain.ProductRecord{
			{
				ID:                  "ASPIRIN-100",
				Name:                "Aspirin",
				Form:                domain.FormTablet,
				Price:               decimal.RequireFromString("4.50"),
				ExpirationDate:      domain.MustSafeDate(2027, 3, 1),
				ManufacturerCountry: "Germany",
				ActiveSubstance:     "acetylsalicylic acid",
				Analogues:           []domain.ProductID{"CARDIO-75"},
			},
			{
				ID:        "CARDIO-75",
				Name:      "Cardiomagnyl",
				Form:      domain.FormTablet,
				Price:     decimal.RequireFromString("7.20"),
				Analogues: []domain.ProductID{"ASPIRIN-100"},
			},
		},
		Pharmacies: []domain.PharmacyRecord{
			{
				ID:       "PH-1",
				Name:     "Central",
				Address:  "Main st. 1",
				RentCost: decimal.RequireFromString("1500"),
				Stock:    []domain.StockLine{{ProductID: "ASPIRIN-100", Quantity: 40}},
			},
		},
		Returns: []domain.ReturnRecord{
			{
				ID:         "RET-1",
				Date:       domain.MustSafeDate(2026, 10, 1),
				ProductID:  "ASPIRIN-100",
				PharmacyID: "PH-1",
				Quantity:   2,
				Reason:     "damaged box",
				Status:     domain.ReturnRejected,
				ResolvedOn: domain.MustSafeDate(2026, 10, 2),
			},
		},
		Movements: []domain.Movement{
			{
				ID:         "MOV-1",
				Kind:       domain.MovementSupply,
				Date:       domain.MustSafeDate(2026, 9, 30),
				PharmacyID: "PH-1",
				ProductID:  "ASPIRIN-100",
				Change:     40,
				After:      40,
				Reference:  "Wholesale Ltd",
			},
		},
	}
}

func TestInMemoryStore_LoadEmpty(t *testing.T) {
	s := NewInMemoryStore()
	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if !snap.IsEmpty() {
		t.Fatalf("expected empty snapshot, got %+v", snap)
	}
}

func TestInMemoryStore_SaveLoad(t *testing.T) {
	s := NewInMemoryStore()
	ctx := context.Background()

	in := sampleSnapshot()
	if err := s.Save(ctx, in); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if len(got.Products) != 2 || len(got.Pharmacies) != 1 || len(got.Returns) != 1 || len(got.Movements) != 1 {
		t.Fatalf("unexpected snapshot sizes: %+v", got)
	}

	t.Run("saved snapshot is isolated from the caller", func(t *testing.T) {
		in.Pharmacies[0].Stock[0].Quantity = 999
		in.Products[0].Analogues[0] = "OTHER"
		again, _ := s.Load(ctx)
		if again.Pharmacies[0].Stock[0].Quantity != 40 {
			t.Fatalf("stock leaked through: %d", again.Pharmacies[0].Stock[0].Quantity)
		}
		if again.Products[0].Analogues[0] != "CARDIO-75" {
			t.Fatalf("analogues leaked through: %v", again.Products[0].Analogues)
		}
	})

	t.Run("loaded snapshot is isolated from the store", func(t *testing.T) {
		got.Pharmacies[0].Stock[0].Quantity = 1
		again, _ := s.Load(ctx)
		if again.Pharmacies[0].Stock[0].Quantity != 40 {
			t.Fatalf("store was mutated through Load result")
		}
	})
}

func TestInMemoryStore_ContextCancelled(t *testing.T) {
	s := NewInMemoryStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Load(ctx); err == nil {
		t.Fatal("expected error from Load with cancelled context")
	}
	if err := s.Save(ctx, sampleSnapshot()); err == nil {
		t.Fatal("expected error from Save with cancelled context")
	}
}
