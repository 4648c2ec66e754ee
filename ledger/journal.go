package ledger

import (
	"github.com/darfe-e/greenFarmacy/domain"
	"github.com/darfe-e/greenFarmacy/util"
)

// MovementFilter narrows Movements results; zero fields match everything.
type MovementFilter struct {
	PharmacyID string
	ProductID  domain.ProductID
	Kind       domain.MovementKind
}

func (f MovementFilter) match(m domain.Movement) bool {
	if f.PharmacyID != "" && m.PharmacyID != f.PharmacyID {
		return false
	}
	if f.ProductID != "" && m.ProductID != f.ProductID {
		return false
	}
	if f.Kind != "" && m.Kind != f.Kind {
		return false
	}
	return true
}

// Journal is the append-only log of stock movements, kept in insertion order.
type Journal struct {
	entries []domain.Movement
}

func NewJournal() *Journal {
	return &Journal{}
}

// Record appends m, assigning an id when it has none.
func (j *Journal) Record(m domain.Movement) domain.Movement {
	if m.ID == "" {
		m.ID = util.GenerateID("MOV")
	}
	j.entries = append(j.entries, m)
	return m
}

// List returns the movements matching f, oldest first.
func (j *Journal) List(f MovementFilter) []domain.Movement {
	out := make([]domain.Movement, 0)
	for _, m := range j.entries {
		if f.match(m) {
			out = append(out, m)
		}
	}
	return out
}

func (j *Journal) Len() int { return len(j.entries) }
