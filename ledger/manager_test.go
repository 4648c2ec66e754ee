package ledger

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darfe-e/greenFarmacy/domain"
)

var testDay = domain.MustSafeDate(2026, 10, 19)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	return NewManager(WithClock(func() domain.SafeDate { return testDay }))
}

func addPharmacy(t *testing.T, m *Manager, id string) {
	t.Helper()
	p, err := domain.NewPharmacy(id, "", "", "", decimal.NewFromInt(1000))
	require.NoError(t, err)
	require.NoError(t, m.AddPharmacy(p))
}

func addProduct(t *testing.T, m *Manager, id domain.ProductID, name string) {
	t.Helper()
	require.NoError(t, m.RegisterProduct(&domain.MedicalProduct{ID: id, Name: name}))
}

func TestAddPharmacy(t *testing.T) {
	m := newTestManager(t)
	p, err := domain.NewPharmacy("PH-1", "Central", "Main st. 1", "", decimal.NewFromInt(1500))
	require.NoError(t, err)
	require.NoError(t, m.AddPharmacy(p))

	err = m.AddPharmacy(p)
	assert.True(t, domain.IsDuplicateIDError(err), "got %v", err)
	assert.True(t, domain.IsInvalidArgumentError(m.AddPharmacy(nil)))

	// the manager keeps its own copy
	require.NoError(t, p.AddToStorage("X", 5))
	info, err := m.Pharmacy("PH-1")
	require.NoError(t, err)
	assert.Equal(t, 0, info.Products)
	assert.Equal(t, "Central", info.Name)
}

func TestRemovePharmacy(t *testing.T) {
	m := newTestManager(t)
	addPharmacy(t, m, "PH-1")
	addPharmacy(t, m, "PH-2")

	t.Run("unknown id leaves the set unchanged", func(t *testing.T) {
		before := m.Pharmacies()
		err := m.RemovePharmacy("NOPE")
		assert.True(t, domain.IsNotFoundError(err), "got %v", err)
		assert.Equal(t, before, m.Pharmacies())
	})

	require.NoError(t, m.RemovePharmacy("PH-1"))
	list := m.Pharmacies()
	require.Len(t, list, 1)
	assert.Equal(t, "PH-2", list[0].ID)

	_, err := m.Stock("PH-1")
	assert.True(t, domain.IsNotFoundError(err))
}

func TestAddRemoveProduct(t *testing.T) {
	m := newTestManager(t)
	addPharmacy(t, m, "PH-1")
	addProduct(t, m, "ASPIRIN-100", "Aspirin")

	require.NoError(t, m.AddProduct("PH-1", "ASPIRIN-100", 50))
	err := m.RemoveProduct("PH-1", "ASPIRIN-100", 60)
	var iq *domain.InsufficientQuantityError
	require.ErrorAs(t, err, &iq)
	assert.Equal(t, 60, iq.Requested)
	assert.Equal(t, 50, iq.Available)

	q, err := m.QuantityOf("PH-1", "ASPIRIN-100")
	require.NoError(t, err)
	assert.Equal(t, 50, q)

	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"unknown pharmacy", m.AddProduct("NOPE", "ASPIRIN-100", 1), domain.IsNotFoundError},
		{"unregistered product", m.AddProduct("PH-1", "GHOST", 1), domain.IsNotFoundError},
		{"zero quantity", m.AddProduct("PH-1", "ASPIRIN-100", 0), domain.IsInvalidArgumentError},
		{"negative remove", m.RemoveProduct("PH-1", "ASPIRIN-100", -5), domain.IsInvalidArgumentError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err), "got %v", tt.err)
		})
	}

	q, _ = m.QuantityOf("PH-1", "ASPIRIN-100")
	assert.Equal(t, 50, q, "failed operations must not change stock")

	require.NoError(t, m.RemoveProduct("PH-1", "ASPIRIN-100", 50))
	lines, err := m.Stock("PH-1")
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestSupplyAndWriteOff(t *testing.T) {
	m := newTestManager(t)
	addPharmacy(t, m, "PH-1")
	addProduct(t, m, "ASPIRIN-100", "Aspirin")

	_, err := m.Supply("PH-1", "ASPIRIN-100", 10, " ")
	assert.True(t, domain.IsInvalidArgumentError(err))

	mv, err := m.Supply("PH-1", "ASPIRIN-100", 10, "Wholesale Ltd")
	require.NoError(t, err)
	assert.Equal(t, domain.MovementSupply, mv.Kind)
	assert.Equal(t, 0, mv.Before)
	assert.Equal(t, 10, mv.After)
	assert.Equal(t, 10, mv.Change)
	assert.Equal(t, "Wholesale Ltd", mv.Reference)
	assert.True(t, mv.Date.Equal(testDay))
	assert.NotEmpty(t, mv.ID)

	_, err = m.WriteOff("PH-1", "ASPIRIN-100", 3, "")
	assert.True(t, domain.IsInvalidArgumentError(err))

	mv, err = m.WriteOff("PH-1", "ASPIRIN-100", 3, "expired")
	require.NoError(t, err)
	assert.Equal(t, -3, mv.Change)
	assert.Equal(t, 7, mv.After)

	_, err = m.WriteOff("PH-1", "ASPIRIN-100", 8, "expired")
	assert.True(t, domain.IsInsufficientQuantityError(err))

	all := m.Movements(MovementFilter{})
	require.Len(t, all, 2, "failed operations are not journaled")
	writeOffs := m.Movements(MovementFilter{Kind: domain.MovementWriteOff})
	require.Len(t, writeOffs, 1)
	assert.Equal(t, "expired", writeOffs[0].Note)
	assert.Empty(t, m.Movements(MovementFilter{PharmacyID: "PH-2"}))
}

func TestTotalQuantityAndAvailability(t *testing.T) {
	m := newTestManager(t)
	addProduct(t, m, "A", "Alpha")
	addProduct(t, m, "B", "Beta")

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("PH-%d", i)
		addPharmacy(t, m, id)
		for j := 0; j < 10; j++ {
			pid := domain.ProductID("A")
			if rng.Intn(2) == 0 {
				pid = "B"
			}
			require.NoError(t, m.AddProduct(id, pid, rng.Intn(30)+1))
		}
	}

	for _, pid := range []domain.ProductID{"A", "B", "UNKNOWN"} {
		sum := 0
		for _, info := range m.Pharmacies() {
			q, err := m.QuantityOf(info.ID, pid)
			require.NoError(t, err)
			sum += q
		}
		assert.Equal(t, sum, m.TotalQuantity(pid), "product %s", pid)

		avail := m.Availability(pid)
		availSum := 0
		for _, q := range avail {
			assert.Positive(t, q)
			availSum += q
		}
		assert.Equal(t, sum, availSum)
	}
	assert.Empty(t, m.Availability("UNKNOWN"))
}

func TestTotalQuantityUnderInterleavings(t *testing.T) {
	products := []domain.ProductID{"A", "B"}

	for seed := int64(1); seed <= 10; seed++ {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			m := newTestManager(t)
			for _, pid := range products {
				addProduct(t, m, pid, string(pid))
			}
			model := make(map[string]map[domain.ProductID]int)
			next := 0
			rng := rand.New(rand.NewSource(seed))

			for step := 0; step < 400; step++ {
				ids := make([]string, 0, len(model))
				for _, info := range m.Pharmacies() {
					ids = append(ids, info.ID)
				}
				pid := products[rng.Intn(len(products))]

				switch op := rng.Intn(10); {
				case op < 2 || len(ids) == 0:
					id := fmt.Sprintf("PH-%d", next)
					next++
					addPharmacy(t, m, id)
					model[id] = make(map[domain.ProductID]int)
				case op < 3:
					id := ids[rng.Intn(len(ids))]
					require.NoError(t, m.RemovePharmacy(id))
					delete(model, id)
				case op < 7:
					id := ids[rng.Intn(len(ids))]
					qty := rng.Intn(20) + 1
					require.NoError(t, m.AddProduct(id, pid, qty))
					model[id][pid] += qty
				default:
					id := ids[rng.Intn(len(ids))]
					qty := rng.Intn(20) + 1
					err := m.RemoveProduct(id, pid, qty)
					if qty > model[id][pid] {
						require.True(t, domain.IsInsufficientQuantityError(err), "step %d: got %v", step, err)
					} else {
						require.NoError(t, err, "step %d", step)
						model[id][pid] -= qty
					}
				}

				for _, p := range products {
					want, sum := 0, 0
					for id, stock := range model {
						want += stock[p]
						q, err := m.QuantityOf(id, p)
						require.NoError(t, err)
						sum += q
					}
					require.Equal(t, want, sum, "step %d product %s", step, p)
					require.Equal(t, sum, m.TotalQuantity(p), "step %d product %s", step, p)
				}
				require.Len(t, m.Pharmacies(), len(model))
			}
		})
	}
}

func TestFindProduct(t *testing.T) {
	m := newTestManager(t)
	addProduct(t, m, "ASPIRIN-100", "Aspirin")
	addPharmacy(t, m, "PH-1")
	addPharmacy(t, m, "PH-2")
	require.NoError(t, m.AddProduct("PH-2", "ASPIRIN-100", 1))

	for _, key := range []string{"ASPIRIN-100", "Aspirin"} {
		found, err := m.FindProduct(key)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "PH-2", found[0].ID)
	}

	found, err := m.FindProduct("Ibuprofen")
	require.NoError(t, err)
	assert.Empty(t, found)

	_, err = m.FindProduct("")
	assert.True(t, domain.IsInvalidArgumentError(err))
}

func TestClear(t *testing.T) {
	m := newTestManager(t)
	addProduct(t, m, "A", "Alpha")
	addPharmacy(t, m, "PH-1")
	require.NoError(t, m.AddProduct("PH-1", "A", 1))

	m.Clear()
	assert.Empty(t, m.Pharmacies())
	assert.Empty(t, m.Products())
	assert.Empty(t, m.Movements(MovementFilter{}))
	assert.True(t, m.Snapshot().IsEmpty())
}

func TestConcurrentStockChanges(t *testing.T) {
	m := newTestManager(t)
	addPharmacy(t, m, "PH-1")
	addProduct(t, m, "A", "Alpha")
	require.NoError(t, m.AddProduct("PH-1", "A", 1000))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = m.AddProduct("PH-1", "A", 2)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_ = m.RemoveProduct("PH-1", "A", 1)
				_ = m.TotalQuantity("A")
			}
		}()
	}
	wg.Wait()

	q, err := m.QuantityOf("PH-1", "A")
	require.NoError(t, err)
	assert.Equal(t, 1000+50*10*2-50*10, q)
	assert.Len(t, m.Movements(MovementFilter{}), 1+50*10*2)
}
