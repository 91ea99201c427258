package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/types"
)

func airMax() types.Product {
	return types.Product{
		ID:     uuid.MustParse("6f1c1e0a-8a55-4d36-9a56-1f2f2b3c4d01"),
		Name:   "Nike Air Max 90",
		Brand:  "Nike",
		Price:  types.MustMoney("129.90"),
		Images: []string{"air-max-1.jpg", "air-max-2.jpg"},
		Sizes:  types.Sizes{types.NumericSize(41), types.NumericSize(42), types.NumericSize(43)},
		Stock:  12,
	}
}

func hoodie() types.Product {
	return types.Product{
		ID:    uuid.MustParse("6f1c1e0a-8a55-4d36-9a56-1f2f2b3c4d02"),
		Name:  "Club Fleece Hoodie",
		Brand: "Nike",
		Price: types.MustMoney("55.00"),
		Sizes: types.Sizes{types.LabelSize("S"), types.LabelSize("M"), types.LabelSize("L")},
		Stock: 4,
	}
}

type memoryPersister struct {
	mu      sync.Mutex
	saved   []State
	loadErr error
	saveErr error
	initial State
}

func (m *memoryPersister) Load(context.Context) (State, error) {
	if m.loadErr != nil {
		return Empty(), m.loadErr
	}
	if m.initial.Lines == nil {
		return Empty(), nil
	}
	return m.initial, nil
}

func (m *memoryPersister) Save(_ context.Context, state State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, state.Clone())
	return m.saveErr
}

func (m *memoryPersister) last() (State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.saved) == 0 {
		return State{}, false
	}
	return m.saved[len(m.saved)-1], true
}

var errBoom = errors.New("boom")
