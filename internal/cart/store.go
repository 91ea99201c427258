package cart

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// Listener receives the cart state after every dispatched action.
type Listener func(State)

// Store is the single source of truth for the cart. Actions are applied one at a
// time: reduce, persist, then notify listeners synchronously, all before
// Dispatch returns. Listeners must not dispatch.
type Store struct {
	dispatchMu sync.Mutex

	stateMu sync.RWMutex
	state   State

	subsMu    sync.Mutex
	listeners map[int]Listener
	nextID    int

	persister Persister
	logg      *logger.Logger
}

// NewStore hydrates a store from persister. Unreadable or corrupt snapshots
// start the store empty and are logged, never returned.
func NewStore(ctx context.Context, persister Persister, logg *logger.Logger) *Store {
	if logg == nil {
		logg = logger.Nop()
	}
	s := &Store{
		state:     Empty(),
		listeners: make(map[int]Listener),
		persister: persister,
		logg:      logg,
	}
	if persister == nil {
		return s
	}
	loaded, err := persister.Load(ctx)
	if err != nil {
		logg.Warn(logg.WithField(ctx, "error", err.Error()), "cart snapshot unreadable, starting empty")
		return s
	}
	s.state = loaded
	return s
}

// Dispatch applies action and returns the resulting state. A nil action
// changes nothing.
func (s *Store) Dispatch(ctx context.Context, action Action) State {
	if action == nil {
		return s.Snapshot()
	}
	s.dispatchMu.Lock()
	defer s.dispatchMu.Unlock()

	s.stateMu.Lock()
	next := Reduce(s.state, action)
	s.state = next
	s.stateMu.Unlock()

	s.persist(ctx, next)

	ctx = s.logg.WithFields(ctx, map[string]any{"action": action.actionName(), "count": next.Count, "total": next.Total.String()})
	s.logg.Debug(ctx, "cart updated")

	s.notify(next)
	return next.Clone()
}

// Add puts quantity units of product in the given size into the cart.
func (s *Store) Add(ctx context.Context, product types.Product, size types.Size, quantity int) State {
	return s.Dispatch(ctx, AddLine{Product: product, Size: size, Quantity: quantity})
}

// AddChecked is Add for untrusted input: it rejects quantities below one and
// sizes the product does not offer instead of clamping.
func (s *Store) AddChecked(ctx context.Context, product types.Product, size types.Size, quantity int) (State, error) {
	if quantity < 1 {
		return s.Snapshot(), ErrInvalidQuantity
	}
	if len(product.Sizes) > 0 && !product.Sizes.Contains(size) {
		return s.Snapshot(), ErrSizeUnavailable
	}
	return s.Add(ctx, product, size, quantity), nil
}

func (s *Store) Remove(ctx context.Context, productID uuid.UUID, size types.Size) State {
	return s.Dispatch(ctx, RemoveLine{ProductID: productID, Size: size})
}

func (s *Store) SetQuantity(ctx context.Context, productID uuid.UUID, size types.Size, quantity int) State {
	return s.Dispatch(ctx, SetLineQuantity{ProductID: productID, Size: size, Quantity: quantity})
}

func (s *Store) Clear(ctx context.Context) State {
	return s.Dispatch(ctx, ClearCart{})
}

// Total returns the denormalized cart total.
func (s *Store) Total() types.Money {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state.Total
}

// Count returns the denormalized number of units in the cart.
func (s *Store) Count() int {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state.Count
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state.Clone()
}

func (s *Store) persist(ctx context.Context, state State) {
	if s.persister == nil {
		return
	}
	if err := s.persister.Save(ctx, state); err != nil {
		s.logg.Error(ctx, "persist cart snapshot", err)
	}
}
