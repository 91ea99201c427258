package cart

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stride-storefront/pkg/kv"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

func TestStoreMutationsPersistAndNotify(t *testing.T) {
	ctx := context.Background()
	persister := &memoryPersister{}
	store := NewStore(ctx, persister, logger.Nop())

	var seen []int
	unsubscribe := store.Subscribe(func(s State) { seen = append(seen, s.Count) })
	defer unsubscribe()

	p := airMax()
	store.Add(ctx, p, types.NumericSize(42), 1)
	store.Add(ctx, p, types.NumericSize(42), 2)
	store.SetQuantity(ctx, p.ID, types.NumericSize(42), 5)
	store.Remove(ctx, p.ID, types.NumericSize(42))

	assert.Equal(t, []int{1, 3, 5, 0}, seen)
	assert.Len(t, persister.saved, 4)
	last, ok := persister.last()
	require.True(t, ok)
	assert.True(t, last.IsEmpty())
}

func TestDispatchNilActionIsNoop(t *testing.T) {
	ctx := context.Background()
	persister := &memoryPersister{}
	store := NewStore(ctx, persister, logger.Nop())
	store.Add(ctx, airMax(), types.NumericSize(42), 2)

	calls := 0
	store.Subscribe(func(State) { calls++ })

	got := store.Dispatch(ctx, nil)
	assert.Equal(t, 2, got.Count)
	assert.Equal(t, 0, calls)
	assert.Len(t, persister.saved, 1)
}

func TestStoreListenersSeeFreshAggregates(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, nil, nil)

	var readCount int
	var readTotal string
	store.Subscribe(func(State) {
		readCount = store.Count()
		readTotal = store.Total().String()
	})

	store.Add(ctx, hoodie(), types.LabelSize("M"), 2)
	assert.Equal(t, 2, readCount)
	assert.Equal(t, "110.00", readTotal)
}

func TestStoreUnsubscribeStopsNotifications(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, nil, nil)
	calls := 0
	unsubscribe := store.Subscribe(func(State) { calls++ })
	store.Add(ctx, hoodie(), types.LabelSize("S"), 1)
	unsubscribe()
	unsubscribe()
	store.Clear(ctx)
	assert.Equal(t, 1, calls)
}

func TestSelectOnlyFiresOnChange(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, nil, nil)
	p := airMax()
	store.Add(ctx, p, types.NumericSize(42), 1)

	var counts []int
	Select(store, func(s State) int { return s.Count }, func(c int) { counts = append(counts, c) })

	store.Remove(ctx, p.ID, types.NumericSize(40))
	store.SetQuantity(ctx, p.ID, types.NumericSize(42), 1)
	store.Add(ctx, p, types.NumericSize(43), 1)

	assert.Equal(t, []int{2}, counts)
}

func TestAddCheckedRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, nil, nil)

	_, err := store.AddChecked(ctx, airMax(), types.NumericSize(42), 0)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = store.AddChecked(ctx, airMax(), types.NumericSize(46), 1)
	assert.ErrorIs(t, err, ErrSizeUnavailable)
	assert.Equal(t, 0, store.Count())

	state, err := store.AddChecked(ctx, airMax(), types.NumericSize(42), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, state.Count)
}

func TestStoreHydratesFromPersister(t *testing.T) {
	ctx := context.Background()
	initial := Reduce(Empty(), AddLine{Product: airMax(), Size: types.NumericSize(42), Quantity: 3})
	store := NewStore(ctx, &memoryPersister{initial: initial}, nil)
	assert.Equal(t, 3, store.Count())
	assert.True(t, initial.Total.Equal(store.Total()))
}

func TestStoreFallsBackToEmptyOnLoadError(t *testing.T) {
	store := NewStore(context.Background(), &memoryPersister{loadErr: errBoom}, logger.Nop())
	assert.True(t, store.Snapshot().IsEmpty())
}

func TestStoreKeepsStateWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, &memoryPersister{saveErr: errBoom}, logger.Nop())
	state := store.Add(ctx, hoodie(), types.LabelSize("L"), 1)
	assert.Equal(t, 1, state.Count)
	assert.Equal(t, 1, store.Count())
}

func TestStoreRoundTripsThroughKV(t *testing.T) {
	ctx := context.Background()
	backing, err := kv.OpenSQLite(ctx, filepath.Join(t.TempDir(), "cart.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = backing.Close() })

	first := NewStore(ctx, NewKVPersister(backing), nil)
	first.Add(ctx, hoodie(), types.LabelSize("M"), 1)
	first.Add(ctx, airMax(), types.NumericSize(42), 2)
	first.Add(ctx, hoodie(), types.LabelSize("L"), 1)
	want := first.Snapshot()

	second := NewStore(ctx, NewKVPersister(backing), nil)
	got := second.Snapshot()
	require.Len(t, got.Lines, 3)
	for i := range want.Lines {
		assert.Equal(t, want.Lines[i].Key(), got.Lines[i].Key())
		assert.Equal(t, want.Lines[i].Quantity, got.Lines[i].Quantity)
	}
	assert.True(t, want.Total.Equal(got.Total))
	assert.Equal(t, want.Count, got.Count)
}

func TestConcurrentDispatchKeepsAggregatesExact(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, &memoryPersister{}, nil)
	p := airMax()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				store.Add(ctx, p, types.NumericSize(42), 1)
				_ = store.Count()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 200, store.Count())
	assert.Equal(t, p.Price.Times(200).String(), store.Total().String())
}

func TestWatchDeliversLatestStateAndCloses(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	store := NewStore(context.Background(), nil, nil)
	updates := store.Watch(ctx)

	store.Add(context.Background(), hoodie(), types.LabelSize("M"), 1)
	store.Add(context.Background(), hoodie(), types.LabelSize("M"), 1)

	select {
	case state := <-updates:
		assert.Equal(t, 2, state.Count)
	case <-time.After(time.Second):
		t.Fatal("expected a state on the watch channel")
	}

	cancel()
	select {
	case _, ok := <-updates:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("expected watch channel to close")
	}
}
