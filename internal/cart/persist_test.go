package cart

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/stride-storefront/pkg/kv"
	"github.com/angelmondragon/stride-storefront/pkg/logger"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	state := Reduce(Empty(), AddLine{Product: airMax(), Size: types.NumericSize(42), Quantity: 2})
	state = Reduce(state, AddLine{Product: hoodie(), Size: types.LabelSize("M"), Quantity: 1})

	raw, err := Encode(state)
	require.NoError(t, err)
	restored, err := Decode(raw)
	require.NoError(t, err)

	require.Len(t, restored.Lines, 2)
	assert.Equal(t, state.Lines[0].Key(), restored.Lines[0].Key())
	assert.Equal(t, state.Lines[1].Key(), restored.Lines[1].Key())
	assert.True(t, state.Total.Equal(restored.Total))
	assert.Equal(t, state.Count, restored.Count)
}

func TestDecodeRepairsInconsistentSnapshot(t *testing.T) {
	p := airMax()
	raw := []byte(`{"lines":[
		{"product":{"id":"` + p.ID.String() + `","name":"x","brand":"y","price":10,"images":[],"sizes":[],"stock":1,"type":"shoes","featured":false,"created_at":"0001-01-01T00:00:00Z","updated_at":"0001-01-01T00:00:00Z"},"size":42,"quantity":2},
		{"product":{"id":"` + p.ID.String() + `","name":"x","brand":"y","price":10,"images":[],"sizes":[],"stock":1,"type":"shoes","featured":false,"created_at":"0001-01-01T00:00:00Z","updated_at":"0001-01-01T00:00:00Z"},"size":42,"quantity":1},
		{"product":{"id":"` + p.ID.String() + `","name":"x","brand":"y","price":10,"images":[],"sizes":[],"stock":1,"type":"shoes","featured":false,"created_at":"0001-01-01T00:00:00Z","updated_at":"0001-01-01T00:00:00Z"},"size":43,"quantity":0}
	],"total":999,"count":999}`)

	state, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, state.Lines, 1)
	assert.Equal(t, 3, state.Count)
	assert.Equal(t, "30.00", state.Total.String())
}

func TestKVPersisterMissingAndMalformed(t *testing.T) {
	ctx := context.Background()
	backing := kv.NewMemory()
	persister := NewKVPersister(backing)

	state, err := persister.Load(ctx)
	require.NoError(t, err)
	assert.True(t, state.IsEmpty())

	require.NoError(t, backing.Set(ctx, StorageKey, "{not json"))
	_, err = persister.Load(ctx)
	assert.Error(t, err)

	store := NewStore(ctx, persister, logger.Nop())
	assert.True(t, store.Snapshot().IsEmpty())
	store.Add(ctx, hoodie(), types.LabelSize("S"), 1)

	raw, err := backing.Get(ctx, StorageKey)
	require.NoError(t, err)
	assert.Contains(t, raw, `"count":1`)
}
