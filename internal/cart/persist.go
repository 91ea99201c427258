package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelmondragon/stride-storefront/pkg/kv"
)

// StorageKey is the kv key holding the persisted cart snapshot.
const StorageKey = "stride-cart"

// Persister saves and restores cart snapshots.
type Persister interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// KVPersister stores the cart as JSON under StorageKey.
type KVPersister struct {
	store kv.Store
	key   string
}

func NewKVPersister(store kv.Store) *KVPersister {
	return &KVPersister{store: store, key: StorageKey}
}

// Load returns an empty cart when nothing was saved yet and an error when the
// stored snapshot cannot be decoded.
func (p *KVPersister) Load(ctx context.Context) (State, error) {
	raw, err := p.store.Get(ctx, p.key)
	if errors.Is(err, kv.ErrNotFound) {
		return Empty(), nil
	}
	if err != nil {
		return Empty(), fmt.Errorf("read cart snapshot: %w", err)
	}
	return Decode([]byte(raw))
}

func (p *KVPersister) Save(ctx context.Context, state State) error {
	raw, err := Encode(state)
	if err != nil {
		return err
	}
	return p.store.Set(ctx, p.key, string(raw))
}

// Encode serializes a snapshot.
func Encode(state State) ([]byte, error) {
	if state.Lines == nil {
		state.Lines = []Line{}
	}
	raw, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("encode cart snapshot: %w", err)
	}
	return raw, nil
}

// Decode restores a snapshot. Lines with a non-positive quantity are dropped,
// repeated (product, size) pairs are merged in first-seen position, and the
// aggregates are recomputed from the lines rather than trusted.
func Decode(raw []byte) (State, error) {
	var stored State
	if err := json.Unmarshal(raw, &stored); err != nil {
		return Empty(), fmt.Errorf("decode cart snapshot: %w", err)
	}
	lines := make([]Line, 0, len(stored.Lines))
	index := make(map[LineKey]int, len(stored.Lines))
	for _, line := range stored.Lines {
		if line.Quantity <= 0 {
			continue
		}
		if at, ok := index[line.Key()]; ok {
			lines[at].Quantity += line.Quantity
			continue
		}
		index[line.Key()] = len(lines)
		lines = append(lines, line)
	}
	return withLines(lines), nil
}
