package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/angelmondragon/stride-storefront/pkg/kv"
)

// PendingStorageKey is the kv key holding the idempotency key of an order
// that was sent but never confirmed.
const PendingStorageKey = "stride-checkout-pending"

// Pending ties an idempotency key to the payload it was minted for.
type Pending struct {
	Key  string `json:"key"`
	Hash string `json:"hash"`
}

// PendingStore keeps the pending submission between flows, so a retry from a
// new process reuses the key of the unconfirmed attempt.
type PendingStore interface {
	Load(ctx context.Context) (Pending, error)
	Save(ctx context.Context, p Pending) error
	Clear(ctx context.Context) error
}

// KVPendingStore stores the pending submission as JSON under PendingStorageKey.
type KVPendingStore struct {
	store kv.Store
}

func NewKVPendingStore(store kv.Store) *KVPendingStore {
	return &KVPendingStore{store: store}
}

// Load returns a zero Pending when nothing is stored.
func (s *KVPendingStore) Load(ctx context.Context) (Pending, error) {
	raw, err := s.store.Get(ctx, PendingStorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return Pending{}, nil
	}
	if err != nil {
		return Pending{}, fmt.Errorf("read pending checkout: %w", err)
	}
	var p Pending
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Pending{}, fmt.Errorf("decode pending checkout: %w", err)
	}
	return p, nil
}

func (s *KVPendingStore) Save(ctx context.Context, p Pending) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode pending checkout: %w", err)
	}
	return s.store.Set(ctx, PendingStorageKey, string(raw))
}

func (s *KVPendingStore) Clear(ctx context.Context) error {
	err := s.store.Delete(ctx, PendingStorageKey)
	if errors.Is(err, kv.ErrNotFound) {
		return nil
	}
	return err
}
