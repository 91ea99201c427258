package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/stride-storefront/pkg/kv"
)

// CredentialsKey is the kv entry holding the admin session.
const CredentialsKey = "stride-admin-session"

// Credentials is the persisted admin session.
type Credentials struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
	Email       string    `json:"email"`
}

// Expired reports whether the token is past its expiry at now.
func (c Credentials) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// CredentialStore persists the admin session between invocations.
type CredentialStore interface {
	Load(ctx context.Context) (*Credentials, error)
	Save(ctx context.Context, creds Credentials) error
	Clear(ctx context.Context) error
}

// KVCredentials keeps credentials as JSON under CredentialsKey.
type KVCredentials struct {
	store kv.Store
	now   func() time.Time
}

func NewKVCredentials(store kv.Store) *KVCredentials {
	return &KVCredentials{store: store, now: time.Now}
}

// Load returns nil when nothing is stored or the token already expired.
func (k *KVCredentials) Load(ctx context.Context) (*Credentials, error) {
	raw, err := k.store.Get(ctx, CredentialsKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var creds Credentials
	if err := json.Unmarshal([]byte(raw), &creds); err != nil {
		return nil, fmt.Errorf("decode stored credentials: %w", err)
	}
	if creds.Expired(k.now()) {
		return nil, nil
	}
	return &creds, nil
}

func (k *KVCredentials) Save(ctx context.Context, creds Credentials) error {
	payload, err := json.Marshal(creds)
	if err != nil {
		return err
	}
	return k.store.Set(ctx, CredentialsKey, string(payload))
}

func (k *KVCredentials) Clear(ctx context.Context) error {
	if err := k.store.Delete(ctx, CredentialsKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		return err
	}
	return nil
}
