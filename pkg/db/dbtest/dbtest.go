// Package dbtest opens migrated in-memory databases for repository tests.
package dbtest

import (
	"context"
	"testing"

	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/migrate"
)

// New returns a private sqlite database with every migration applied.
func New(t testing.TB) *db.Client {
	t.Helper()

	client, err := db.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	if err := migrate.Up(context.Background(), client); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return client
}
