package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/stride-storefront/pkg/db"
)

// Entry is one row of the kv_entries table.
type Entry struct {
	Key       string    `gorm:"column:entry_key;primaryKey"`
	Value     string    `gorm:"column:value;type:text;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Entry) TableName() string { return "kv_entries" }

// SQLite persists entries in a local database file.
type SQLite struct {
	client *db.Client
}

// OpenSQLite opens (creating if needed) the database at path.
func OpenSQLite(ctx context.Context, path string) (*SQLite, error) {
	client, err := db.OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	store, err := NewSQLite(ctx, client)
	if err != nil {
		return nil, multierr.Append(err, client.Close())
	}
	return store, nil
}

// NewSQLite wraps an open connection and ensures the table exists.
func NewSQLite(ctx context.Context, client *db.Client) (*SQLite, error) {
	if client == nil {
		return nil, errors.New("db client required")
	}
	if err := client.DB().WithContext(ctx).AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &SQLite{client: client}, nil
}

func (s *SQLite) Get(ctx context.Context, key string) (string, error) {
	var entry Entry
	err := s.client.DB().WithContext(ctx).Where("entry_key = ?", key).Take(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (s *SQLite) Set(ctx context.Context, key, value string) error {
	entry := Entry{Key: key, Value: value}
	return s.client.DB().WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entry_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *SQLite) Delete(ctx context.Context, key string) error {
	return s.client.DB().WithContext(ctx).Where("entry_key = ?", key).Delete(&Entry{}).Error
}

func (s *SQLite) Close() error {
	return s.client.Close()
}
