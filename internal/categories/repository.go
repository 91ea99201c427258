package categories

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/db/models"
)

// Repository persists categories.
type Repository struct {
	db *gorm.DB
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client.DB()}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// categoryRow is a category plus its product count.
type categoryRow struct {
	models.Category
	ProductCount int64
}

const countedSelect = "categories.*, (SELECT COUNT(*) FROM products WHERE products.category_id = categories.id) AS product_count"

func (r *Repository) List(ctx context.Context) ([]categoryRow, error) {
	var rows []categoryRow
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select(countedSelect).
		Order("categories.name ASC").
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*categoryRow, error) {
	return r.findOne(ctx, "categories.id = ?", id)
}

func (r *Repository) FindBySlug(ctx context.Context, slug string) (*categoryRow, error) {
	return r.findOne(ctx, "categories.slug = ?", slug)
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*categoryRow, error) {
	var rows []categoryRow
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Select(countedSelect).
		Where(query, arg).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &rows[0], nil
}

func (r *Repository) SlugTaken(ctx context.Context, slug string, except *uuid.UUID) (bool, error) {
	q := r.db.WithContext(ctx).Model(&models.Category{}).Where("slug = ?", slug)
	if except != nil {
		q = q.Where("id <> ?", *except)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) Create(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *Repository) Save(ctx context.Context, category *models.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Category{}, "id = ?", id).Error
}
