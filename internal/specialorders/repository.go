package specialorders

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client.DB()}
}

func (r *Repository) Create(ctx context.Context, row *models.SpecialOrder) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SpecialOrder, error) {
	var row models.SpecialOrder
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *Repository) List(ctx context.Context, filters ListFilters) ([]models.SpecialOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.SpecialOrder{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if term := strings.ToLower(strings.TrimSpace(filters.Search)); term != "" {
		like := "%" + term + "%"
		query = query.Where("LOWER(customer_name) LIKE ? OR LOWER(product_name) LIKE ? OR customer_phone LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.SpecialOrder
	err := query.
		Order("created_at DESC").
		Order("id ASC").
		Limit(filters.Pagination.Limit).
		Offset(filters.Pagination.Offset()).
		Find(&rows).Error
	return rows, total, err
}

// UpdateStatus moves a request only if it is still in the expected status.
func (r *Repository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to enums.SpecialOrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.SpecialOrder{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}
