package orders

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
)

const (
	orderSequence      = "orders"
	orderSequenceStart = 1000
)

// Repository persists orders and their line items.
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

// NextOrderNumber increments the order sequence and returns the new value.
// It must run inside the transaction that inserts the order.
func (r *Repository) NextOrderNumber(ctx context.Context) (string, error) {
	conn := r.db.WithContext(ctx)
	seed := models.Sequence{Name: orderSequence, Value: orderSequenceStart}
	if err := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return "", err
	}
	if err := conn.Model(&models.Sequence{}).
		Where("name = ?", orderSequence).
		Update("value", gorm.Expr("value + 1")).Error; err != nil {
		return "", err
	}
	var value int64
	if err := conn.Model(&models.Sequence{}).
		Where("name = ?", orderSequence).
		Pluck("value", &value).Error; err != nil {
		return "", err
	}
	return strconv.FormatInt(value, 10), nil
}

func (r *Repository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *Repository) FindByNumber(ctx context.Context, number string) (*models.Order, error) {
	return r.findOne(ctx, "order_number = ?", number)
}

func (r *Repository) findOne(ctx context.Context, query string, arg any) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Where(query, arg).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *Repository) List(ctx context.Context, f ListFilters) ([]models.Order, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Pagination.Normalize()
	var rows []models.Order
	err := r.filtered(ctx, f).
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("position ASC") }).
		Order("created_at DESC").
		Order("order_number DESC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) filtered(ctx context.Context, f ListFilters) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Order{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("(order_number LIKE ? OR LOWER(customer_name) LIKE ? OR customer_phone LIKE ?)", like, like, like)
	}
	return q
}

// FindPendingBefore returns up to limit pending orders placed before cutoff,
// oldest first.
func (r *Repository) FindPendingBefore(ctx context.Context, cutoff time.Time, limit int) ([]models.Order, error) {
	var rows []models.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", enums.OrderStatusPending, cutoff.UTC()).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

// TransitionStatus moves the order from one status to another, reporting false
// when the order was no longer in the expected status.
func (r *Repository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to enums.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
