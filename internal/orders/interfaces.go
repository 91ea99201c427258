package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/stride-storefront/pkg/db/models"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Inventory locks catalog rows and moves stock inside an order transaction.
type Inventory interface {
	Lock(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
	Adjust(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int) error
}
