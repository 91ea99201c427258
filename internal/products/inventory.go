package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/stride-storefront/pkg/db/models"
)

// Inventory exposes stock reads and writes to other domains' transactions.
type Inventory struct {
	repo *Repository
}

func NewInventory(repo *Repository) *Inventory {
	return &Inventory{repo: repo}
}

// Lock loads the products inside tx, taking row locks where the driver supports them.
func (i *Inventory) Lock(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	return i.repo.WithTx(tx).FindForUpdate(ctx, ids)
}

// Adjust changes stock by delta inside tx.
func (i *Inventory) Adjust(ctx context.Context, tx *gorm.DB, productID uuid.UUID, delta int) error {
	return i.repo.WithTx(tx).AdjustStock(ctx, productID, delta)
}
