package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// Product is a catalog listing.
type Product struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	Name          string            `gorm:"column:name;not null"`
	Brand         string            `gorm:"column:brand;not null"`
	Description   string            `gorm:"column:description;not null;default:''"`
	Price         decimal.Decimal   `gorm:"column:price;type:numeric(12,2);not null"`
	OriginalPrice *decimal.Decimal  `gorm:"column:original_price;type:numeric(12,2)"`
	Images        types.StringList  `gorm:"column:images;not null"`
	Sizes         types.Sizes       `gorm:"column:sizes;not null"`
	Stock         int               `gorm:"column:stock;not null;default:0"`
	CategoryID    *uuid.UUID        `gorm:"column:category_id;type:uuid"`
	Category      *Category         `gorm:"foreignKey:CategoryID"`
	Type          enums.ProductType `gorm:"column:type;not null"`
	Featured      bool              `gorm:"column:featured;not null;default:false"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
