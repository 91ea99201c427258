package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/stride-storefront/pkg/enums"
)

// SpecialOrder is a customer request for an item outside the catalog.
type SpecialOrder struct {
	ID            uuid.UUID                `gorm:"column:id;type:uuid;primaryKey"`
	CustomerName  string                   `gorm:"column:customer_name;not null"`
	CustomerPhone string                   `gorm:"column:customer_phone;not null"`
	ProductName   string                   `gorm:"column:product_name;not null"`
	Brand         string                   `gorm:"column:brand;not null;default:''"`
	Size          string                   `gorm:"column:size;not null;default:''"`
	Details       string                   `gorm:"column:details;not null;default:''"`
	Status        enums.SpecialOrderStatus `gorm:"column:status;not null"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *SpecialOrder) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
