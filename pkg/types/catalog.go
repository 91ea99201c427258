package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/enums"
)

// Product is the catalog record as served by the API and held by cart lines.
type Product struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Brand         string            `json:"brand"`
	Description   string            `json:"description,omitempty"`
	Price         Money             `json:"price"`
	OriginalPrice *Money            `json:"original_price,omitempty"`
	Images        []string          `json:"images"`
	Sizes         Sizes             `json:"sizes"`
	Stock         int               `json:"stock"`
	CategoryID    *uuid.UUID        `json:"category_id,omitempty"`
	Category      string            `json:"category,omitempty"`
	Type          enums.ProductType `json:"type"`
	Featured      bool              `json:"featured"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// FirstImage returns the first image reference, or "" when there is none.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// InStock reports whether at least one unit is available.
func (p Product) InStock() bool {
	return p.Stock > 0
}

type Category struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Description  string    `json:"description,omitempty"`
	Image        string    `json:"image,omitempty"`
	ProductCount int64     `json:"product_count"`
	CreatedAt    time.Time `json:"created_at"`
}

// CatalogFacets describes the values a catalog filter widget can offer.
type CatalogFacets struct {
	Brands   []string            `json:"brands"`
	Sizes    []Size              `json:"sizes"`
	Types    []enums.ProductType `json:"types"`
	MinPrice Money               `json:"min_price"`
	MaxPrice Money               `json:"max_price"`
}
