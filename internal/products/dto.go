package products

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// CreateProductInput is the validated admin payload for a new product.
type CreateProductInput struct {
	Name          string            `json:"name" validate:"required,notblank,max=200"`
	Brand         string            `json:"brand" validate:"required,notblank,max=120"`
	Description   string            `json:"description" validate:"max=5000"`
	Price         types.Money       `json:"price"`
	OriginalPrice *types.Money      `json:"original_price"`
	Images        []string          `json:"images" validate:"max=20,dive,required,max=2048"`
	Sizes         types.Sizes       `json:"sizes"`
	Stock         int               `json:"stock" validate:"min=0"`
	CategoryID    *uuid.UUID        `json:"category_id"`
	Type          enums.ProductType `json:"type" validate:"required,product_type"`
	Featured      bool              `json:"featured"`
}

// UpdateProductInput carries optional admin changes; nil fields are left alone.
type UpdateProductInput struct {
	Name          *string            `json:"name" validate:"omitempty,notblank,max=200"`
	Brand         *string            `json:"brand" validate:"omitempty,notblank,max=120"`
	Description   *string            `json:"description" validate:"omitempty,max=5000"`
	Price         *types.Money       `json:"price"`
	OriginalPrice *types.Money       `json:"original_price"`
	ClearOriginal bool               `json:"clear_original_price"`
	Images        *[]string          `json:"images" validate:"omitempty,max=20,dive,required,max=2048"`
	Sizes         *types.Sizes       `json:"sizes"`
	Stock         *int               `json:"stock" validate:"omitempty,min=0"`
	CategoryID    *uuid.UUID         `json:"category_id"`
	ClearCategory bool               `json:"clear_category"`
	Type          *enums.ProductType `json:"type" validate:"omitempty,product_type"`
	Featured      *bool              `json:"featured"`
}

// ToDTO maps a product row onto its wire shape.
func ToDTO(p models.Product) types.Product {
	dto := types.Product{
		ID:          p.ID,
		Name:        p.Name,
		Brand:       p.Brand,
		Description: p.Description,
		Price:       types.MoneyFromDecimal(p.Price),
		Images:      []string(p.Images),
		Sizes:       p.Sizes,
		Stock:       p.Stock,
		CategoryID:  p.CategoryID,
		Type:        p.Type,
		Featured:    p.Featured,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.OriginalPrice != nil {
		original := types.MoneyFromDecimal(*p.OriginalPrice)
		dto.OriginalPrice = &original
	}
	if p.Category != nil {
		dto.Category = p.Category.Name
	}
	if dto.Images == nil {
		dto.Images = []string{}
	}
	if dto.Sizes == nil {
		dto.Sizes = types.Sizes{}
	}
	return dto
}

func decimalPtr(m *types.Money) *decimal.Decimal {
	if m == nil {
		return nil
	}
	d := m.Decimal
	return &d
}
