package products

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	pkgerrors "github.com/angelmondragon/stride-storefront/pkg/errors"
	"github.com/angelmondragon/stride-storefront/pkg/pagination"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// Service exposes catalog reads for the storefront and product management for admins.
type Service interface {
	List(ctx context.Context, filters ListFilters) (*ListResult, error)
	Get(ctx context.Context, id uuid.UUID) (*types.Product, error)
	Create(ctx context.Context, input CreateProductInput) (*types.Product, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*types.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Brands(ctx context.Context) ([]string, error)
	Facets(ctx context.Context) (*types.CatalogFacets, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a product service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filters ListFilters) (*ListResult, error) {
	if filters.MinPrice != nil && filters.MaxPrice != nil && filters.MaxPrice.LessThan(*filters.MinPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_price cannot exceed max_price")
	}
	filters.Pagination = filters.Pagination.Normalize()

	rows, total, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	items := make([]types.Product, 0, len(rows))
	for _, row := range rows {
		items = append(items, ToDTO(row))
	}
	page := pagination.NewPage(items, total, filters.Pagination)
	return &page, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*types.Product, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	dto := ToDTO(*row)
	return &dto, nil
}

func (s *service) Create(ctx context.Context, input CreateProductInput) (*types.Product, error) {
	if err := validatePricing(&input.Price, input.OriginalPrice); err != nil {
		return nil, err
	}
	sizes, err := normalizeSizes(input.Sizes)
	if err != nil {
		return nil, err
	}
	if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
		return nil, err
	}

	row := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		Brand:         strings.TrimSpace(input.Brand),
		Description:   strings.TrimSpace(input.Description),
		Price:         input.Price.Decimal,
		OriginalPrice: decimalPtr(input.OriginalPrice),
		Images:        types.StringList(input.Images),
		Sizes:         sizes,
		Stock:         input.Stock,
		CategoryID:    input.CategoryID,
		Type:          input.Type,
		Featured:      input.Featured,
	}
	if row.Images == nil {
		row.Images = types.StringList{}
	}

	if err := s.repo.Create(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}
	return s.Get(ctx, row.ID)
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*types.Product, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if input.Name != nil {
		row.Name = strings.TrimSpace(*input.Name)
	}
	if input.Brand != nil {
		row.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Description != nil {
		row.Description = strings.TrimSpace(*input.Description)
	}
	if input.Price != nil {
		row.Price = input.Price.Decimal
	}
	switch {
	case input.ClearOriginal:
		row.OriginalPrice = nil
	case input.OriginalPrice != nil:
		row.OriginalPrice = decimalPtr(input.OriginalPrice)
	}
	if input.Images != nil {
		row.Images = types.StringList(*input.Images)
		if row.Images == nil {
			row.Images = types.StringList{}
		}
	}
	if input.Sizes != nil {
		sizes, err := normalizeSizes(*input.Sizes)
		if err != nil {
			return nil, err
		}
		row.Sizes = sizes
	}
	if input.Stock != nil {
		row.Stock = *input.Stock
	}
	switch {
	case input.ClearCategory:
		row.CategoryID = nil
	case input.CategoryID != nil:
		if err := s.ensureCategory(ctx, input.CategoryID); err != nil {
			return nil, err
		}
		row.CategoryID = input.CategoryID
	}
	if input.Type != nil {
		row.Type = *input.Type
	}
	if input.Featured != nil {
		row.Featured = *input.Featured
	}

	price := types.MoneyFromDecimal(row.Price)
	var original *types.Money
	if row.OriginalPrice != nil {
		o := types.MoneyFromDecimal(*row.OriginalPrice)
		original = &o
	}
	if err := validatePricing(&price, original); err != nil {
		return nil, err
	}

	row.Category = nil
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return s.Get(ctx, id)
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	found, err := s.repo.Delete(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) Brands(ctx context.Context) ([]string, error) {
	brands, err := s.repo.Brands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return brands, nil
}

func (s *service) Facets(ctx context.Context) (*types.CatalogFacets, error) {
	facets, err := s.repo.Facets(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load catalog facets")
	}
	return &facets, nil
}

func (s *service) ensureCategory(ctx context.Context, id *uuid.UUID) error {
	if id == nil {
		return nil
	}
	ok, err := s.repo.CategoryExists(ctx, *id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check category")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeValidation, "category does not exist").
			WithDetails(map[string]string{"category_id": "unknown category"})
	}
	return nil
}

func validatePricing(price, original *types.Money) error {
	if price == nil || !price.IsPositive() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be greater than zero").
			WithDetails(map[string]string{"price": "must be greater than zero"})
	}
	if original != nil && original.LessThan(*price) {
		return pkgerrors.New(pkgerrors.CodeValidation, "original_price cannot be below price").
			WithDetails(map[string]string{"original_price": "must be at least price"})
	}
	return nil
}

func normalizeSizes(in types.Sizes) (types.Sizes, error) {
	out := make(types.Sizes, 0, len(in))
	for i, size := range in {
		if size.IsZero() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "sizes cannot contain blanks").
				WithDetails(map[string]string{fmt.Sprintf("sizes[%d]", i): "is required"})
		}
		if out.Contains(size) {
			continue
		}
		out = append(out, size)
	}
	return out, nil
}
