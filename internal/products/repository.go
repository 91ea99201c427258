package products

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/stride-storefront/pkg/config"
	"github.com/angelmondragon/stride-storefront/pkg/db"
	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// ErrInsufficientStock is returned when a stock decrement would go negative.
var ErrInsufficientStock = errors.New("insufficient stock")

// Repository wires together all product persistence helpers.
type Repository struct {
	db     *gorm.DB
	driver string
}

// NewRepository builds a repository tied to the provided client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{db: client.DB(), driver: client.Driver()}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx, driver: r.driver}
}

// FindByID loads the product with its category.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindForUpdate loads the given products, locking the rows on Postgres.
func (r *Repository) FindForUpdate(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]models.Product{}, nil
	}
	q := r.db.WithContext(ctx)
	if r.driver != config.DriverSQLite {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var rows []models.Product
	if err := q.Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]models.Product, len(rows))
	for _, row := range rows {
		out[row.ID] = row
	}
	return out, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(product).Error
}

// Save persists every column of an existing product row.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(product).Error
}

// Delete removes the product and reports whether a row existed.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AdjustStock adds delta to the product's stock, refusing to go below zero.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	res := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// List returns one filtered page of products plus the unpaginated total.
func (r *Repository) List(ctx context.Context, f ListFilters) ([]models.Product, int64, error) {
	var total int64
	if err := r.filtered(ctx, f).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := f.Pagination.Normalize()
	direction := "ASC"
	if f.Descending {
		direction = "DESC"
	}

	var rows []models.Product
	err := r.filtered(ctx, f).
		Preload("Category").
		Order(f.sortColumn() + " " + direction).
		Order("products.id ASC").
		Limit(page.Limit).
		Offset(page.Offset()).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

func (r *Repository) filtered(ctx context.Context, f ListFilters) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if term := strings.ToLower(strings.TrimSpace(f.Search)); term != "" {
		like := "%" + term + "%"
		q = q.Where("(LOWER(products.name) LIKE ? OR LOWER(products.brand) LIKE ? OR LOWER(products.description) LIKE ?)", like, like, like)
	}
	if brand := strings.TrimSpace(f.Brand); brand != "" {
		q = q.Where("LOWER(products.brand) = ?", strings.ToLower(brand))
	}
	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}
	if slug := strings.TrimSpace(f.CategorySlug); slug != "" {
		q = q.Where("products.category_id IN (SELECT id FROM categories WHERE slug = ?)", slug)
	}
	if f.Type != nil {
		q = q.Where("products.type = ?", *f.Type)
	}
	if f.Size != nil && !f.Size.IsZero() {
		q = q.Where(r.sizeMembershipSQL(), f.Size.String())
	}
	if f.MinPrice != nil {
		q = q.Where("products.price >= ?", f.MinPrice.Decimal)
	}
	if f.MaxPrice != nil {
		q = q.Where("products.price <= ?", f.MaxPrice.Decimal)
	}
	if f.InStock != nil {
		if *f.InStock {
			q = q.Where("products.stock > 0")
		} else {
			q = q.Where("products.stock = 0")
		}
	}
	if f.Featured != nil {
		q = q.Where("products.featured = ?", *f.Featured)
	}
	return q
}

func (r *Repository) sizeMembershipSQL() string {
	if r.driver == config.DriverSQLite {
		return "EXISTS (SELECT 1 FROM json_each(products.sizes) WHERE CAST(json_each.value AS TEXT) = ?)"
	}
	return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(products.sizes) AS s(v) WHERE s.v = ?)"
}

// Brands returns every distinct brand, alphabetically.
func (r *Repository) Brands(ctx context.Context) ([]string, error) {
	var brands []string
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("brand").
		Order("brand ASC").
		Pluck("brand", &brands).Error
	if err != nil {
		return nil, err
	}
	if brands == nil {
		brands = []string{}
	}
	return brands, nil
}

// Facets aggregates the values a catalog filter widget can offer.
func (r *Repository) Facets(ctx context.Context) (types.CatalogFacets, error) {
	brands, err := r.Brands(ctx)
	if err != nil {
		return types.CatalogFacets{}, err
	}

	var typeValues []enums.ProductType
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Distinct("type").
		Order("type ASC").
		Pluck("type", &typeValues).Error; err != nil {
		return types.CatalogFacets{}, err
	}
	if typeValues == nil {
		typeValues = []enums.ProductType{}
	}

	var sizeRows []struct{ Sizes types.Sizes }
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("sizes").
		Find(&sizeRows).Error; err != nil {
		return types.CatalogFacets{}, err
	}
	sizeLists := make([]types.Sizes, 0, len(sizeRows))
	for _, row := range sizeRows {
		sizeLists = append(sizeLists, row.Sizes)
	}

	var bounds struct {
		MinPrice decimal.NullDecimal
		MaxPrice decimal.NullDecimal
	}
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("MIN(price) AS min_price, MAX(price) AS max_price").
		Scan(&bounds).Error; err != nil {
		return types.CatalogFacets{}, err
	}

	facets := types.CatalogFacets{
		Brands:   brands,
		Sizes:    mergeSizes(sizeLists),
		Types:    typeValues,
		MinPrice: types.ZeroMoney,
		MaxPrice: types.ZeroMoney,
	}
	if bounds.MinPrice.Valid {
		facets.MinPrice = types.MoneyFromDecimal(bounds.MinPrice.Decimal)
	}
	if bounds.MaxPrice.Valid {
		facets.MaxPrice = types.MoneyFromDecimal(bounds.MaxPrice.Decimal)
	}
	return facets, nil
}

var labelRank = map[string]int{"XXS": 0, "XS": 1, "S": 2, "M": 3, "L": 4, "XL": 5, "XXL": 6, "XXXL": 7}

// mergeSizes dedupes sizes: numeric sizes ascending, then apparel labels in
// wearing order, then any other label alphabetically.
func mergeSizes(lists []types.Sizes) []types.Size {
	seen := map[types.Size]struct{}{}
	out := []types.Size{}
	for _, list := range lists {
		for _, size := range list {
			if size.IsZero() {
				continue
			}
			if _, ok := seen[size]; ok {
				continue
			}
			seen[size] = struct{}{}
			out = append(out, size)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsNumeric() != b.IsNumeric() {
			return a.IsNumeric()
		}
		if a.IsNumeric() {
			fa, _ := strconv.ParseFloat(a.String(), 64)
			fb, _ := strconv.ParseFloat(b.String(), 64)
			return fa < fb
		}
		ra, aKnown := labelRank[strings.ToUpper(a.String())]
		rb, bKnown := labelRank[strings.ToUpper(b.String())]
		switch {
		case aKnown && bKnown:
			return ra < rb
		case aKnown != bKnown:
			return aKnown
		}
		return a.String() < b.String()
	})
	return out
}

// CategoryExists reports whether a category row exists.
func (r *Repository) CategoryExists(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
