package products

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/pagination"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// ListFilters describe the supported filter knobs for the browse endpoint.
type ListFilters struct {
	Search       string
	Brand        string
	CategoryID   *uuid.UUID
	CategorySlug string
	Type         *enums.ProductType
	Size         *types.Size
	MinPrice     *types.Money
	MaxPrice     *types.Money
	InStock      *bool
	Featured     *bool
	Sort         enums.ProductSort
	Descending   bool
	Pagination   pagination.Params
}

// ListResult is one page of catalog products.
type ListResult = types.Page[types.Product]

func (f ListFilters) sortColumn() string {
	switch f.Sort {
	case enums.ProductSortName:
		return "products.name"
	case enums.ProductSortPrice:
		return "products.price"
	case enums.ProductSortStock:
		return "products.stock"
	default:
		return "products.created_at"
	}
}
