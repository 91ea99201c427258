package enums

import "fmt"

// ProductType groups catalog items by how they are sized.
type ProductType string

const (
	ProductTypeShoes       ProductType = "shoes"
	ProductTypeClothing    ProductType = "clothing"
	ProductTypeAccessories ProductType = "accessories"
)

var validProductTypes = []ProductType{
	ProductTypeShoes,
	ProductTypeClothing,
	ProductTypeAccessories,
}

// String implements fmt.Stringer.
func (p ProductType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductType.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductType converts raw input into a ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}

// ProductSort is a catalog list ordering key.
type ProductSort string

const (
	ProductSortName      ProductSort = "name"
	ProductSortPrice     ProductSort = "price"
	ProductSortCreatedAt ProductSort = "created_at"
	ProductSortStock     ProductSort = "stock"
)

var validProductSorts = []ProductSort{
	ProductSortName,
	ProductSortPrice,
	ProductSortCreatedAt,
	ProductSortStock,
}

// IsValid reports whether the value is a known ProductSort.
func (p ProductSort) IsValid() bool {
	for _, candidate := range validProductSorts {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseProductSort converts raw input into a ProductSort.
func ParseProductSort(value string) (ProductSort, error) {
	for _, candidate := range validProductSorts {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sort %q", value)
}
