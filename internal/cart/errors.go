package cart

import "errors"

var (
	// ErrInvalidQuantity is returned by AddChecked for quantities below one.
	ErrInvalidQuantity = errors.New("cart: quantity must be at least 1")
	// ErrSizeUnavailable is returned by AddChecked when the product does not
	// list the requested size.
	ErrSizeUnavailable = errors.New("cart: size not offered for product")
)
