package checkout

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/angelmondragon/stride-storefront/internal/cart"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// BuildOrder turns the trimmed form and a cart snapshot into the order payload.
func BuildOrder(form Form, state cart.State) types.OrderRequest {
	f := form.Trimmed()
	items := make([]types.OrderItem, 0, len(state.Lines))
	for _, line := range state.Lines {
		items = append(items, types.OrderItem{
			ID:       line.Product.ID,
			Name:     line.Product.Name,
			Brand:    line.Product.Brand,
			Price:    line.Product.Price,
			Quantity: line.Quantity,
			Size:     line.Size,
			Image:    line.Product.FirstImage(),
		})
	}
	return types.OrderRequest{
		CustomerName:    f.CustomerName,
		CustomerPhone:   f.CustomerPhone,
		ShippingAddress: f.ShippingAddress,
		PaymentMethod:   f.PaymentMethod,
		Notes:           f.Notes,
		Items:           items,
	}
}

func payloadHash(req types.OrderRequest) string {
	raw, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
