package orders

import (
	"github.com/angelmondragon/stride-storefront/pkg/db/models"
	"github.com/angelmondragon/stride-storefront/pkg/enums"
	"github.com/angelmondragon/stride-storefront/pkg/pagination"
	"github.com/angelmondragon/stride-storefront/pkg/types"
)

// ListFilters narrow the back-office order list.
type ListFilters struct {
	Status     *enums.OrderStatus
	Search     string
	Pagination pagination.Params
}

// UpdateStatusInput is the admin payload for a status change.
type UpdateStatusInput struct {
	Status enums.OrderStatus `json:"status" validate:"required,order_status"`
}

type ListResult = types.Page[types.Order]

func toDTO(o models.Order) types.Order {
	items := make([]types.OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		size, _ := types.ParseSize(item.Size)
		items = append(items, types.OrderItem{
			ID:       item.ProductID,
			Name:     item.Name,
			Brand:    item.Brand,
			Price:    types.MoneyFromDecimal(item.UnitPrice),
			Quantity: item.Quantity,
			Size:     size,
			Image:    item.Image,
		})
	}
	return types.Order{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		ShippingAddress: o.ShippingAddress,
		PaymentMethod:   o.PaymentMethod,
		Notes:           o.Notes,
		Status:          o.Status,
		Total:           types.MoneyFromDecimal(o.Total),
		Items:           items,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}
