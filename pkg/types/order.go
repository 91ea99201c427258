package types

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/stride-storefront/pkg/enums"
)

// OrderRequest is the payload accepted by the order creation endpoint.
type OrderRequest struct {
	CustomerName    string              `json:"customer_name" validate:"required,max=120"`
	CustomerPhone   string              `json:"customer_phone" validate:"required,max=40"`
	ShippingAddress string              `json:"shipping_address" validate:"required,max=500"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method" validate:"required,payment_method"`
	Notes           string              `json:"notes" validate:"max=1000"`
	Items           []OrderItem         `json:"items" validate:"required,min=1,dive"`
}

// OrderItem is one cart line flattened for submission.
type OrderItem struct {
	ID       uuid.UUID `json:"id" validate:"required"`
	Name     string    `json:"name"`
	Brand    string    `json:"brand"`
	Price    Money     `json:"price"`
	Quantity int       `json:"quantity" validate:"min=1"`
	Size     Size      `json:"size"`
	Image    string    `json:"image"`
}

// OrderCreated is returned by the order creation endpoint.
type OrderCreated struct {
	ID          uuid.UUID         `json:"id"`
	OrderNumber string            `json:"order_number"`
	Total       Money             `json:"total"`
	Status      enums.OrderStatus `json:"status"`
}

// Order is the back-office view of a placed order.
type Order struct {
	ID              uuid.UUID           `json:"id"`
	OrderNumber     string              `json:"order_number"`
	CustomerName    string              `json:"customer_name"`
	CustomerPhone   string              `json:"customer_phone"`
	ShippingAddress string              `json:"shipping_address"`
	PaymentMethod   enums.PaymentMethod `json:"payment_method"`
	Notes           string              `json:"notes,omitempty"`
	Status          enums.OrderStatus   `json:"status"`
	Total           Money               `json:"total"`
	Items           []OrderItem         `json:"items"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type SpecialOrderRequest struct {
	CustomerName  string `json:"customer_name" validate:"required,max=120"`
	CustomerPhone string `json:"customer_phone" validate:"required,max=40"`
	ProductName   string `json:"product_name" validate:"required,max=200"`
	Brand         string `json:"brand" validate:"max=120"`
	Size          Size   `json:"size"`
	Details       string `json:"details" validate:"max=1000"`
}

type SpecialOrder struct {
	ID            uuid.UUID                `json:"id"`
	CustomerName  string                   `json:"customer_name"`
	CustomerPhone string                   `json:"customer_phone"`
	ProductName   string                   `json:"product_name"`
	Brand         string                   `json:"brand,omitempty"`
	Size          Size                     `json:"size"`
	Details       string                   `json:"details,omitempty"`
	Status        enums.SpecialOrderStatus `json:"status"`
	CreatedAt     time.Time                `json:"created_at"`
}

// AnalyticsOverview is the back-office dashboard summary.
type AnalyticsOverview struct {
	OrderCount        int64                       `json:"order_count"`
	Revenue           Money                       `json:"revenue"`
	AverageOrderValue Money                       `json:"average_order_value"`
	ProductCount      int64                       `json:"product_count"`
	LowStockCount     int64                       `json:"low_stock_count"`
	OrdersByStatus    map[enums.OrderStatus]int64 `json:"orders_by_status"`
	TopProducts       []TopProduct                `json:"top_products"`
}

type TopProduct struct {
	ProductID uuid.UUID `json:"product_id"`
	Name      string    `json:"name"`
	Quantity  int64     `json:"quantity"`
	Revenue   Money     `json:"revenue"`
}
