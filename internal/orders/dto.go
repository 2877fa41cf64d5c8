package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
)

// ItemInput is one cart line submitted for purchase.
type ItemInput struct {
	ProductID *uuid.UUID
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Image     *string
	Size      *string
	Color     *string
}

// CreateInput carries everything needed to persist a new order.
type CreateInput struct {
	Items           []ItemInput
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	CustomerDNI     *string
	ShippingAddress *string
	ShippingMethod  enums.ShippingMethod
	PaymentMethod   enums.PaymentMethod
	Notes           *string
	UserID          *uuid.UUID
}

// ItemDTO mirrors OrderItem for API responses. The price and total are
// exposed under both the current and the legacy column names; external
// consumers still read the old ones.
type ItemDTO struct {
	ID           uuid.UUID       `json:"id"`
	ProductID    *uuid.UUID      `json:"product_id,omitempty"`
	ProductName  string          `json:"product_name"`
	ProductImage *string         `json:"product_image,omitempty"`
	Size         *string         `json:"size,omitempty"`
	Color        *string         `json:"color,omitempty"`
	Quantity     int             `json:"quantity"`
	Price        decimal.Decimal `json:"price"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Total        decimal.Decimal `json:"total"`
	TotalPrice   decimal.Decimal `json:"total_price"`
}

// OrderDTO mirrors Order for API responses, with the fulfillment status
// exposed under both the current and the legacy field names.
type OrderDTO struct {
	ID              uuid.UUID            `json:"id"`
	OrderNumber     string               `json:"order_number"`
	CustomerName    string               `json:"customer_name"`
	CustomerEmail   string               `json:"customer_email"`
	CustomerPhone   string               `json:"customer_phone"`
	CustomerDNI     *string              `json:"customer_dni,omitempty"`
	ShippingAddress *string              `json:"shipping_address,omitempty"`
	ShippingMethod  enums.ShippingMethod `json:"shipping_method"`
	ShippingCost    decimal.Decimal      `json:"shipping_cost"`
	TotalAmount     decimal.Decimal      `json:"total_amount"`
	PaymentMethod   enums.PaymentMethod  `json:"payment_method"`
	PaymentStatus   enums.PaymentStatus  `json:"payment_status"`
	Status          enums.OrderStatus    `json:"status"`
	OrderStatus     enums.OrderStatus    `json:"order_status"`
	Notes           *string              `json:"notes,omitempty"`
	Items           []ItemDTO            `json:"items"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`
}

// OrderList is one page of orders for the admin panel.
type OrderList struct {
	Orders     []OrderDTO `json:"orders"`
	NextCursor *string    `json:"next_cursor,omitempty"`
}

// ListFilters narrows the admin order listing.
type ListFilters struct {
	Status        *enums.OrderStatus
	PaymentStatus *enums.PaymentStatus
	PaymentMethod *enums.PaymentMethod
}

// ToItemDTO builds the API shape from the persisted snapshot.
func ToItemDTO(item models.OrderItem) ItemDTO {
	return ItemDTO{
		ID:           item.ID,
		ProductID:    item.ProductID,
		ProductName:  item.ProductName,
		ProductImage: item.ProductImage,
		Size:         item.Size,
		Color:        item.Color,
		Quantity:     item.Quantity,
		Price:        item.UnitPrice,
		UnitPrice:    item.UnitPrice,
		Total:        item.Total,
		TotalPrice:   item.Total,
	}
}

// ToOrderDTO builds the API shape from the persisted order.
func ToOrderDTO(order models.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, ToItemDTO(item))
	}
	return OrderDTO{
		ID:              order.ID,
		OrderNumber:     order.OrderNumber,
		CustomerName:    order.CustomerName,
		CustomerEmail:   order.CustomerEmail,
		CustomerPhone:   order.CustomerPhone,
		CustomerDNI:     order.CustomerDNI,
		ShippingAddress: order.ShippingAddress,
		ShippingMethod:  order.ShippingMethod,
		ShippingCost:    order.ShippingCost,
		TotalAmount:     order.TotalAmount,
		PaymentMethod:   order.PaymentMethod,
		PaymentStatus:   order.PaymentStatus,
		Status:          order.Status,
		OrderStatus:     order.Status,
		Notes:           order.Notes,
		Items:           items,
		CreatedAt:       order.CreatedAt,
		UpdatedAt:       order.UpdatedAt,
	}
}
