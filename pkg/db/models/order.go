package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fedegimenez/amaro-backend/pkg/enums"
)

// Order is the purchase transaction header. PaymentStatus and Status are the
// only fields mutated after creation, by the payment webhook or an admin
// status update.
type Order struct {
	ID              uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber     string               `gorm:"column:order_number;not null;uniqueIndex"`
	CustomerName    string               `gorm:"column:customer_name;not null"`
	CustomerEmail   string               `gorm:"column:customer_email;not null"`
	CustomerPhone   string               `gorm:"column:customer_phone;not null"`
	CustomerDNI     *string              `gorm:"column:customer_dni"`
	ShippingAddress *string              `gorm:"column:shipping_address"`
	ShippingMethod  enums.ShippingMethod `gorm:"column:shipping_method;type:text;not null;default:'pickup'"`
	ShippingCost    decimal.Decimal      `gorm:"column:shipping_cost;type:numeric(12,2);not null"`
	TotalAmount     decimal.Decimal      `gorm:"column:total_amount;type:numeric(12,2);not null"`
	PaymentMethod   enums.PaymentMethod  `gorm:"column:payment_method;type:text;not null;default:'cash'"`
	PaymentStatus   enums.PaymentStatus  `gorm:"column:payment_status;type:text;not null;default:'pending'"`
	Status          enums.OrderStatus    `gorm:"column:status;type:text;not null;default:'pending'"`
	Notes           *string              `gorm:"column:notes"`
	UserID          *uuid.UUID           `gorm:"column:user_id;type:uuid"`
	Items           []OrderItem          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
