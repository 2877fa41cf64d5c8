package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product is one purchasable variant synced from the Zureo feed. Rows sharing
// a ZureoCode are color/size variants of the same garment.
type Product struct {
	ID                 uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ZureoCode          string           `gorm:"column:zureo_code;not null;index"`
	Name               string           `gorm:"column:name;not null"`
	CustomName         *string          `gorm:"column:custom_name"`
	Color              *string          `gorm:"column:color"`
	Size               *string          `gorm:"column:size"`
	Price              decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null"`
	StockQuantity      int              `gorm:"column:stock_quantity;not null;default:0"`
	Brand              *string          `gorm:"column:brand;index"`
	Category           *string          `gorm:"column:category;index"`
	Subcategory        *string          `gorm:"column:subcategory"`
	ImageURL           *string          `gorm:"column:image_url"`
	Images             pq.StringArray   `gorm:"column:images;type:text[]"`
	IsActive           bool             `gorm:"column:is_active;not null;default:true"`
	IsFeatured         bool             `gorm:"column:is_featured;not null;default:false"`
	DiscountPercentage int              `gorm:"column:discount_percentage;not null;default:0"`
	SalePrice          *decimal.Decimal `gorm:"column:sale_price;type:numeric(12,2)"`
	CreatedAt          time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// DisplayName prefers the store's override over the raw ERP name.
func (p Product) DisplayName() string {
	if p.CustomName != nil && *p.CustomName != "" {
		return *p.CustomName
	}
	return p.Name
}

// EffectivePrice returns the sale price while a discount is active.
func (p Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPercentage > 0 && p.SalePrice != nil {
		return *p.SalePrice
	}
	return p.Price
}
