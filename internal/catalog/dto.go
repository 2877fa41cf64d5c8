package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fedegimenez/amaro-backend/pkg/db/models"
)

// ListParams narrows a catalog listing. Only active rows are ever returned.
type ListParams struct {
	Search      string
	Brand       string
	Category    string
	Subcategory string
	Featured    bool
	Limit       int
	Cursor      string
}

// ProductDTO is one variant row as exposed to the storefront.
type ProductDTO struct {
	ID                 uuid.UUID       `json:"id"`
	ZureoCode          string          `json:"zureo_code"`
	Name               string          `json:"name"`
	Color              *string         `json:"color,omitempty"`
	Size               *string         `json:"size,omitempty"`
	Price              decimal.Decimal `json:"price"`
	EffectivePrice     decimal.Decimal `json:"effective_price"`
	DiscountPercentage int             `json:"discount_percentage"`
	StockQuantity      int             `json:"stock_quantity"`
	Brand              *string         `json:"brand,omitempty"`
	Category           *string         `json:"category,omitempty"`
	Subcategory        *string         `json:"subcategory,omitempty"`
	ImageURL           *string         `json:"image_url,omitempty"`
	Images             []string        `json:"images,omitempty"`
	IsFeatured         bool            `json:"is_featured"`
}

// ProductList is one storefront catalog page.
type ProductList struct {
	Products   []ProductDTO `json:"products"`
	NextCursor *string      `json:"next_cursor,omitempty"`
}

// VariantDTO is one sibling row in a product detail aggregate.
type VariantDTO struct {
	ID            uuid.UUID `json:"id"`
	Color         *string   `json:"color,omitempty"`
	Size          *string   `json:"size,omitempty"`
	StockQuantity int       `json:"stock_quantity"`
}

// ProductDetail aggregates all variants sharing a zureo_code around one
// representative row, so the product page can offer color/size selection.
type ProductDetail struct {
	ProductDTO
	Variants []VariantDTO `json:"variants"`
	Colors   []string     `json:"colors"`
	Sizes    []string     `json:"sizes"`
}

// ToProductDTO maps the persisted variant into its API shape.
func ToProductDTO(p models.Product) ProductDTO {
	return ProductDTO{
		ID:                 p.ID,
		ZureoCode:          p.ZureoCode,
		Name:               p.DisplayName(),
		Color:              p.Color,
		Size:               p.Size,
		Price:              p.Price,
		EffectivePrice:     p.EffectivePrice(),
		DiscountPercentage: p.DiscountPercentage,
		StockQuantity:      p.StockQuantity,
		Brand:              p.Brand,
		Category:           p.Category,
		Subcategory:        p.Subcategory,
		ImageURL:           p.ImageURL,
		Images:             p.Images,
		IsFeatured:         p.IsFeatured,
	}
}
