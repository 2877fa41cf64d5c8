package cart

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fedegimenez/amaro-backend/pkg/config"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
)

// QuoteInput carries the client's cart lines plus the chosen shipping method.
type QuoteInput struct {
	Lines          []Line
	ShippingMethod enums.ShippingMethod
}

// Quote is the server-side recomputation of a cart's totals.
type Quote struct {
	Lines        []Line          `json:"lines"`
	ItemCount    int             `json:"item_count"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingCost decimal.Decimal `json:"shipping_cost"`
	Total        decimal.Decimal `json:"total"`
}

// Service recomputes cart totals server-side so the storefront never trusts
// client math.
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*Quote, error)
}

type service struct {
	shipping config.ShippingConfig
}

// NewService builds the cart quoting service.
func NewService(shipping config.ShippingConfig) Service {
	return &service{shipping: shipping}
}

func (s *service) Quote(_ context.Context, input QuoteInput) (*Quote, error) {
	c := New()
	for _, line := range input.Lines {
		if line.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "el precio del producto no puede ser negativo")
		}
		c.AddItem(line, line.Quantity)
	}

	shippingCost := decimal.Zero
	if input.ShippingMethod == enums.ShippingMethodDelivery {
		shippingCost = s.shipping.DeliveryFeeAmount()
	}

	return &Quote{
		Lines:        c.Lines,
		ItemCount:    c.ItemCount,
		Subtotal:     c.Total,
		ShippingCost: shippingCost,
		Total:        c.Total.Add(shippingCost),
	}, nil
}
