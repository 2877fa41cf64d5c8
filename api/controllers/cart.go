package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fedegimenez/amaro-backend/api/responses"
	"github.com/fedegimenez/amaro-backend/api/validators"
	cartsvc "github.com/fedegimenez/amaro-backend/internal/cart"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
)

type quoteCartRequest struct {
	Items          []quoteCartItem `json:"items" validate:"required,min=1,dive"`
	ShippingMethod string          `json:"shipping_method" validate:"required,oneof=pickup delivery"`
}

type quoteCartItem struct {
	ProductID string  `json:"product_id" validate:"required,uuid"`
	Name      string  `json:"name" validate:"required"`
	Price     string  `json:"price" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Image     *string `json:"image,omitempty"`
	Size      *string `json:"size,omitempty"`
	Color     *string `json:"color,omitempty"`
}

// QuoteCart recomputes a cart's totals server-side.
func QuoteCart(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		var payload quoteCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toQuoteInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

func (r quoteCartRequest) toQuoteInput() (cartsvc.QuoteInput, error) {
	method, err := enums.ParseShippingMethod(strings.TrimSpace(r.ShippingMethod))
	if err != nil {
		return cartsvc.QuoteInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping method")
	}

	lines := make([]cartsvc.Line, 0, len(r.Items))
	for _, item := range r.Items {
		id, err := uuid.Parse(strings.TrimSpace(item.ProductID))
		if err != nil {
			return cartsvc.QuoteInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		price, err := decimal.NewFromString(strings.TrimSpace(item.Price))
		if err != nil {
			return cartsvc.QuoteInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		lines = append(lines, cartsvc.Line{
			ProductID: id,
			Name:      strings.TrimSpace(item.Name),
			Price:     price,
			Quantity:  item.Quantity,
			Image:     item.Image,
			Size:      item.Size,
			Color:     item.Color,
		})
	}

	return cartsvc.QuoteInput{Lines: lines, ShippingMethod: method}, nil
}
