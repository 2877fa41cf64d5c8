package controllers

import (
	"net/http"

	"github.com/fedegimenez/amaro-backend/api/responses"
	"github.com/fedegimenez/amaro-backend/api/validators"
	paymentsvc "github.com/fedegimenez/amaro-backend/internal/payments"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
)

type mercadoPagoCheckoutRequest struct {
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerName    string             `json:"customer_name" validate:"required"`
	CustomerEmail   string             `json:"customer_email" validate:"required,email"`
	CustomerPhone   string             `json:"customer_phone" validate:"required"`
	CustomerDNI     *string            `json:"customer_dni,omitempty"`
	ShippingAddress *string            `json:"shipping_address,omitempty"`
	ShippingMethod  string             `json:"shipping_method" validate:"required,oneof=pickup delivery"`
	Notes           *string            `json:"notes,omitempty"`
}

// MercadoPagoCheckout persists the order and opens a hosted checkout for it.
func MercadoPagoCheckout(svc paymentsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "payments service unavailable"))
			return
		}

		var payload mercadoPagoCheckoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := createOrderRequest{
			Items:           payload.Items,
			CustomerName:    payload.CustomerName,
			CustomerEmail:   payload.CustomerEmail,
			CustomerPhone:   payload.CustomerPhone,
			CustomerDNI:     payload.CustomerDNI,
			ShippingAddress: payload.ShippingAddress,
			ShippingMethod:  payload.ShippingMethod,
			PaymentMethod:   "mercadopago",
			Notes:           payload.Notes,
		}.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		checkout, err := svc.StartCheckout(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, checkout)
	}
}
