package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fedegimenez/amaro-backend/api/responses"
	"github.com/fedegimenez/amaro-backend/api/validators"
	"github.com/fedegimenez/amaro-backend/internal/notifications"
	ordersvc "github.com/fedegimenez/amaro-backend/internal/orders"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
)

type orderItemRequest struct {
	ProductID *string `json:"product_id,omitempty" validate:"omitempty,uuid"`
	Name      string  `json:"name" validate:"required"`
	Price     string  `json:"price" validate:"required"`
	Quantity  int     `json:"quantity" validate:"required,min=1"`
	Image     *string `json:"image,omitempty"`
	Size      *string `json:"size,omitempty"`
	Color     *string `json:"color,omitempty"`
}

type createOrderRequest struct {
	Items           []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	CustomerName    string             `json:"customer_name" validate:"required"`
	CustomerEmail   string             `json:"customer_email" validate:"required,email"`
	CustomerPhone   string             `json:"customer_phone" validate:"required"`
	CustomerDNI     *string            `json:"customer_dni,omitempty"`
	ShippingAddress *string            `json:"shipping_address,omitempty"`
	ShippingMethod  string             `json:"shipping_method" validate:"required,oneof=pickup delivery"`
	PaymentMethod   string             `json:"payment_method" validate:"required,oneof=cash transfer mercadopago"`
	Notes           *string            `json:"notes,omitempty"`
}

// CreateOrder persists a new order and its item snapshots.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toCreateInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ordersvc.ToOrderDTO(*order))
	}
}

// OrderDetail serves one order by id for the post-checkout status page.
func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := validators.ParseUUIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Detail(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

type sendInvoiceRequest struct {
	OrderID string `json:"order_id" validate:"required,uuid"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
}

// SendInvoice emails an order's invoice on demand.
func SendInvoice(svc ordersvc.Service, notifier notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || notifier == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice service unavailable"))
			return
		}

		var payload sendInvoiceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		id, err := uuid.Parse(strings.TrimSpace(payload.OrderID))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order id"))
			return
		}

		order, err := svc.Find(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := notifier.SendInvoice(r.Context(), order, payload.Email); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "sent"})
	}
}

func (r createOrderRequest) toCreateInput() (ordersvc.CreateInput, error) {
	shipping, err := enums.ParseShippingMethod(strings.TrimSpace(r.ShippingMethod))
	if err != nil {
		return ordersvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid shipping method")
	}
	payment, err := enums.ParsePaymentMethod(strings.TrimSpace(r.PaymentMethod))
	if err != nil {
		return ordersvc.CreateInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method")
	}

	items, err := toItemInputs(r.Items)
	if err != nil {
		return ordersvc.CreateInput{}, err
	}

	return ordersvc.CreateInput{
		Items:           items,
		CustomerName:    strings.TrimSpace(r.CustomerName),
		CustomerEmail:   strings.TrimSpace(r.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(r.CustomerPhone),
		CustomerDNI:     r.CustomerDNI,
		ShippingAddress: r.ShippingAddress,
		ShippingMethod:  shipping,
		PaymentMethod:   payment,
		Notes:           r.Notes,
	}, nil
}

func toItemInputs(items []orderItemRequest) ([]ordersvc.ItemInput, error) {
	result := make([]ordersvc.ItemInput, 0, len(items))
	for _, item := range items {
		price, err := decimal.NewFromString(strings.TrimSpace(item.Price))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}

		var productID *uuid.UUID
		if item.ProductID != nil && strings.TrimSpace(*item.ProductID) != "" {
			parsed, err := uuid.Parse(strings.TrimSpace(*item.ProductID))
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
			}
			productID = &parsed
		}

		result = append(result, ordersvc.ItemInput{
			ProductID: productID,
			Name:      strings.TrimSpace(item.Name),
			Price:     price,
			Quantity:  item.Quantity,
			Image:     item.Image,
			Size:      item.Size,
			Color:     item.Color,
		})
	}
	return result, nil
}
