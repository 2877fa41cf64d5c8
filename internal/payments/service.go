package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/fedegimenez/amaro-backend/internal/orders"
	"github.com/fedegimenez/amaro-backend/pkg/config"
	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
	"github.com/fedegimenez/amaro-backend/pkg/mercadopago"
)

// CheckoutDTO is the hosted checkout session returned to the storefront.
type CheckoutDTO struct {
	ID          string    `json:"id"`
	OrderID     uuid.UUID `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	InitPoint   string    `json:"init_point"`
}

// Service starts MercadoPago checkouts. The order is persisted first, so a
// gateway failure still leaves a pending order an admin can follow up on.
type Service interface {
	StartCheckout(ctx context.Context, input orders.CreateInput) (*CheckoutDTO, error)
}

type service struct {
	orders      orders.Service
	preferences mercadopago.PreferenceCreator
	site        config.SiteConfig
	logger      *logger.Logger
}

func NewService(orderSvc orders.Service, preferences mercadopago.PreferenceCreator, site config.SiteConfig, logg *logger.Logger) (Service, error) {
	if orderSvc == nil {
		return nil, fmt.Errorf("orders service required")
	}
	if preferences == nil {
		return nil, fmt.Errorf("preference creator required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		orders:      orderSvc,
		preferences: preferences,
		site:        site,
		logger:      logg,
	}, nil
}

func (s *service) StartCheckout(ctx context.Context, input orders.CreateInput) (*CheckoutDTO, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(s.site.BaseURL), "/")
	if baseURL == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "site base url is not configured")
	}

	// The gateway rejects zero-priced lines, so enforce strictly positive
	// prices here instead of the non-negative rule the order flow applies.
	for _, item := range input.Items {
		if !item.Price.IsPositive() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "el precio del producto debe ser mayor a cero")
		}
	}

	input.PaymentMethod = enums.PaymentMethodMercadoPago
	order, err := s.orders.Create(ctx, input)
	if err != nil {
		return nil, err
	}

	ctx = s.logger.WithOrderNumber(ctx, order.OrderNumber)

	preference, err := s.preferences.CreatePreference(ctx, buildPreferenceInput(order, baseURL))
	if err != nil {
		s.logger.Error(ctx, "checkout preference creation failed", err)
		return nil, err
	}

	s.logger.Info(ctx, "checkout started")
	return &CheckoutDTO{
		ID:          preference.ID,
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		InitPoint:   preference.InitPoint,
	}, nil
}

func buildPreferenceInput(order *models.Order, baseURL string) mercadopago.PreferenceInput {
	items := make([]mercadopago.PreferenceItem, 0, len(order.Items)+1)
	for _, item := range order.Items {
		items = append(items, mercadopago.PreferenceItem{
			ID:        item.ID.String(),
			Title:     item.ProductName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		})
	}
	if order.ShippingCost.IsPositive() {
		items = append(items, mercadopago.PreferenceItem{
			ID:        "shipping",
			Title:     "Envío",
			Quantity:  1,
			UnitPrice: order.ShippingCost,
		})
	}

	// The result page resolves the order through GET /api/v1/orders/{orderId},
	// so the redirect carries the internal id, not the order number.
	returnURL := fmt.Sprintf("%s/checkout/result?order=%s", baseURL, order.ID)
	return mercadopago.PreferenceInput{
		Items:             items,
		ExternalReference: order.OrderNumber,
		SuccessURL:        returnURL,
		FailureURL:        returnURL,
		PendingURL:        returnURL,
		NotificationURL:   baseURL + "/api/v1/webhooks/mercadopago",
		PayerEmail:        order.CustomerEmail,
	}
}
