package payments

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fedegimenez/amaro-backend/internal/orders"
	"github.com/fedegimenez/amaro-backend/pkg/config"
	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
	"github.com/fedegimenez/amaro-backend/pkg/mercadopago"
	"github.com/fedegimenez/amaro-backend/pkg/pagination"
)

type stubOrdersService struct {
	created *orders.CreateInput
	order   *models.Order
}

func (s *stubOrdersService) Create(ctx context.Context, input orders.CreateInput) (*models.Order, error) {
	s.created = &input
	if s.order != nil {
		return s.order, nil
	}
	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-1",
		CustomerEmail: input.CustomerEmail,
		PaymentMethod: input.PaymentMethod,
		ShippingCost:  decimal.Zero,
	}
	for _, item := range input.Items {
		order.Items = append(order.Items, models.OrderItem{
			ID:          uuid.New(),
			ProductName: item.Name,
			Quantity:    item.Quantity,
			UnitPrice:   item.Price,
			Total:       item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}
	return order, nil
}

func (s *stubOrdersService) Detail(ctx context.Context, id uuid.UUID) (*orders.OrderDTO, error) {
	panic("not implemented")
}

func (s *stubOrdersService) Find(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrdersService) List(ctx context.Context, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	panic("not implemented")
}

func (s *stubOrdersService) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	panic("not implemented")
}

type stubPreferenceCreator struct {
	input *mercadopago.PreferenceInput
	err   error
}

func (s *stubPreferenceCreator) CreatePreference(ctx context.Context, input mercadopago.PreferenceInput) (*mercadopago.Preference, error) {
	s.input = &input
	if s.err != nil {
		return nil, s.err
	}
	return &mercadopago.Preference{ID: "pref-1", InitPoint: "https://mercadopago.example/init/pref-1"}, nil
}

func checkoutInput() orders.CreateInput {
	return orders.CreateInput{
		Items: []orders.ItemInput{
			{Name: "Remera básica", Price: decimal.NewFromInt(990), Quantity: 2},
		},
		CustomerName:   "Lucía Pérez",
		CustomerEmail:  "lucia@example.com",
		CustomerPhone:  "+59899123456",
		ShippingMethod: enums.ShippingMethodPickup,
	}
}

func newPaymentsService(t *testing.T, ordersSvc orders.Service, prefs mercadopago.PreferenceCreator, baseURL string) Service {
	t.Helper()
	svc, err := NewService(ordersSvc, prefs, config.SiteConfig{BaseURL: baseURL}, logger.New(logger.Options{ServiceName: "test"}))
	require.NoError(t, err)
	return svc
}

func TestStartCheckoutForcesMercadoPagoMethod(t *testing.T) {
	ordersSvc := &stubOrdersService{}
	prefs := &stubPreferenceCreator{}
	svc := newPaymentsService(t, ordersSvc, prefs, "https://amaro.com.uy")

	input := checkoutInput()
	input.PaymentMethod = enums.PaymentMethodCash

	checkout, err := svc.StartCheckout(context.Background(), input)
	require.NoError(t, err)

	assert.Equal(t, enums.PaymentMethodMercadoPago, ordersSvc.created.PaymentMethod)
	assert.Equal(t, "pref-1", checkout.ID)
	assert.Equal(t, "ORD-1", checkout.OrderNumber)
	assert.Equal(t, "https://mercadopago.example/init/pref-1", checkout.InitPoint)
}

func TestStartCheckoutBuildsPreferenceFromOrder(t *testing.T) {
	order := &models.Order{
		ID:            uuid.MustParse("0b9f9e08-31c3-4c41-b6ef-222222222222"),
		OrderNumber:   "ORD-1",
		CustomerEmail: "lucia@example.com",
		Items: []models.OrderItem{
			{ID: uuid.New(), ProductName: "Remera básica", Quantity: 2, UnitPrice: decimal.NewFromInt(990)},
		},
	}
	ordersSvc := &stubOrdersService{order: order}
	prefs := &stubPreferenceCreator{}
	svc := newPaymentsService(t, ordersSvc, prefs, "https://amaro.com.uy/")

	_, err := svc.StartCheckout(context.Background(), checkoutInput())
	require.NoError(t, err)

	require.NotNil(t, prefs.input)
	require.Len(t, prefs.input.Items, 1)
	assert.Equal(t, "Remera básica", prefs.input.Items[0].Title)
	assert.Equal(t, 2, prefs.input.Items[0].Quantity)
	assert.Equal(t, "ORD-1", prefs.input.ExternalReference)
	assert.Equal(t, "https://amaro.com.uy/api/v1/webhooks/mercadopago", prefs.input.NotificationURL)
	assert.Equal(t, "https://amaro.com.uy/checkout/result?order=0b9f9e08-31c3-4c41-b6ef-222222222222", prefs.input.SuccessURL)
	assert.Equal(t, prefs.input.SuccessURL, prefs.input.FailureURL)
	assert.Equal(t, prefs.input.SuccessURL, prefs.input.PendingURL)
	assert.Equal(t, "lucia@example.com", prefs.input.PayerEmail)
}

func TestStartCheckoutAddsShippingLine(t *testing.T) {
	order := &models.Order{
		ID:           uuid.New(),
		OrderNumber:  "ORD-2",
		ShippingCost: decimal.NewFromInt(250),
		Items: []models.OrderItem{
			{ID: uuid.New(), ProductName: "Jean recto", Quantity: 1, UnitPrice: decimal.NewFromInt(2490)},
		},
	}
	ordersSvc := &stubOrdersService{order: order}
	prefs := &stubPreferenceCreator{}
	svc := newPaymentsService(t, ordersSvc, prefs, "https://amaro.com.uy")

	_, err := svc.StartCheckout(context.Background(), checkoutInput())
	require.NoError(t, err)

	require.Len(t, prefs.input.Items, 2)
	last := prefs.input.Items[1]
	assert.Equal(t, "Envío", last.Title)
	assert.Equal(t, 1, last.Quantity)
	assert.True(t, last.UnitPrice.Equal(decimal.NewFromInt(250)))
}

func TestStartCheckoutRejectsNonPositivePrices(t *testing.T) {
	svc := newPaymentsService(t, &stubOrdersService{}, &stubPreferenceCreator{}, "https://amaro.com.uy")

	input := checkoutInput()
	input.Items[0].Price = decimal.Zero

	_, err := svc.StartCheckout(context.Background(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestStartCheckoutRequiresBaseURL(t *testing.T) {
	svc := newPaymentsService(t, &stubOrdersService{}, &stubPreferenceCreator{}, "")

	_, err := svc.StartCheckout(context.Background(), checkoutInput())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeInternal, typed.Code())
}

func TestStartCheckoutGatewayFailureSurfaces(t *testing.T) {
	ordersSvc := &stubOrdersService{}
	prefs := &stubPreferenceCreator{err: pkgerrors.New(pkgerrors.CodeDependency, "gateway down")}
	svc := newPaymentsService(t, ordersSvc, prefs, "https://amaro.com.uy")

	_, err := svc.StartCheckout(context.Background(), checkoutInput())
	require.Error(t, err)
	// the order was still persisted before the gateway call failed
	assert.NotNil(t, ordersSvc.created)
}
