package orders

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fedegimenez/amaro-backend/pkg/config"
	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
	"github.com/fedegimenez/amaro-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	createdOrder     *models.Order
	createdItems     []models.OrderItem
	order            *models.Order
	updatedStatus    enums.OrderStatus
	createOrder      func(ctx context.Context, order *models.Order) (*models.Order, error)
	createOrderItems func(ctx context.Context, items []models.OrderItem) error
	approve          func(ctx context.Context, orderNumber string) (bool, error)
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if s.createOrder != nil {
		return s.createOrder(ctx, order)
	}
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	s.createdOrder = order
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if s.createOrderItems != nil {
		return s.createOrderItems(ctx, items)
	}
	s.createdItems = items
	return nil
}

func (s *stubOrdersRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if s.order == nil || s.order.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrdersRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	if s.order == nil || s.order.OrderNumber != orderNumber {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrdersRepo) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	return &OrderList{Orders: []OrderDTO{}}, nil
}

func (s *stubOrdersRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	if s.order == nil || s.order.ID != id {
		return gorm.ErrRecordNotFound
	}
	s.updatedStatus = status
	return nil
}

func (s *stubOrdersRepo) ApprovePayment(ctx context.Context, orderNumber string) (bool, error) {
	if s.approve != nil {
		return s.approve(ctx, orderNumber)
	}
	return false, nil
}

type stubTxRunner struct {
	err error
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s.err != nil {
		return s.err
	}
	return fn(nil)
}

type recordingNotifier struct {
	notified []string
}

func (r *recordingNotifier) NotifyStatusChange(ctx context.Context, order *models.Order) {
	r.notified = append(r.notified, order.OrderNumber)
}

func shippingConfig(t *testing.T) config.ShippingConfig {
	t.Helper()
	cfg := config.ShippingConfig{DeliveryFee: "250"}
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestService(t *testing.T, repo *stubOrdersRepo, tx *stubTxRunner, notifier StatusNotifier) *service {
	t.Helper()
	svc, err := NewService(repo, tx, shippingConfig(t), notifier, nil)
	require.NoError(t, err)
	typed := svc.(*service)
	typed.now = func() time.Time { return time.UnixMilli(1735689600000) }
	return typed
}

func validCreateInput() CreateInput {
	return CreateInput{
		Items: []ItemInput{
			{Name: "Remera básica", Price: decimal.NewFromInt(990), Quantity: 2},
			{Name: "Jean recto", Price: decimal.NewFromInt(2490), Quantity: 1},
		},
		CustomerName:   "Lucía Pérez",
		CustomerEmail:  "lucia@example.com",
		CustomerPhone:  "+59899123456",
		ShippingMethod: enums.ShippingMethodPickup,
		PaymentMethod:  enums.PaymentMethodCash,
	}
}

func TestCreateComputesTotalsFromLines(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newTestService(t, repo, &stubTxRunner{}, nil)

	order, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(4470)))
	assert.True(t, order.ShippingCost.IsZero())
	require.Len(t, order.Items, 2)
	assert.True(t, order.Items[0].Total.Equal(decimal.NewFromInt(1980)))
	assert.True(t, order.Items[1].Total.Equal(decimal.NewFromInt(2490)))
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
}

func TestCreateDeliveryAddsShippingCost(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newTestService(t, repo, &stubTxRunner{}, nil)

	input := validCreateInput()
	address := "Av. 18 de Julio 1234"
	input.ShippingMethod = enums.ShippingMethodDelivery
	input.ShippingAddress = &address

	order, err := svc.Create(context.Background(), input)
	require.NoError(t, err)

	assert.True(t, order.ShippingCost.Equal(decimal.NewFromInt(250)))
	assert.True(t, order.TotalAmount.Equal(decimal.NewFromInt(4720)))
}

func TestCreateAssignsTimestampedOrderNumber(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newTestService(t, repo, &stubTxRunner{}, nil)

	order, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	assert.Equal(t, "ORD-1735689600000", order.OrderNumber)
}

func TestCreateLinksItemsToOrder(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newTestService(t, repo, &stubTxRunner{}, nil)

	order, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	require.Len(t, repo.createdItems, 2)
	for _, item := range repo.createdItems {
		assert.Equal(t, order.ID, item.OrderID)
	}
}

func TestCreateFailedTransactionReturnsError(t *testing.T) {
	repo := &stubOrdersRepo{}
	svc := newTestService(t, repo, &stubTxRunner{err: errors.New("connection reset")}, nil)

	_, err := svc.Create(context.Background(), validCreateInput())
	require.Error(t, err)
}

func TestCreateItemInsertFailureAbortsTransaction(t *testing.T) {
	repo := &stubOrdersRepo{
		createOrderItems: func(ctx context.Context, items []models.OrderItem) error {
			return errors.New("unique violation")
		},
	}
	svc := newTestService(t, repo, &stubTxRunner{}, nil)

	_, err := svc.Create(context.Background(), validCreateInput())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeDependency, typed.Code())
}

func TestCreateRejectsEmptyItems(t *testing.T) {
	svc := newTestService(t, &stubOrdersRepo{}, &stubTxRunner{}, nil)

	input := validCreateInput()
	input.Items = nil

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestCreateRejectsMissingCustomerData(t *testing.T) {
	svc := newTestService(t, &stubOrdersRepo{}, &stubTxRunner{}, nil)

	input := validCreateInput()
	input.CustomerEmail = ""

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Contains(t, typed.Message(), "faltan datos del cliente")
}

func TestCreateRejectsNegativePrice(t *testing.T) {
	svc := newTestService(t, &stubOrdersRepo{}, &stubTxRunner{}, nil)

	input := validCreateInput()
	input.Items[0].Price = decimal.NewFromInt(-10)

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestUpdateStatusNotifiesCustomer(t *testing.T) {
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-1",
		Status:      enums.OrderStatusPending,
	}
	repo := &stubOrdersRepo{order: order}
	notifier := &recordingNotifier{}
	svc := newTestService(t, repo, &stubTxRunner{}, notifier)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusShipped)
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusShipped, updated.Status)
	assert.Equal(t, enums.OrderStatusShipped, repo.updatedStatus)
	assert.Equal(t, []string{"ORD-1"}, notifier.notified)
}

func TestUpdateStatusSameStatusIsNoOp(t *testing.T) {
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-1",
		Status:      enums.OrderStatusShipped,
	}
	repo := &stubOrdersRepo{order: order}
	notifier := &recordingNotifier{}
	svc := newTestService(t, repo, &stubTxRunner{}, notifier)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusShipped)
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusShipped, updated.Status)
	assert.Empty(t, notifier.notified)
}

func TestUpdateStatusDeliveredOrderIsFinal(t *testing.T) {
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-1",
		Status:      enums.OrderStatusDelivered,
	}
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubTxRunner{}, nil)

	_, err := svc.UpdateStatus(context.Background(), order.ID, enums.OrderStatusPending)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestUpdateStatusUnknownOrder(t *testing.T) {
	svc := newTestService(t, &stubOrdersRepo{}, &stubTxRunner{}, nil)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), enums.OrderStatusShipped)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestDetailMapsLegacyFieldNames(t *testing.T) {
	order := &models.Order{
		ID:          uuid.New(),
		OrderNumber: "ORD-1",
		Status:      enums.OrderStatusConfirmed,
		Items: []models.OrderItem{
			{ProductName: "Remera", Quantity: 1, UnitPrice: decimal.NewFromInt(990), Total: decimal.NewFromInt(990)},
		},
	}
	repo := &stubOrdersRepo{order: order}
	svc := newTestService(t, repo, &stubTxRunner{}, nil)

	dto, err := svc.Detail(context.Background(), order.ID)
	require.NoError(t, err)

	assert.Equal(t, dto.Status, dto.OrderStatus)
	require.Len(t, dto.Items, 1)
	assert.True(t, dto.Items[0].Price.Equal(dto.Items[0].UnitPrice))
	assert.True(t, dto.Items[0].Total.Equal(dto.Items[0].TotalPrice))
}
