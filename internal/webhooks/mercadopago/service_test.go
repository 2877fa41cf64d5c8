package mercadopago

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/fedegimenez/amaro-backend/internal/orders"
	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
	"github.com/fedegimenez/amaro-backend/pkg/pagination"
)

type stubEventRepo struct {
	seen map[string]bool
	err  error
}

func (s *stubEventRepo) RecordEvent(ctx context.Context, event *models.WebhookEvent) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	if s.seen == nil {
		s.seen = map[string]bool{}
	}
	if s.seen[event.PaymentID] {
		return false, nil
	}
	s.seen[event.PaymentID] = true
	return true, nil
}

type stubOrderRepo struct {
	order    *models.Order
	approved bool
}

func (s *stubOrderRepo) WithTx(tx *gorm.DB) orders.Repository { return s }

func (s *stubOrderRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	panic("not implemented")
}

func (s *stubOrderRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error) {
	if s.order == nil || s.order.OrderNumber != orderNumber {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrderRepo) List(ctx context.Context, params pagination.Params, filters orders.ListFilters) (*orders.OrderList, error) {
	panic("not implemented")
}

func (s *stubOrderRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	panic("not implemented")
}

func (s *stubOrderRepo) ApprovePayment(ctx context.Context, orderNumber string) (bool, error) {
	if s.order == nil || s.order.OrderNumber != orderNumber {
		return false, nil
	}
	if s.approved {
		return false, nil
	}
	s.approved = true
	s.order.PaymentStatus = enums.PaymentStatusApproved
	s.order.Status = enums.OrderStatusConfirmed
	return true, nil
}

type recordingNotifier struct {
	confirmations []string
	adminAlerts   []string
	statusChanges []string
	confirmErr    error
}

func (r *recordingNotifier) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	r.confirmations = append(r.confirmations, order.OrderNumber)
	return r.confirmErr
}

func (r *recordingNotifier) SendAdminAlert(ctx context.Context, order *models.Order) error {
	r.adminAlerts = append(r.adminAlerts, order.OrderNumber)
	return nil
}

func (r *recordingNotifier) SendInvoice(ctx context.Context, order *models.Order, recipient string) error {
	return nil
}

func (r *recordingNotifier) NotifyStatusChange(ctx context.Context, order *models.Order) {
	r.statusChanges = append(r.statusChanges, order.OrderNumber)
}

func newWebhookService(t *testing.T, events EventRepository, orderRepo orders.Repository, notifier *recordingNotifier) Service {
	t.Helper()
	svc, err := NewService(events, orderRepo, notifier, logger.New(logger.Options{ServiceName: "test"}), nil)
	require.NoError(t, err)
	return svc
}

func paymentEvent(paymentID, orderNumber string) Event {
	return Event{
		Type:              "payment",
		Action:            "payment.updated",
		Data:              EventData{ID: paymentID},
		ExternalReference: orderNumber,
	}
}

func TestProcessApprovesAndNotifiesOnce(t *testing.T) {
	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-1",
		CustomerEmail: "lucia@example.com",
		PaymentStatus: enums.PaymentStatusPending,
	}
	notifier := &recordingNotifier{}
	svc := newWebhookService(t, &stubEventRepo{}, &stubOrderRepo{order: order}, notifier)

	outcome := svc.Process(context.Background(), paymentEvent("pay-1", "ORD-1"))

	assert.Equal(t, OutcomeApproved, outcome)
	assert.Equal(t, enums.PaymentStatusApproved, order.PaymentStatus)
	assert.Equal(t, enums.OrderStatusConfirmed, order.Status)
	assert.Equal(t, []string{"ORD-1"}, notifier.confirmations)
	assert.Equal(t, []string{"ORD-1"}, notifier.adminAlerts)
}

func TestProcessRedeliveredEventSendsNoSecondEmail(t *testing.T) {
	order := &models.Order{ID: uuid.New(), OrderNumber: "ORD-1", PaymentStatus: enums.PaymentStatusPending}
	notifier := &recordingNotifier{}
	svc := newWebhookService(t, &stubEventRepo{}, &stubOrderRepo{order: order}, notifier)

	first := svc.Process(context.Background(), paymentEvent("pay-1", "ORD-1"))
	second := svc.Process(context.Background(), paymentEvent("pay-1", "ORD-1"))

	assert.Equal(t, OutcomeApproved, first)
	assert.Equal(t, OutcomeDuplicate, second)
	assert.Len(t, notifier.confirmations, 1)
	assert.Len(t, notifier.adminAlerts, 1)
}

func TestProcessDistinctEventForApprovedOrderIsDuplicate(t *testing.T) {
	order := &models.Order{ID: uuid.New(), OrderNumber: "ORD-1", PaymentStatus: enums.PaymentStatusPending}
	notifier := &recordingNotifier{}
	svc := newWebhookService(t, &stubEventRepo{}, &stubOrderRepo{order: order}, notifier)

	svc.Process(context.Background(), paymentEvent("pay-1", "ORD-1"))
	outcome := svc.Process(context.Background(), paymentEvent("pay-2", "ORD-1"))

	assert.Equal(t, OutcomeDuplicate, outcome)
	assert.Len(t, notifier.confirmations, 1)
}

func TestProcessIgnoresNonPaymentEvents(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newWebhookService(t, &stubEventRepo{}, &stubOrderRepo{}, notifier)

	event := paymentEvent("pay-1", "ORD-1")
	event.Type = "plan"

	assert.Equal(t, OutcomeIgnored, svc.Process(context.Background(), event))
	assert.Empty(t, notifier.confirmations)
}

func TestProcessNonApprovingActionLeavesOrderPending(t *testing.T) {
	order := &models.Order{
		ID:            uuid.New(),
		OrderNumber:   "ORD-1",
		PaymentStatus: enums.PaymentStatusPending,
		Status:        enums.OrderStatusPending,
	}
	notifier := &recordingNotifier{}
	svc := newWebhookService(t, &stubEventRepo{}, &stubOrderRepo{order: order}, notifier)

	event := paymentEvent("pay-1", "ORD-1")
	event.Action = "payment.cancelled"

	outcome := svc.Process(context.Background(), event)

	assert.Equal(t, OutcomeIgnored, outcome)
	assert.Equal(t, enums.PaymentStatusPending, order.PaymentStatus)
	assert.Equal(t, enums.OrderStatusPending, order.Status)
	assert.Empty(t, notifier.confirmations)
	assert.Empty(t, notifier.adminAlerts)
}

func TestProcessIgnoredActionDoesNotBlockLaterApproval(t *testing.T) {
	order := &models.Order{ID: uuid.New(), OrderNumber: "ORD-1", PaymentStatus: enums.PaymentStatusPending}
	notifier := &recordingNotifier{}
	svc := newWebhookService(t, &stubEventRepo{}, &stubOrderRepo{order: order}, notifier)

	cancelled := paymentEvent("pay-1", "ORD-1")
	cancelled.Action = "payment.cancelled"
	require.Equal(t, OutcomeIgnored, svc.Process(context.Background(), cancelled))

	// the same payment id approving later must not read as a duplicate
	outcome := svc.Process(context.Background(), paymentEvent("pay-1", "ORD-1"))

	assert.Equal(t, OutcomeApproved, outcome)
	assert.Equal(t, enums.PaymentStatusApproved, order.PaymentStatus)
	assert.Equal(t, []string{"ORD-1"}, notifier.confirmations)
}

func TestProcessIgnoresEventsWithoutPaymentID(t *testing.T) {
	svc := newWebhookService(t, &stubEventRepo{}, &stubOrderRepo{}, &recordingNotifier{})

	event := paymentEvent("", "ORD-1")
	assert.Equal(t, OutcomeIgnored, svc.Process(context.Background(), event))
}

func TestProcessUnknownOrder(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := newWebhookService(t, &stubEventRepo{}, &stubOrderRepo{}, notifier)

	outcome := svc.Process(context.Background(), paymentEvent("pay-1", "ORD-missing"))

	assert.Equal(t, OutcomeNotFound, outcome)
	assert.Empty(t, notifier.confirmations)
}

func TestProcessEventLogFailure(t *testing.T) {
	svc := newWebhookService(t, &stubEventRepo{err: errors.New("write failed")}, &stubOrderRepo{}, &recordingNotifier{})

	outcome := svc.Process(context.Background(), paymentEvent("pay-1", "ORD-1"))
	assert.Equal(t, OutcomeError, outcome)
}

func TestProcessEmailFailureStillApproves(t *testing.T) {
	order := &models.Order{ID: uuid.New(), OrderNumber: "ORD-1", PaymentStatus: enums.PaymentStatusPending}
	notifier := &recordingNotifier{confirmErr: errors.New("sendgrid down")}
	svc := newWebhookService(t, &stubEventRepo{}, &stubOrderRepo{order: order}, notifier)

	outcome := svc.Process(context.Background(), paymentEvent("pay-1", "ORD-1"))

	assert.Equal(t, OutcomeApproved, outcome)
	assert.Equal(t, enums.PaymentStatusApproved, order.PaymentStatus)
}
