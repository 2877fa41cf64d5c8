package mercadopago

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fedegimenez/amaro-backend/internal/notifications"
	"github.com/fedegimenez/amaro-backend/internal/orders"
	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
	"github.com/fedegimenez/amaro-backend/pkg/metrics"
)

// Event is the notification payload MercadoPago posts to the callback URL.
type Event struct {
	Type              string    `json:"type"`
	Action            string    `json:"action"`
	Data              EventData `json:"data"`
	ExternalReference string    `json:"external_reference"`
}

type EventData struct {
	ID string `json:"id"`
}

// Outcome says what processing an event amounted to. The HTTP layer always
// acknowledges; the outcome only drives logging and metrics.
type Outcome string

const (
	OutcomeApproved  Outcome = "approved"
	OutcomeDuplicate Outcome = "duplicate"
	OutcomeIgnored   Outcome = "ignored"
	OutcomeNotFound  Outcome = "order_not_found"
	OutcomeError     Outcome = "error"
)

// Service processes gateway payment notifications.
type Service interface {
	Process(ctx context.Context, event Event) Outcome
}

type service struct {
	events   EventRepository
	orders   orders.Repository
	notifier notifications.Service
	logger   *logger.Logger
	metrics  *metrics.StoreMetrics
	now      func() time.Time
}

func NewService(events EventRepository, orderRepo orders.Repository, notifier notifications.Service, logg *logger.Logger, storeMetrics *metrics.StoreMetrics) (Service, error) {
	if events == nil {
		return nil, fmt.Errorf("event repository required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("notifications service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		events:   events,
		orders:   orderRepo,
		notifier: notifier,
		logger:   logg,
		metrics:  storeMetrics,
		now:      time.Now,
	}, nil
}

// Process handles one gateway notification. The gateway re-delivers events
// until acknowledged, so everything here must tolerate repeats: the event log
// insert and the payment status update are both no-ops the second time, and
// the confirmation emails only fire on the first actual transition.
func (s *service) Process(ctx context.Context, event Event) Outcome {
	paymentID := strings.TrimSpace(event.Data.ID)
	orderNumber := strings.TrimSpace(event.ExternalReference)

	ctx = s.logger.WithPaymentID(ctx, paymentID)
	if orderNumber != "" {
		ctx = s.logger.WithOrderNumber(ctx, orderNumber)
	}

	if event.Type != "payment" || paymentID == "" || orderNumber == "" {
		s.logger.Info(ctx, "webhook event ignored")
		s.metrics.IncWebhookEvent(string(OutcomeIgnored))
		return OutcomeIgnored
	}

	// Cancellations, refunds and other non-approving actions leave the order
	// pending. They are not logged to webhook_events either, so a later
	// payment.updated for the same payment id still gets through.
	if !approvingAction(event.Action) {
		s.logger.Info(ctx, "webhook action does not approve payment")
		s.metrics.IncWebhookEvent(string(OutcomeIgnored))
		return OutcomeIgnored
	}

	recorded, err := s.events.RecordEvent(ctx, &models.WebhookEvent{
		PaymentID:         paymentID,
		EventType:         event.Type,
		Action:            event.Action,
		ExternalReference: orderNumber,
		ProcessedAt:       s.now().UTC(),
	})
	if err != nil {
		s.logger.Error(ctx, "webhook event log write failed", err)
		s.metrics.IncWebhookEvent(string(OutcomeError))
		return OutcomeError
	}
	if !recorded {
		s.logger.Info(ctx, "webhook event already processed")
		s.metrics.IncWebhookEvent(string(OutcomeDuplicate))
		return OutcomeDuplicate
	}

	transitioned, err := s.orders.ApprovePayment(ctx, orderNumber)
	if err != nil {
		s.logger.Error(ctx, "payment approval update failed", err)
		s.metrics.IncWebhookEvent(string(OutcomeError))
		return OutcomeError
	}
	if !transitioned {
		// Either the order does not exist or it was approved by an
		// earlier event with a different payment id.
		if _, findErr := s.orders.FindByOrderNumber(ctx, orderNumber); findErr != nil {
			s.logger.Warn(ctx, "webhook references unknown order")
			s.metrics.IncWebhookEvent(string(OutcomeNotFound))
			return OutcomeNotFound
		}
		s.logger.Info(ctx, "payment already approved")
		s.metrics.IncWebhookEvent(string(OutcomeDuplicate))
		return OutcomeDuplicate
	}

	order, err := s.orders.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		s.logger.Error(ctx, "approved order reload failed", err)
		s.metrics.IncWebhookEvent(string(OutcomeError))
		return OutcomeError
	}

	// Email failures never bounce the webhook; the gateway would keep
	// re-delivering an event we already applied.
	if err := s.notifier.SendOrderConfirmation(ctx, order); err != nil {
		s.logger.Error(ctx, "confirmation email failed", err)
	}
	if err := s.notifier.SendAdminAlert(ctx, order); err != nil {
		s.logger.Error(ctx, "admin alert email failed", err)
	}

	s.logger.Info(ctx, "payment approved")
	s.metrics.IncWebhookEvent(string(OutcomeApproved))
	return OutcomeApproved
}

func approvingAction(action string) bool {
	switch action {
	case "payment.created", "payment.updated":
		return true
	}
	return false
}
