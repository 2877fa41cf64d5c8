package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/fedegimenez/amaro-backend/internal/invoices"
	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	"github.com/fedegimenez/amaro-backend/pkg/email"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
	"github.com/fedegimenez/amaro-backend/pkg/logger"
	"github.com/fedegimenez/amaro-backend/pkg/metrics"
)

const (
	retryBase     = 500 * time.Millisecond
	retryAttempts = 3
)

// Service sends the store's transactional emails. Confirmation and status
// emails are best-effort: a mail outage never fails the order flow that
// triggered them.
type Service interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order) error
	SendAdminAlert(ctx context.Context, order *models.Order) error
	SendInvoice(ctx context.Context, order *models.Order, recipient string) error
	NotifyStatusChange(ctx context.Context, order *models.Order)
}

type service struct {
	sender     email.Sender
	adminEmail string
	logger     *logger.Logger
	metrics    *metrics.StoreMetrics
}

func NewService(sender email.Sender, adminEmail string, logg *logger.Logger, storeMetrics *metrics.StoreMetrics) (Service, error) {
	if sender == nil {
		return nil, fmt.Errorf("email sender required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		sender:     sender,
		adminEmail: strings.TrimSpace(adminEmail),
		logger:     logg,
		metrics:    storeMetrics,
	}, nil
}

// SendOrderConfirmation emails the customer their invoice after payment is
// confirmed.
func (s *service) SendOrderConfirmation(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order required")
	}

	invoice, err := invoices.Render(order)
	if err != nil {
		s.metrics.IncEmail("confirmation", "error")
		return err
	}

	msg := email.Message{
		To:        order.CustomerEmail,
		Subject:   fmt.Sprintf("Tu pedido %s está confirmado", order.OrderNumber),
		HTMLBody:  confirmationBody(order),
		PlainBody: fmt.Sprintf("Tu pedido %s fue confirmado. Adjuntamos la factura. Gracias por comprar en Amaro.", order.OrderNumber),
		Attachments: []email.Attachment{{
			Filename:    fmt.Sprintf("factura-%s.html", order.OrderNumber),
			ContentType: "text/html",
			Content:     invoice,
		}},
	}

	if err := s.sendWithRetry(ctx, msg); err != nil {
		s.metrics.IncEmail("confirmation", "error")
		return err
	}
	s.metrics.IncEmail("confirmation", "ok")
	return nil
}

// SendAdminAlert tells the store owner a new paid order arrived.
func (s *service) SendAdminAlert(ctx context.Context, order *models.Order) error {
	if order == nil {
		return fmt.Errorf("order required")
	}
	if s.adminEmail == "" {
		s.logger.Warn(ctx, "admin email not configured, skipping alert")
		return nil
	}

	msg := email.Message{
		To:        s.adminEmail,
		Subject:   fmt.Sprintf("Nuevo pedido pago: %s", order.OrderNumber),
		HTMLBody:  adminAlertBody(order),
		PlainBody: fmt.Sprintf("El pedido %s de %s fue pagado por %s. Total: $ %s.", order.OrderNumber, order.CustomerName, order.PaymentMethod, order.TotalAmount.StringFixed(2)),
	}

	if err := s.sendWithRetry(ctx, msg); err != nil {
		s.metrics.IncEmail("admin_alert", "error")
		return err
	}
	s.metrics.IncEmail("admin_alert", "ok")
	return nil
}

// SendInvoice mails the invoice on demand, defaulting to the customer when no
// recipient override is given.
func (s *service) SendInvoice(ctx context.Context, order *models.Order, recipient string) error {
	if order == nil {
		return fmt.Errorf("order required")
	}
	to := strings.TrimSpace(recipient)
	if to == "" {
		to = order.CustomerEmail
	}

	invoice, err := invoices.Render(order)
	if err != nil {
		s.metrics.IncEmail("invoice", "error")
		return err
	}

	msg := email.Message{
		To:        to,
		Subject:   fmt.Sprintf("Factura de tu pedido %s", order.OrderNumber),
		HTMLBody:  string(invoice),
		PlainBody: fmt.Sprintf("Adjuntamos la factura del pedido %s.", order.OrderNumber),
		Attachments: []email.Attachment{{
			Filename:    fmt.Sprintf("factura-%s.html", order.OrderNumber),
			ContentType: "text/html",
			Content:     invoice,
		}},
	}

	if err := s.sendWithRetry(ctx, msg); err != nil {
		s.metrics.IncEmail("invoice", "error")
		return err
	}
	s.metrics.IncEmail("invoice", "ok")
	return nil
}

// NotifyStatusChange emails the customer about an admin status update. It
// satisfies the orders service notifier and never propagates failures.
func (s *service) NotifyStatusChange(ctx context.Context, order *models.Order) {
	if order == nil {
		return
	}
	ctx = s.logger.WithOrderNumber(ctx, order.OrderNumber)

	msg := email.Message{
		To:        order.CustomerEmail,
		Subject:   fmt.Sprintf("Actualización de tu pedido %s", order.OrderNumber),
		HTMLBody:  statusChangeBody(order),
		PlainBody: fmt.Sprintf("Tu pedido %s ahora está: %s.", order.OrderNumber, statusLabel(order.Status)),
	}

	if err := s.sendWithRetry(ctx, msg); err != nil {
		s.metrics.IncEmail("status_change", "error")
		s.logger.Error(ctx, "status change email failed", err)
		return
	}
	s.metrics.IncEmail("status_change", "ok")
}

func (s *service) sendWithRetry(ctx context.Context, msg email.Message) error {
	backoff := retry.WithMaxRetries(retryAttempts, retry.NewFibonacci(retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		if err := s.sender.Send(ctx, msg); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
}

func statusLabel(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusPending:
		return "pendiente"
	case enums.OrderStatusProcessing:
		return "en preparación"
	case enums.OrderStatusConfirmed:
		return "confirmado"
	case enums.OrderStatusShipped:
		return "enviado"
	case enums.OrderStatusDelivered:
		return "entregado"
	default:
		return status.String()
	}
}

func confirmationBody(order *models.Order) string {
	var b strings.Builder
	b.WriteString("<h2>¡Gracias por tu compra!</h2>")
	fmt.Fprintf(&b, "<p>Hola %s, tu pedido <strong>%s</strong> fue confirmado.</p>", order.CustomerName, order.OrderNumber)
	fmt.Fprintf(&b, "<p>Total: <strong>$ %s</strong></p>", order.TotalAmount.StringFixed(2))
	b.WriteString("<p>Adjuntamos la factura con el detalle de tu compra.</p>")
	b.WriteString("<p>Amaro</p>")
	return b.String()
}

func adminAlertBody(order *models.Order) string {
	var b strings.Builder
	b.WriteString("<h2>Nuevo pedido pago</h2>")
	fmt.Fprintf(&b, "<p>Pedido <strong>%s</strong></p>", order.OrderNumber)
	fmt.Fprintf(&b, "<p>Cliente: %s (%s, %s)</p>", order.CustomerName, order.CustomerEmail, order.CustomerPhone)
	fmt.Fprintf(&b, "<p>Método de pago: %s</p>", order.PaymentMethod)
	fmt.Fprintf(&b, "<p>Total: <strong>$ %s</strong></p>", order.TotalAmount.StringFixed(2))
	return b.String()
}

func statusChangeBody(order *models.Order) string {
	var b strings.Builder
	b.WriteString("<h2>Actualización de tu pedido</h2>")
	fmt.Fprintf(&b, "<p>Hola %s, tu pedido <strong>%s</strong> ahora está: <strong>%s</strong>.</p>", order.CustomerName, order.OrderNumber, statusLabel(order.Status))
	b.WriteString("<p>Amaro</p>")
	return b.String()
}
