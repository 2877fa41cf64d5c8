package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fedegimenez/amaro-backend/pkg/config"
	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
	pkgerrors "github.com/fedegimenez/amaro-backend/pkg/errors"
	"github.com/fedegimenez/amaro-backend/pkg/metrics"
	"github.com/fedegimenez/amaro-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// StatusNotifier emails the customer after an admin status change. Delivery
// is best-effort; implementations must not block on failure.
type StatusNotifier interface {
	NotifyStatusChange(ctx context.Context, order *models.Order)
}

// Service defines order operations beyond plain repository reads.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Order, error)
	Detail(ctx context.Context, id uuid.UUID) (*OrderDTO, error)
	Find(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	shipping config.ShippingConfig
	notifier StatusNotifier
	metrics  *metrics.StoreMetrics
	now      func() time.Time
}

// NewService builds the order service with the required dependencies.
func NewService(repo Repository, tx txRunner, shipping config.ShippingConfig, notifier StatusNotifier, storeMetrics *metrics.StoreMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		shipping: shipping,
		notifier: notifier,
		metrics:  storeMetrics,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Order, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	shippingCost := decimal.Zero
	if input.ShippingMethod == enums.ShippingMethodDelivery {
		shippingCost = s.shipping.DeliveryFeeAmount()
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, 0, len(input.Items))
	for _, line := range input.Items {
		lineTotal := line.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		items = append(items, models.OrderItem{
			ProductID:    line.ProductID,
			ProductName:  line.Name,
			ProductImage: line.Image,
			Size:         line.Size,
			Color:        line.Color,
			Quantity:     line.Quantity,
			UnitPrice:    line.Price,
			Total:        lineTotal,
		})
	}

	order := &models.Order{
		OrderNumber:     fmt.Sprintf("ORD-%d", s.now().UnixMilli()),
		CustomerName:    strings.TrimSpace(input.CustomerName),
		CustomerEmail:   strings.TrimSpace(input.CustomerEmail),
		CustomerPhone:   strings.TrimSpace(input.CustomerPhone),
		CustomerDNI:     input.CustomerDNI,
		ShippingAddress: input.ShippingAddress,
		ShippingMethod:  input.ShippingMethod,
		ShippingCost:    shippingCost,
		TotalAmount:     subtotal.Add(shippingCost),
		PaymentMethod:   input.PaymentMethod,
		PaymentStatus:   enums.PaymentStatusPending,
		Status:          enums.OrderStatusPending,
		Notes:           input.Notes,
		UserID:          input.UserID,
	}

	// The header and its items commit together; a failed item insert must
	// not leave an orphaned order behind.
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		created, err := repo.CreateOrder(ctx, order)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order")
		}
		for i := range items {
			items[i].OrderID = created.ID
		}
		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist order items")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Items = items
	s.metrics.IncOrderCreated(order.PaymentMethod.String())
	return order, nil
}

func (s *service) Detail(ctx context.Context, id uuid.UUID) (*OrderDTO, error) {
	order, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := ToOrderDTO(*order)
	return &dto, nil
}

// Find returns the persisted order with its items, for callers that need the
// row itself rather than the API shape.
func (s *service) Find(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pedido no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error) {
	list, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estado de pedido inválido")
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pedido no encontrado")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if order.Status == status {
		return order, nil
	}
	if order.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "el pedido ya fue entregado")
	}

	if err := s.repo.UpdateStatus(ctx, order.ID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = status

	if s.notifier != nil {
		s.notifier.NotifyStatusChange(ctx, order)
	}
	return order, nil
}

func validateCreateInput(input CreateInput) error {
	if len(input.Items) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "el pedido debe incluir al menos un producto")
	}
	if strings.TrimSpace(input.CustomerName) == "" ||
		strings.TrimSpace(input.CustomerEmail) == "" ||
		strings.TrimSpace(input.CustomerPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "faltan datos del cliente")
	}
	if !input.ShippingMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "método de envío inválido")
	}
	if !input.PaymentMethod.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "método de pago inválido")
	}
	for _, line := range input.Items {
		if line.Price.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "el precio del producto no puede ser negativo")
		}
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "la cantidad debe ser mayor a cero")
		}
		if strings.TrimSpace(line.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "el producto debe tener nombre")
		}
	}
	return nil
}
