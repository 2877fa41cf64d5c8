package orders

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fedegimenez/amaro-backend/pkg/db/models"
	"github.com/fedegimenez/amaro-backend/pkg/enums"
	"github.com/fedegimenez/amaro-backend/pkg/pagination"
)

// Repository is the persistence surface for orders and their items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error

	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByOrderNumber(ctx context.Context, orderNumber string) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters ListFilters) (*OrderList, error)

	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	// ApprovePayment transitions the order matched by order number into
	// payment_status=approved / status=confirmed, only when it is not
	// already approved. It reports whether a row actually changed, which is
	// what makes re-deliveries of the same gateway event a no-op.
	ApprovePayment(ctx context.Context, orderNumber string) (bool, error)
}
