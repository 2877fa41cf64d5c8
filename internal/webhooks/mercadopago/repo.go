package mercadopago

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fedegimenez/amaro-backend/pkg/db/models"
)

// EventRepository persists the processed-event log for gateway callbacks.
type EventRepository interface {
	// RecordEvent inserts the event keyed by gateway payment id. It reports
	// false when the id was already recorded, which marks a re-delivery.
	RecordEvent(ctx context.Context, event *models.WebhookEvent) (bool, error)
}

type eventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) RecordEvent(ctx context.Context, event *models.WebhookEvent) (bool, error) {
	if event.ProcessedAt.IsZero() {
		event.ProcessedAt = time.Now().UTC()
	}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "payment_id"}},
			DoNothing: true,
		}).
		Create(event)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
