package repository

import (
	"context"
	"time"

	"github.com/lshigami/Learnhub/internal/model"
	"gorm.io/gorm"
)

// PaymentEventRepository stores one row per provider event id.
type PaymentEventRepository interface {
	WithTx(tx *gorm.DB) PaymentEventRepository
	FindByEventID(ctx context.Context, eventID string) (*model.PaymentEvent, error)
	// Create fails with gorm.ErrDuplicatedKey when the event id is already recorded.
	Create(ctx context.Context, event *model.PaymentEvent) error
	Update(ctx context.Context, event *model.PaymentEvent) error
	// Claim moves an existing event to processing when it failed earlier or when
	// its previous claim is older than staleBefore. It reports false when another
	// delivery holds the event or the event is already done.
	Claim(ctx context.Context, eventID string, now, staleBefore time.Time) (bool, error)
}

type paymentEventRepository struct {
	db *gorm.DB
}

func NewPaymentEventRepository(db *gorm.DB) PaymentEventRepository {
	return &paymentEventRepository{db: db}
}

func (r *paymentEventRepository) WithTx(tx *gorm.DB) PaymentEventRepository {
	return &paymentEventRepository{db: tx}
}

func (r *paymentEventRepository) FindByEventID(ctx context.Context, eventID string) (*model.PaymentEvent, error) {
	var event model.PaymentEvent
	if err := r.db.WithContext(ctx).First(&event, "event_id = ?", eventID).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

func (r *paymentEventRepository) Create(ctx context.Context, event *model.PaymentEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *paymentEventRepository) Update(ctx context.Context, event *model.PaymentEvent) error {
	return r.db.WithContext(ctx).Save(event).Error
}

func (r *paymentEventRepository) Claim(ctx context.Context, eventID string, now, staleBefore time.Time) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&model.PaymentEvent{}).
		Where("event_id = ?", eventID).
		Where("status = ? OR (status IN ? AND COALESCE(claimed_at, received_at) < ?)",
			model.EventFailed, []string{model.EventReceived, model.EventProcessing}, staleBefore).
		Updates(map[string]any{
			"status":       model.EventProcessing,
			"claimed_at":   now,
			"processed_at": nil,
			"try_count":    gorm.Expr("try_count + 1"),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
