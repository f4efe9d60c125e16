package repository

import (
	"context"
	"time"

	"github.com/lshigami/Learnhub/internal/model"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	WithTx(tx *gorm.DB) PaymentRepository
	Create(ctx context.Context, payment *model.Payment) error
	FindBySessionID(ctx context.Context, sessionID string) (*model.Payment, error)
	FindByPaymentIntent(ctx context.Context, intentID string) (*model.Payment, error)
	Update(ctx context.Context, payment *model.Payment) error
	// ExpirePendingBefore marks pending payments created before cutoff as expired.
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) WithTx(tx *gorm.DB) PaymentRepository {
	return &paymentRepository{db: tx}
}

func (r *paymentRepository) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) FindBySessionID(ctx context.Context, sessionID string) (*model.Payment, error) {
	var payment model.Payment
	if err := r.db.WithContext(ctx).First(&payment, "stripe_session_id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) FindByPaymentIntent(ctx context.Context, intentID string) (*model.Payment, error) {
	var payment model.Payment
	if err := r.db.WithContext(ctx).First(&payment, "stripe_payment_intent = ?", intentID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) Update(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&model.Payment{}).
		Where("status = ? AND created_at < ?", model.PaymentPending, cutoff).
		Update("status", model.PaymentExpired)
	return result.RowsAffected, result.Error
}
