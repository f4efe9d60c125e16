package repository

import (
	"context"
	"errors"
	"time"

	"github.com/lshigami/Learnhub/internal/model"
	"gorm.io/gorm"
)

type EnrollmentRepository interface {
	WithTx(tx *gorm.DB) EnrollmentRepository
	FindByUserCourse(ctx context.Context, userID, courseID string) (*model.Enrollment, error)
	// EnsureActive creates or reactivates the enrollment for a paid checkout.
	// Calling it twice for the same pair leaves a single row.
	EnsureActive(ctx context.Context, userID, courseID string, amountCents int64, at time.Time) (*model.Enrollment, bool, error)
	DeleteByUserCourse(ctx context.Context, userID, courseID string) (int64, error)
	// ListByUser returns the user's enrollments, newest first.
	ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error)
}

type enrollmentRepository struct {
	db *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: db}
}

func (r *enrollmentRepository) WithTx(tx *gorm.DB) EnrollmentRepository {
	return &enrollmentRepository{db: tx}
}

func (r *enrollmentRepository) FindByUserCourse(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		return nil, err
	}
	return &enrollment, nil
}

func (r *enrollmentRepository) EnsureActive(ctx context.Context, userID, courseID string, amountCents int64, at time.Time) (*model.Enrollment, bool, error) {
	existing, err := r.FindByUserCourse(ctx, userID, courseID)
	switch {
	case err == nil:
		return existing, false, r.activate(ctx, existing, amountCents)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, false, err
	}

	enrollment := &model.Enrollment{
		UserID:             userID,
		CourseID:           courseID,
		Status:             model.EnrollmentActive,
		PaymentStatus:      model.PaymentPaid,
		PaymentAmountCents: amountCents,
		EnrolledAt:         at,
	}
	if err := r.db.WithContext(ctx).Create(enrollment).Error; err != nil {
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, false, err
		}
		// lost a race with a concurrent delivery
		existing, err := r.FindByUserCourse(ctx, userID, courseID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, r.activate(ctx, existing, amountCents)
	}
	return enrollment, true, nil
}

func (r *enrollmentRepository) activate(ctx context.Context, enrollment *model.Enrollment, amountCents int64) error {
	if enrollment.GrantsAccess() && enrollment.PaymentStatus == model.PaymentPaid {
		return nil
	}
	updates := map[string]any{
		"payment_status":       model.PaymentPaid,
		"payment_amount_cents": amountCents,
	}
	if !enrollment.GrantsAccess() {
		updates["status"] = model.EnrollmentActive
	}
	if err := r.db.WithContext(ctx).Model(enrollment).Updates(updates).Error; err != nil {
		return err
	}
	enrollment.PaymentStatus = model.PaymentPaid
	enrollment.PaymentAmountCents = amountCents
	if !enrollment.GrantsAccess() {
		enrollment.Status = model.EnrollmentActive
	}
	return nil
}

func (r *enrollmentRepository) DeleteByUserCourse(ctx context.Context, userID, courseID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Delete(&model.Enrollment{})
	return result.RowsAffected, result.Error
}

func (r *enrollmentRepository) ListByUser(ctx context.Context, userID string) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("enrolled_at DESC, id DESC").
		Find(&enrollments).Error
	return enrollments, err
}
