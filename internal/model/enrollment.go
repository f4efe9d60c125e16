package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	EnrollmentActive    = "active"
	EnrollmentCompleted = "completed"
	EnrollmentCancelled = "cancelled"
)

// Enrollment rows are hard-deleted on unenroll and refund, so the
// (user_id, course_id) unique index never collides with a tombstone.
type Enrollment struct {
	ID                 string     `gorm:"primarykey;type:varchar(36)" json:"id"`
	UserID             string     `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID           string     `json:"course_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_enrollment_user_course"`
	Status             string     `json:"status" gorm:"not null;default:'active'"`          // "active", "completed", "cancelled"
	PaymentStatus      string     `json:"payment_status" gorm:"not null;default:'pending'"` // "pending", "paid", "failed"
	PaymentAmountCents int64      `json:"payment_amount_cents" gorm:"not null;default:0"`
	ProgressPercentage float64    `json:"progress_percentage" gorm:"not null;default:0"`
	EnrolledAt         time.Time  `json:"enrolled_at" gorm:"not null"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

// GrantsAccess reports whether the learner may submit graded work in the course.
func (e *Enrollment) GrantsAccess() bool {
	return e.Status == EnrollmentActive || e.Status == EnrollmentCompleted
}
