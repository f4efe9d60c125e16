package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
	PaymentDisputed = "disputed"
	PaymentExpired  = "expired"
)

type Payment struct {
	ID                  string     `gorm:"primarykey;type:varchar(36)" json:"id"`
	UserID              string     `json:"user_id" gorm:"type:varchar(36);not null;index"`
	CourseID            string     `json:"course_id" gorm:"type:varchar(36);not null;index"`
	StripeSessionID     string     `json:"stripe_session_id" gorm:"not null;uniqueIndex"`
	StripePaymentIntent *string    `json:"stripe_payment_intent,omitempty" gorm:"index"`
	AmountCents         int64      `json:"amount_cents" gorm:"not null"`
	Currency            string     `json:"currency" gorm:"not null;default:'usd'"`
	Status              string     `json:"status" gorm:"not null;default:'pending';index"`
	RefundedAt          *time.Time `json:"refunded_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	assignID(&p.ID)
	return nil
}

const (
	EventReceived   = "received"
	EventProcessing = "processing"
	EventProcessed  = "processed"
	EventIgnored    = "ignored"
	EventFailed     = "failed"
)

// PaymentEvent records each provider webhook delivery once per provider event id.
type PaymentEvent struct {
	ID          string         `gorm:"primarykey;type:varchar(36)" json:"id"`
	EventID     string         `json:"event_id" gorm:"not null;uniqueIndex"`
	Type        string         `json:"type" gorm:"not null;index"`
	Status      string         `json:"status" gorm:"not null;default:'received'"` // "received", "processing", "processed", "ignored", "failed"
	Payload     datatypes.JSON `json:"payload"`
	Error       *string        `json:"error,omitempty" gorm:"type:text"`
	TryCount    int            `json:"try_count" gorm:"not null;default:0"`
	ReceivedAt  time.Time      `json:"received_at" gorm:"not null"`
	ClaimedAt   *time.Time     `json:"claimed_at,omitempty"`
	ProcessedAt *time.Time     `json:"processed_at,omitempty"`
}

func (e *PaymentEvent) BeforeCreate(tx *gorm.DB) error {
	assignID(&e.ID)
	return nil
}

// Done reports whether the event needs no further processing.
func (e *PaymentEvent) Done() bool {
	return e.Status == EventProcessed || e.Status == EventIgnored
}

type AuditLog struct {
	ID           string         `gorm:"primarykey;type:varchar(36)" json:"id"`
	Action       string         `json:"action" gorm:"not null;index"`
	PerformedBy  string         `json:"performed_by" gorm:"type:varchar(36);not null"`
	TargetUserID string         `json:"target_user_id" gorm:"type:varchar(36)"`
	Details      datatypes.JSON `json:"details"`
	CreatedAt    time.Time      `json:"created_at"`
}

func (AuditLog) TableName() string { return "admin_audit_logs" }

func (l *AuditLog) BeforeCreate(tx *gorm.DB) error {
	assignID(&l.ID)
	return nil
}
