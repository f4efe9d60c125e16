package dto

import "time"

type CheckoutRequestDTO struct {
	CourseID string `json:"courseId" binding:"required"`
}

type CheckoutResponseDTO struct {
	Message   string `json:"message"`
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

type WebhookAckDTO struct {
	Received  bool   `json:"received"`
	Duplicate bool   `json:"duplicate,omitempty"`
	Status    string `json:"status,omitempty"`
}

type UnenrollRequestDTO struct {
	CourseID string `json:"courseId" binding:"required"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type EnrollmentResponseDTO struct {
	ID                 string     `json:"id"`
	UserID             string     `json:"user_id"`
	CourseID           string     `json:"course_id"`
	Status             string     `json:"status"`
	PaymentStatus      string     `json:"payment_status"`
	ProgressPercentage float64    `json:"progress_percentage"`
	EnrolledAt         time.Time  `json:"enrolled_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}
