package model

import (
	"time"

	"gorm.io/gorm"
)

const (
	SubmissionTypeGithub     = "github"
	SubmissionTypeGoogleDocs = "google_docs"
	SubmissionTypeText       = "text"
)

type Assignment struct {
	ID             string         `gorm:"primarykey;type:varchar(36)" json:"id"`
	CourseID       string         `json:"course_id" gorm:"type:varchar(36);not null;index"`
	Course         Course         `json:"-" gorm:"foreignKey:CourseID"`
	ModuleID       *string        `json:"module_id,omitempty" gorm:"type:varchar(36);index"`
	Title          string         `json:"title" gorm:"not null"`
	Description    string         `json:"description" gorm:"type:text;not null"`
	DueDate        *time.Time     `json:"due_date,omitempty"`
	MaxScore       int            `json:"max_score" gorm:"not null;default:100"`
	SubmissionType string         `json:"submission_type" gorm:"not null;default:'github'"` // "github", "google_docs", "text"
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (a *Assignment) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}

const (
	SubmissionPending        = "pending"
	SubmissionGraded         = "graded"
	SubmissionRevisionNeeded = "revision_needed"
)

// Submission is a learner's single, resubmittable answer to an assignment.
type Submission struct {
	ID                 string     `gorm:"primarykey;type:varchar(36)" json:"id"`
	AssignmentID       string     `json:"assignment_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_submission_assignment_user"`
	Assignment         Assignment `json:"-" gorm:"foreignKey:AssignmentID"`
	UserID             string     `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_submission_assignment_user;index"`
	SubmissionURL      string     `json:"submission_url" gorm:"not null"`
	SubmissionText     *string    `json:"submission_text,omitempty" gorm:"type:text"`
	SubmittedAt        time.Time  `json:"submitted_at" gorm:"not null"`
	Score              *int       `json:"score,omitempty"`
	InstructorFeedback *string    `json:"instructor_feedback,omitempty" gorm:"type:text"`
	Status             string     `json:"status" gorm:"not null;default:'pending';index"` // "pending", "graded", "revision_needed"
	GradedBy           *string    `json:"graded_by,omitempty" gorm:"type:varchar(36)"`
	GradedAt           *time.Time `json:"graded_at,omitempty"`
}

func (s *Submission) BeforeCreate(tx *gorm.DB) error {
	assignID(&s.ID)
	return nil
}
