package dto

import "time"

// AssignmentCreateDTO is used by instructors to add an assignment to a course.
type AssignmentCreateDTO struct {
	CourseID       string     `json:"course_id" binding:"required"`
	ModuleID       *string    `json:"module_id"`
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description" binding:"required"`
	DueDate        *time.Time `json:"due_date"`
	MaxScore       int        `json:"max_score" binding:"omitempty,min=1,max=100"`
	SubmissionType string     `json:"submission_type" binding:"omitempty,oneof=github google_docs text"`
}

type AssignmentResponseDTO struct {
	ID             string     `json:"id"`
	CourseID       string     `json:"course_id"`
	ModuleID       *string    `json:"module_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	DueDate        *time.Time `json:"due_date,omitempty"`
	MaxScore       int        `json:"max_score"`
	SubmissionType string     `json:"submission_type"`
}

type SubmissionCreateDTO struct {
	AssignmentID   string  `json:"assignmentId" binding:"required"`
	SubmissionURL  string  `json:"submissionUrl" binding:"required"`
	SubmissionText *string `json:"submissionText"`
}

type SubmissionAckDTO struct {
	Message      string    `json:"message"`
	SubmissionID string    `json:"submissionId"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submittedAt"`
}

type GradeSubmissionDTO struct {
	SubmissionID       string `json:"submissionId" binding:"required"`
	Score              *int   `json:"score" binding:"required,min=0,max=100"`
	InstructorFeedback string `json:"instructorFeedback" binding:"required"`
}

type SubmissionDTO struct {
	ID                 string     `json:"id"`
	AssignmentID       string     `json:"assignment_id"`
	UserID             string     `json:"user_id"`
	SubmissionURL      string     `json:"submission_url"`
	SubmissionText     *string    `json:"submission_text,omitempty"`
	SubmittedAt        time.Time  `json:"submitted_at"`
	Score              *int       `json:"score,omitempty"`
	InstructorFeedback *string    `json:"instructor_feedback,omitempty"`
	Status             string     `json:"status"`
	GradedBy           *string    `json:"graded_by,omitempty"`
	GradedAt           *time.Time `json:"graded_at,omitempty"`
}

type GradeResponseDTO struct {
	Message    string        `json:"message"`
	Submission SubmissionDTO `json:"submission"`
}
