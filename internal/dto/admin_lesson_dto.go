package dto

import "encoding/json"

// LessonCreateDTO is used by instructors to add a lesson to a course module.
// For content_type "quiz", Questions must hold the canonical question list.
type LessonCreateDTO struct {
	ModuleID        string          `json:"module_id" binding:"required"`
	Title           string          `json:"title" binding:"required"`
	ContentType     string          `json:"content_type" binding:"required,oneof=text video quiz"`
	Content         string          `json:"content"`
	VideoURL        *string         `json:"video_url"`
	OrderIndex      int             `json:"order_index" binding:"min=0"`
	DurationMinutes *int            `json:"duration_minutes" binding:"omitempty,min=1"`
	Questions       json.RawMessage `json:"questions"`
}

// AdminLessonResponseDTO is the instructor view of a lesson, answer keys included.
type AdminLessonResponseDTO struct {
	ID            string `json:"id"`
	ModuleID      string `json:"module_id"`
	Title         string `json:"title"`
	ContentType   string `json:"content_type"`
	Content       string `json:"content"`
	OrderIndex    int    `json:"order_index"`
	QuestionCount int    `json:"question_count,omitempty"`
}
