package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// QuizAttempt is written once per submission and never updated.
type QuizAttempt struct {
	ID               string                             `gorm:"primarykey;type:varchar(36)" json:"id"`
	LessonID         string                             `json:"lesson_id" gorm:"type:varchar(36);not null;index:idx_quiz_attempt_lookup,priority:3"`
	UserID           string                             `json:"user_id" gorm:"type:varchar(36);not null;index:idx_quiz_attempt_lookup,priority:1"`
	CourseID         string                             `json:"course_id" gorm:"type:varchar(36);not null;index:idx_quiz_attempt_lookup,priority:2"`
	AnswersSubmitted datatypes.JSONSlice[ReviewedAnswer] `json:"answers_submitted" gorm:"not null"`
	Score            int                                `json:"score" gorm:"not null"`
	CorrectCount     int                                `json:"correct_count" gorm:"not null"`
	TotalQuestions   int                                `json:"total_questions" gorm:"not null"`
	AttemptedAt      time.Time                          `json:"attempted_at" gorm:"not null;index"`
}

func (a *QuizAttempt) BeforeCreate(tx *gorm.DB) error {
	assignID(&a.ID)
	return nil
}
