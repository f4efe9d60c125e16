package dto

import (
	"encoding/json"
	"time"
)

// QuizAttemptSubmitDTO is the request body for a quiz submission. Answers are
// kept raw so malformed entries can be dropped one by one instead of failing
// the whole request.
type QuizAttemptSubmitDTO struct {
	QuizID   string            `json:"quizId" binding:"required"`
	CourseID string            `json:"courseId" binding:"required"`
	Answers  []json.RawMessage `json:"answers" binding:"required"`
}

// ReviewedAnswerDTO is a submitted answer with the server-computed verdict.
type ReviewedAnswerDTO struct {
	QuestionID     string `json:"questionId"`
	SelectedOption any    `json:"selectedOption"`
	IsCorrect      bool   `json:"isCorrect"`
}

// QuizAttemptResultDTO is returned after a successful submission.
type QuizAttemptResultDTO struct {
	Message         string              `json:"message"`
	AttemptID       string              `json:"attemptId"`
	Score           int                 `json:"score"`
	PassedRequired  bool                `json:"passedRequired"`
	CorrectCount    int                 `json:"correctCount"`
	TotalQuestions  int                 `json:"totalQuestions"`
	ReviewedAnswers []ReviewedAnswerDTO `json:"reviewedAnswers"`
}

// QuizAttemptDTO is one stored attempt as returned by the results listing.
type QuizAttemptDTO struct {
	ID             string              `json:"id"`
	LessonID       string              `json:"lesson_id"`
	UserID         string              `json:"user_id"`
	CourseID       string              `json:"course_id"`
	Answers        []ReviewedAnswerDTO `json:"answers_submitted"`
	Score          int                 `json:"score"`
	CorrectCount   int                 `json:"correct_count"`
	TotalQuestions int                 `json:"total_questions"`
	AttemptedAt    time.Time           `json:"attempted_at"`
}

// QuizResultsQuery carries the listing filters after the caller identity is resolved.
type QuizResultsQuery struct {
	UserID   string
	CourseID string
	LessonID string
	Limit    int
	Offset   int
}

// QuizQuestionDTO is a question shown to learners, without its answer key.
type QuizQuestionDTO struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question,omitempty"`
	Options []string `json:"options,omitempty"`
}

// LessonResponseDTO is a lesson as shown to learners.
type LessonResponseDTO struct {
	ID              string            `json:"id"`
	ModuleID        string            `json:"module_id"`
	CourseID        string            `json:"course_id"`
	Title           string            `json:"title"`
	ContentType     string            `json:"content_type"`
	Content         string            `json:"content,omitempty"`
	VideoURL        *string           `json:"video_url,omitempty"`
	OrderIndex      int               `json:"order_index"`
	DurationMinutes *int              `json:"duration_minutes,omitempty"`
	Questions       []QuizQuestionDTO `json:"questions,omitempty"`
	PassingScore    int               `json:"passing_score,omitempty"`
}
