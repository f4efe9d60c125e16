package model

// ReviewedAnswer is one element of QuizAttempt.AnswersSubmitted. IsCorrect is
// always computed by the grader.
type ReviewedAnswer struct {
	QuestionID     string `json:"questionId"`
	SelectedOption any    `json:"selectedOption"`
	IsCorrect      bool   `json:"isCorrect"`
}
