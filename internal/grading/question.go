package grading

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoQuestions means the content decoded but held no questions.
	ErrNoQuestions = errors.New("quiz has no questions")
	// ErrMalformedContent means the content is not a valid question list.
	ErrMalformedContent = errors.New("quiz content is malformed")
)

// Question is one canonical quiz item as stored in a quiz lesson's content.
type Question struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"question,omitempty"`
	Options       []string `json:"options,omitempty"`
	CorrectAnswer any      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// ParseQuestions decodes and validates a lesson's canonical question list.
// Every question needs a non-empty unique id and a non-null scalar correctAnswer.
func ParseQuestions(raw string) ([]Question, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty content", ErrMalformedContent)
	}

	var questions []Question
	if err := json.Unmarshal([]byte(trimmed), &questions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedContent, err)
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}

	seen := make(map[string]struct{}, len(questions))
	for i, q := range questions {
		if strings.TrimSpace(q.ID) == "" {
			return nil, fmt.Errorf("%w: question %d has no id", ErrMalformedContent, i)
		}
		if _, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate question id %q", ErrMalformedContent, q.ID)
		}
		seen[q.ID] = struct{}{}
		switch q.CorrectAnswer.(type) {
		case string, float64, bool:
		default:
			return nil, fmt.Errorf("%w: question %q has no usable correctAnswer", ErrMalformedContent, q.ID)
		}
	}
	return questions, nil
}

// submittedAnswer is the wire shape of one answer entry. Fields like isCorrect
// or score are deliberately absent so they can never influence grading.
type submittedAnswer struct {
	QuestionID     *string         `json:"questionId"`
	SelectedOption json.RawMessage `json:"selectedOption"`
}

// ParseAnswers converts raw answer entries into typed answers. Entries that are
// not objects, lack a string questionId, or carry a non-scalar selectedOption
// are dropped and counted in the second return value.
func ParseAnswers(entries []json.RawMessage) ([]Answer, int) {
	answers := make([]Answer, 0, len(entries))
	dropped := 0
	for _, raw := range entries {
		a, ok := parseAnswer(raw)
		if !ok {
			dropped++
			continue
		}
		answers = append(answers, a)
	}
	return answers, dropped
}

func parseAnswer(raw json.RawMessage) (Answer, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Answer{}, false
	}
	var sa submittedAnswer
	if err := json.Unmarshal(trimmed, &sa); err != nil {
		return Answer{}, false
	}
	if sa.QuestionID == nil || *sa.QuestionID == "" {
		return Answer{}, false
	}

	a := Answer{QuestionID: *sa.QuestionID}
	if len(sa.SelectedOption) == 0 {
		return a, true
	}
	var selected any
	if err := json.Unmarshal(sa.SelectedOption, &selected); err != nil {
		return Answer{}, false
	}
	switch selected.(type) {
	case nil, string, float64, bool:
		a.SelectedOption = selected
	default:
		return Answer{}, false
	}
	return a, true
}

// PublicQuestion is a question with its answer key removed, safe to show learners.
type PublicQuestion struct {
	ID      string   `json:"id"`
	Prompt  string   `json:"question,omitempty"`
	Options []string `json:"options,omitempty"`
}

func StripAnswerKeys(questions []Question) []PublicQuestion {
	out := make([]PublicQuestion, len(questions))
	for i, q := range questions {
		out[i] = PublicQuestion{ID: q.ID, Prompt: q.Prompt, Options: q.Options}
	}
	return out
}
