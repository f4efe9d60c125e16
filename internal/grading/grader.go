package grading

import "encoding/json"

// DefaultPassingScore is the score at or above which a quiz counts as passed.
const DefaultPassingScore = 70

// Answer is a learner's selection for one question after boundary parsing.
// SelectedOption holds a decoded JSON scalar (string, float64, bool) or nil.
type Answer struct {
	QuestionID     string
	SelectedOption any
}

type ReviewedAnswer struct {
	QuestionID     string `json:"questionId"`
	SelectedOption any    `json:"selectedOption"`
	IsCorrect      bool   `json:"isCorrect"`
}

type Result struct {
	Score          int              `json:"score"`
	Reviewed       []ReviewedAnswer `json:"reviewedAnswers"`
	CorrectCount   int              `json:"correctCount"`
	TotalQuestions int              `json:"totalQuestions"`
}

// Passed reports whether the result meets the given threshold.
func (r Result) Passed(threshold int) bool {
	return r.Score >= threshold
}

// Grade scores answers against the canonical questions. It is pure: the same
// inputs always produce the same Result, and the reviewed answers follow the
// canonical question order.
//
// When several answers share a question id, the last one submitted wins.
// Answers that reference unknown question ids are ignored.
func Grade(questions []Question, answers []Answer) Result {
	byQuestion := make(map[string]Answer, len(answers))
	for _, a := range answers {
		byQuestion[a.QuestionID] = a
	}

	res := Result{
		Reviewed:       make([]ReviewedAnswer, 0, len(questions)),
		TotalQuestions: len(questions),
	}
	for _, q := range questions {
		reviewed := ReviewedAnswer{QuestionID: q.ID}
		if a, ok := byQuestion[q.ID]; ok {
			reviewed.SelectedOption = a.SelectedOption
			reviewed.IsCorrect = sameOption(a.SelectedOption, q.CorrectAnswer)
		}
		if reviewed.IsCorrect {
			res.CorrectCount++
		}
		res.Reviewed = append(res.Reviewed, reviewed)
	}
	res.Score = Percent(res.CorrectCount, res.TotalQuestions)
	return res
}

// Percent returns correct/total as a 0..100 integer, rounding halves up.
func Percent(correct, total int) int {
	if total <= 0 || correct <= 0 {
		return 0
	}
	if correct >= total {
		return 100
	}
	return (correct*200 + total) / (total * 2)
}

// sameOption is strict equality over JSON scalars: kinds must match, so the
// number 1 never equals the string "1". Null, arrays and objects never match.
func sameOption(selected, correct any) bool {
	selected, correct = normalize(selected), normalize(correct)
	switch c := correct.(type) {
	case string:
		s, ok := selected.(string)
		return ok && s == c
	case float64:
		s, ok := selected.(float64)
		return ok && s == c
	case bool:
		s, ok := selected.(bool)
		return ok && s == c
	default:
		return false
	}
}

func normalize(v any) any {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case json.Number:
		if f, err := n.Float64(); err == nil {
			return f
		}
		return nil
	default:
		return v
	}
}
