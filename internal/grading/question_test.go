package grading

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestions(t *testing.T) {
	raw := `[
		{"id":"q1","question":"2+2?","options":["3","4"],"correctAnswer":1,"explanation":"basic"},
		{"id":"q2","question":"Capital of France?","options":["Paris","Rome"],"correctAnswer":"Paris"}
	]`

	questions, err := ParseQuestions(raw)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "q1", questions[0].ID)
	assert.Equal(t, float64(1), questions[0].CorrectAnswer)
	assert.Equal(t, []string{"3", "4"}, questions[0].Options)
	assert.Equal(t, "Paris", questions[1].CorrectAnswer)
}

func TestParseQuestions_Errors(t *testing.T) {
	cases := map[string]struct {
		raw  string
		want error
	}{
		"empty array":        {`[]`, ErrNoQuestions},
		"blank":              {`   `, ErrMalformedContent},
		"not json":           {`what is 2+2?`, ErrMalformedContent},
		"object":             {`{"questions":[]}`, ErrMalformedContent},
		"missing id":         {`[{"correctAnswer":1}]`, ErrMalformedContent},
		"null answer":        {`[{"id":"q1","correctAnswer":null}]`, ErrMalformedContent},
		"missing answer":     {`[{"id":"q1"}]`, ErrMalformedContent},
		"array answer":       {`[{"id":"q1","correctAnswer":[1]}]`, ErrMalformedContent},
		"duplicate ids":      {`[{"id":"q1","correctAnswer":1},{"id":"q1","correctAnswer":2}]`, ErrMalformedContent},
		"numeric id is junk": {`[{"id":7,"correctAnswer":1}]`, ErrMalformedContent},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseQuestions(tc.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestParseAnswers_DropsMalformedEntries(t *testing.T) {
	entries := []json.RawMessage{
		json.RawMessage(`{"questionId":"q1","selectedOption":1}`),
		json.RawMessage(`"q2"`),
		json.RawMessage(`42`),
		json.RawMessage(`{"selectedOption":1}`),
		json.RawMessage(`{"questionId":5,"selectedOption":1}`),
		json.RawMessage(`{"questionId":"q3","selectedOption":{"nested":true}}`),
		json.RawMessage(`{"questionId":"q4"}`),
		json.RawMessage(`{"questionId":"q5","selectedOption":null}`),
		json.RawMessage(`null`),
	}

	answers, dropped := ParseAnswers(entries)

	assert.Equal(t, 6, dropped)
	require.Len(t, answers, 3)
	assert.Equal(t, Answer{QuestionID: "q1", SelectedOption: float64(1)}, answers[0])
	assert.Equal(t, Answer{QuestionID: "q4"}, answers[1])
	assert.Equal(t, Answer{QuestionID: "q5"}, answers[2])
}

func TestStripAnswerKeys(t *testing.T) {
	public := StripAnswerKeys([]Question{{ID: "q1", Prompt: "p", Options: []string{"a"}, CorrectAnswer: float64(0)}})

	require.Len(t, public, 1)
	b, err := json.Marshal(public)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "correctAnswer")
}
