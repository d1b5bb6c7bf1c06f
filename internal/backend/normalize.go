package backend

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/examprep/internal/question"
)

// wireQuestion is a question as backends send it. Several fields come in
// more than one shape.
type wireQuestion struct {
	ID            json.RawMessage    `json:"id"`
	Stem          string             `json:"stem"`
	Choices       []json.RawMessage  `json:"choices"`
	CorrectAnswer *string            `json:"correctAnswer"`
	Explanation   json.RawMessage    `json:"explanation"`
	Metadata      *question.Metadata `json:"metadata"`
	Tags          []string           `json:"tags"`
}

// normalizeQuestion converts a wire question into the domain type. Search
// results must carry a correct answer; assessment questions may not.
func normalizeQuestion(w wireQuestion, requireAnswer bool) (question.Question, error) {
	id, err := normalizeID(w.ID)
	if err != nil {
		return question.Question{}, fmt.Errorf("id: %w", err)
	}

	q := question.Question{
		ID:       id,
		Stem:     strings.TrimSpace(w.Stem),
		Metadata: w.Metadata,
		Tags:     question.NormalizeTags(w.Tags),
	}

	if len(w.Choices) == 0 {
		return question.Question{}, fmt.Errorf("question %s: no choices", id)
	}
	q.Choices = make([]question.Choice, 0, len(w.Choices))
	for i, raw := range w.Choices {
		c, err := normalizeChoice(raw, i)
		if err != nil {
			return question.Question{}, fmt.Errorf("question %s choice %d: %w", id, i, err)
		}
		if q.HasChoice(c.Label) {
			return question.Question{}, fmt.Errorf("question %s: duplicate choice %q", id, c.Label)
		}
		q.Choices = append(q.Choices, c)
	}

	if w.CorrectAnswer != nil {
		q.CorrectAnswer = strings.TrimSpace(*w.CorrectAnswer)
	}
	switch {
	case q.CorrectAnswer == "" && requireAnswer:
		return question.Question{}, fmt.Errorf("question %s: missing correct answer", id)
	case q.CorrectAnswer != "" && !q.HasChoice(q.CorrectAnswer):
		return question.Question{}, fmt.Errorf("question %s: correct answer %q is not a choice", id, q.CorrectAnswer)
	}

	q.Explanation, err = normalizeExplanation(w.Explanation)
	if err != nil {
		return question.Question{}, fmt.Errorf("question %s explanation: %w", id, err)
	}
	return q, nil
}

// normalizeQuestions converts a response's question list. IDs must be
// unique within one response.
func normalizeQuestions(ws []wireQuestion, requireAnswer bool) ([]question.Question, error) {
	out := make([]question.Question, 0, len(ws))
	seen := make(map[string]bool, len(ws))
	for _, w := range ws {
		q, err := normalizeQuestion(w, requireAnswer)
		if err != nil {
			return nil, err
		}
		if seen[q.ID] {
			return nil, fmt.Errorf("duplicate question id %q", q.ID)
		}
		seen[q.ID] = true
		out = append(out, q)
	}
	return out, nil
}

// normalizeID accepts a JSON string or number.
func normalizeID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errors.New("missing")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return "", errors.New("empty")
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("not a string or number: %s", raw)
	}
	return n.String(), nil
}

// normalizeChoice accepts {"label","text"} or a bare string. Missing labels
// are assigned by position: A, B, C...
func normalizeChoice(raw json.RawMessage, i int) (question.Choice, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '"' {
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return question.Choice{}, err
		}
		return question.Choice{Label: choiceLabel(i), Text: text}, nil
	}

	var c question.Choice
	if err := json.Unmarshal(raw, &c); err != nil {
		return question.Choice{}, err
	}
	c.Label = strings.TrimSpace(c.Label)
	if c.Label == "" {
		c.Label = choiceLabel(i)
	}
	return c, nil
}

func choiceLabel(i int) string {
	if i < 26 {
		return string(rune('A' + i))
	}
	return fmt.Sprintf("%c%d", 'A'+i%26, i/26)
}

// normalizeExplanation accepts a plain string or {"summary","choices"}.
func normalizeExplanation(raw json.RawMessage) (*question.Explanation, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return &question.Explanation{Summary: s}, nil
	}
	var e question.Explanation
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	return &e, nil
}
