package practice

import (
	"errors"
	"fmt"
)

// ErrNoMatches indicates the filters matched no questions.
var ErrNoMatches = errors.New("no questions match the selected filters")

// InsufficientQuestionsError indicates the source returned fewer questions
// than the block asked for.
type InsufficientQuestionsError struct {
	Requested int
	Available int
}

func (e *InsufficientQuestionsError) Error() string {
	return fmt.Sprintf("only %d of %d requested questions are available", e.Available, e.Requested)
}
