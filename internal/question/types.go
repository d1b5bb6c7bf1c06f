package question

// Question is a single multiple-choice item as delivered by the question
// source. The engine treats it as read-only.
type Question struct {
	// ID is unique and stable across fetches.
	ID string `json:"id"`

	// Stem is the question prompt shown to the learner.
	Stem string `json:"stem"`

	// Choices are the labeled options in display order.
	Choices []Choice `json:"choices"`

	// CorrectAnswer is the label of the correct choice, e.g. "C".
	CorrectAnswer string `json:"correctAnswer"`

	// Explanation is shown once the question is revealed. Nil if the source
	// provided none.
	Explanation *Explanation `json:"explanation,omitempty"`

	// Metadata carries the optional classification fields.
	Metadata *Metadata `json:"metadata,omitempty"`

	Tags []string `json:"tags,omitempty"`
}

// Choice is one labeled answer option.
type Choice struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// Explanation holds the worked rationale for a question.
type Explanation struct {
	Summary string `json:"summary"`

	// Choices maps a choice label to the rationale for that option.
	Choices map[string]string `json:"choices,omitempty"`
}

// Metadata classifies a question.
type Metadata struct {
	Subject    string `json:"subject,omitempty"`
	System     string `json:"system,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	Status     string `json:"status,omitempty"`
}

// HasChoice reports whether label names one of the question's choices.
func (q Question) HasChoice(label string) bool {
	for _, c := range q.Choices {
		if c.Label == label {
			return true
		}
	}
	return false
}

// ChoiceByLabel returns the choice with the given label.
func (q Question) ChoiceByLabel(label string) (Choice, bool) {
	for _, c := range q.Choices {
		if c.Label == label {
			return c, true
		}
	}
	return Choice{}, false
}

// FilterOptions lists the values the question source accepts for each
// filter dimension.
type FilterOptions struct {
	Subjects     []string `json:"subjects"`
	Systems      []string `json:"systems"`
	Statuses     []string `json:"statuses"`
	Difficulties []string `json:"difficulties"`
	Tags         []string `json:"tags"`
}

// SearchQuery is a single paged request against the question source.
type SearchQuery struct {
	Query    string
	Tags     []string
	Metadata Metadata
	Limit    int
	Offset   int
}

// Pagination is the server-reported paging state of a search page.
type Pagination struct {
	Total    int `json:"total"`
	Limit    int `json:"limit"`
	Offset   int `json:"offset"`
	Returned int `json:"returned"`
}

// Page is one page of search results.
type Page struct {
	Questions  []Question
	Pagination Pagination
}
