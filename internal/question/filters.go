package question

import (
	"fmt"
	"slices"
	"strings"
)

// DefaultTimePerQuestionSeconds is the per-question budget used by timed
// blocks when the filters do not set one.
const DefaultTimePerQuestionSeconds = 105

// Mode selects the reveal and timing policy of a practice block.
type Mode string

const (
	// ModeTimed reveals only at completion and always runs a clock.
	ModeTimed Mode = "timed"

	// ModeTutor reveals on answer and never runs a clock.
	ModeTutor Mode = "tutor"

	// ModeCustom reveals on answer only if ShowExplanationOnSubmit is set,
	// and runs a clock only if TimePerQuestionSeconds is set.
	ModeCustom Mode = "custom"
)

// ParseMode converts a user-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeTimed, ModeTutor, ModeCustom:
		return m, nil
	}
	return "", fmt.Errorf("unknown mode %q (want timed, tutor or custom)", s)
}

// Filters is the learner's selection used to build a practice block.
// Sessions hold a Snapshot of the value they were built from.
type Filters struct {
	Subject    string   `json:"subject,omitempty"`
	System     string   `json:"system,omitempty"`
	Status     string   `json:"status,omitempty"`
	Difficulty string   `json:"difficulty,omitempty"`
	Query      string   `json:"query,omitempty"`
	Tags       []string `json:"tags,omitempty"`

	QuestionCount  int  `json:"questionCount"`
	RandomizeOrder bool `json:"randomizeOrder"`

	// TimePerQuestionSeconds is nil when the learner did not set a budget.
	TimePerQuestionSeconds *int `json:"timePerQuestionSeconds,omitempty"`

	ShowExplanationOnSubmit bool `json:"showExplanationOnSubmit"`
}

// Snapshot returns a deep copy with tags de-duplicated and sorted, so that
// later edits to the caller's value cannot reach a running session.
func (f Filters) Snapshot() Filters {
	out := f
	out.Tags = NormalizeTags(f.Tags)
	if f.TimePerQuestionSeconds != nil {
		v := *f.TimePerQuestionSeconds
		out.TimePerQuestionSeconds = &v
	}
	return out
}

// Metadata returns the metadata dimensions of the filters.
func (f Filters) Metadata() Metadata {
	return Metadata{
		Subject:    f.Subject,
		System:     f.System,
		Difficulty: f.Difficulty,
		Status:     f.Status,
	}
}

// SearchQuery builds the search request for one page of these filters.
func (f Filters) SearchQuery(limit, offset int) SearchQuery {
	return SearchQuery{
		Query:    strings.TrimSpace(f.Query),
		Tags:     NormalizeTags(f.Tags),
		Metadata: f.Metadata(),
		Limit:    limit,
		Offset:   offset,
	}
}

// Fingerprint identifies the result set these filters select. Count,
// ordering and timing fields do not affect it.
func (f Filters) Fingerprint() string {
	return strings.Join([]string{
		f.Subject, f.System, f.Status, f.Difficulty,
		strings.TrimSpace(f.Query),
		strings.Join(NormalizeTags(f.Tags), ","),
	}, "|")
}

// NormalizeTags trims, de-duplicates and sorts a tag set.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		out = append(out, t)
	}
	slices.Sort(out)
	out = slices.Compact(out)
	if len(out) == 0 {
		return nil
	}
	return out
}
