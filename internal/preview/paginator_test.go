package preview

import (
	"context"
	"errors"
	"fmt"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/examprep/internal/question"
)

type fakeSource struct {
	bySubject map[string][]question.Question
	err       error
	queries   []question.SearchQuery
}

func (f *fakeSource) Search(_ context.Context, q question.SearchQuery) (question.Page, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return question.Page{}, f.err
	}
	all := f.bySubject[q.Metadata.Subject]
	lo := min(q.Offset, len(all))
	hi := min(q.Offset+q.Limit, len(all))
	return question.Page{
		Questions: all[lo:hi],
		Pagination: question.Pagination{
			Total:    len(all),
			Limit:    q.Limit,
			Offset:   q.Offset,
			Returned: hi - lo,
		},
	}, nil
}

func mkQuestions(prefix string, n int) []question.Question {
	qs := make([]question.Question, n)
	for i := range qs {
		qs[i] = question.Question{ID: fmt.Sprintf("%s-%d", prefix, i), CorrectAnswer: "A"}
	}
	return qs
}

func run(p *Paginator, cmd tea.Cmd) {
	if cmd != nil {
		p.Update(cmd())
	}
}

func TestPagination(t *testing.T) {
	src := &fakeSource{bySubject: map[string][]question.Question{"cardio": mkQuestions("c", 25)}}
	f := question.Filters{Subject: "cardio"}

	for n := 0; n <= 3; n++ {
		t.Run(fmt.Sprintf("load more x%d", n), func(t *testing.T) {
			p := New(src, nil)
			run(p, p.LoadPreview(f))
			for range n {
				run(p, p.LoadMorePreview())
			}

			assert.Len(t, p.Items(), min(25, DefaultPageSize*(n+1)))
			assert.Equal(t, 25, p.Total())
			assert.Equal(t, len(p.Items()), p.Cursor())
			assert.Equal(t, n < 2, p.CanLoadMore())

			seen := map[string]bool{}
			for _, q := range p.Items() {
				assert.False(t, seen[q.ID], "duplicate %s", q.ID)
				seen[q.ID] = true
			}
		})
	}
}

func TestLoadMoreUsesLastFilters(t *testing.T) {
	src := &fakeSource{bySubject: map[string][]question.Question{"renal": mkQuestions("r", 15)}}
	p := New(src, nil)

	f := question.Filters{Subject: "renal"}
	run(p, p.LoadPreview(f))
	f.Subject = "changed"

	run(p, p.LoadMorePreview())
	require.Len(t, src.queries, 2)
	assert.Equal(t, "renal", src.queries[1].Metadata.Subject)
	assert.Equal(t, 10, src.queries[1].Offset)
	assert.Len(t, p.Items(), 15)
	assert.False(t, p.CanLoadMore())
	assert.Nil(t, p.LoadMorePreview(), "nothing left to load")
}

func TestLoadMoreWithoutPreview(t *testing.T) {
	p := New(&fakeSource{}, nil)
	assert.Nil(t, p.LoadMorePreview())
}

func TestStaleResponseDropped(t *testing.T) {
	src := &fakeSource{bySubject: map[string][]question.Question{
		"old": mkQuestions("o", 3),
		"new": mkQuestions("n", 2),
	}}
	p := New(src, nil)

	stale := p.LoadPreview(question.Filters{Subject: "old"})
	fresh := p.LoadPreview(question.Filters{Subject: "new"})

	run(p, fresh)
	run(p, stale)

	assert.Equal(t, 2, p.Total())
	require.Len(t, p.Items(), 2)
	assert.Equal(t, "n-0", p.Items()[0].ID)
	assert.Equal(t, "new", p.Filters().Subject)
}

func TestAppendDeduplicates(t *testing.T) {
	// The server shifted: the second page repeats one item from the first.
	qs := mkQuestions("d", 12)
	src := &fakeSource{bySubject: map[string][]question.Question{"": qs}}
	p := New(src, nil)
	p.PageSize = 5

	run(p, p.LoadPreview(question.Filters{}))
	msg := p.LoadMorePreview()()
	loaded := msg.(pageLoadedMsg)
	loaded.page.Questions = append([]question.Question{qs[4]}, loaded.page.Questions...)
	p.Update(loaded)

	assert.Len(t, p.Items(), 10)
}

func TestErrors(t *testing.T) {
	src := &fakeSource{bySubject: map[string][]question.Question{"s": mkQuestions("s", 30)}}
	p := New(src, nil)
	run(p, p.LoadPreview(question.Filters{Subject: "s"}))
	require.Len(t, p.Items(), 10)

	src.err = errors.New("search: HTTP 502")
	run(p, p.LoadMorePreview())
	assert.Equal(t, "search: HTTP 502", p.ErrorMessage())
	assert.Len(t, p.Items(), 10, "append failure keeps results")
	assert.Equal(t, 30, p.Total())
	assert.False(t, p.Loading())

	run(p, p.LoadPreview(question.Filters{Subject: "s"}))
	assert.Empty(t, p.Items(), "fresh load failure clears results")
	assert.Zero(t, p.Total())
	assert.False(t, p.CanLoadMore())

	src.err = nil
	run(p, p.LoadPreview(question.Filters{Subject: "s"}))
	assert.Empty(t, p.ErrorMessage())
	assert.Len(t, p.Items(), 10)
}

func TestErrorMessageTimeout(t *testing.T) {
	p := New(&fakeSource{err: context.DeadlineExceeded}, nil)
	run(p, p.LoadPreview(question.Filters{}))
	assert.Equal(t, "preview request timed out", p.ErrorMessage())
}
