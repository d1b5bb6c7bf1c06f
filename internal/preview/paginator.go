// Package preview pages through the questions a filter selection matches,
// so the learner can inspect them before starting a block.
package preview

import (
	"context"
	"errors"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/examprep/internal/question"
)

// DefaultPageSize is the number of questions fetched per page.
const DefaultPageSize = 10

// Source returns pages of questions for a search.
type Source interface {
	Search(ctx context.Context, q question.SearchQuery) (question.Page, error)
}

// Paginator accumulates preview pages. Only the response to the most recent
// request is applied; earlier in-flight responses are dropped.
type Paginator struct {
	source   Source
	log      *zap.Logger
	timeout  time.Duration
	PageSize int

	filters *question.Filters
	items   []question.Question
	seen    map[string]bool
	total   int
	cursor  int
	loading bool
	err     error
	seq     int
}

// New creates an empty Paginator. A nil logger disables logging.
func New(source Source, log *zap.Logger) *Paginator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Paginator{
		source:   source,
		log:      log,
		timeout:  30 * time.Second,
		PageSize: DefaultPageSize,
		seen:     map[string]bool{},
	}
}

type pageLoadedMsg struct {
	seq    int
	append bool
	page   question.Page
	err    error
}

// LoadPreview discards the current results and fetches the first page for
// filters. It supersedes any request still in flight.
func (p *Paginator) LoadPreview(filters question.Filters) tea.Cmd {
	f := filters.Snapshot()
	p.filters = &f
	p.seq++
	p.loading = true
	p.err = nil
	return p.fetch(f, 0, false)
}

// LoadMorePreview fetches the next page for the filters last passed to
// LoadPreview.
func (p *Paginator) LoadMorePreview() tea.Cmd {
	if p.filters == nil || p.loading || !p.CanLoadMore() {
		return nil
	}
	p.seq++
	p.loading = true
	p.err = nil
	return p.fetch(*p.filters, p.cursor, true)
}

func (p *Paginator) fetch(f question.Filters, offset int, appendPage bool) tea.Cmd {
	seq, source, timeout := p.seq, p.source, p.timeout
	size := p.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		page, err := source.Search(ctx, f.SearchQuery(size, offset))
		return pageLoadedMsg{seq: seq, append: appendPage, page: page, err: err}
	}
}

// Update applies page responses. Responses to superseded requests are
// ignored.
func (p *Paginator) Update(msg tea.Msg) {
	m, ok := msg.(pageLoadedMsg)
	if !ok {
		return
	}
	if m.seq != p.seq {
		p.log.Debug("dropping stale preview page", zap.Int("seq", m.seq), zap.Int("current", p.seq))
		return
	}
	p.loading = false

	if m.err != nil {
		p.err = m.err
		if !m.append {
			p.items = nil
			p.seen = map[string]bool{}
			p.total = 0
			p.cursor = 0
		}
		return
	}

	if !m.append {
		p.items = nil
		p.seen = map[string]bool{}
	}
	for _, q := range m.page.Questions {
		if p.seen[q.ID] {
			continue
		}
		p.seen[q.ID] = true
		p.items = append(p.items, q)
	}
	p.total = m.page.Pagination.Total
	p.cursor = m.page.Pagination.Offset + m.page.Pagination.Returned

	// An empty page means the server has nothing more, whatever it claims.
	if m.page.Pagination.Returned == 0 && p.cursor < p.total {
		p.total = p.cursor
	}
}

// Items returns the accumulated questions in fetch order.
func (p *Paginator) Items() []question.Question { return p.items }

// Total returns the server-reported match count.
func (p *Paginator) Total() int { return p.total }

// Cursor returns the offset of the next page.
func (p *Paginator) Cursor() int { return p.cursor }

// CanLoadMore reports whether more matches remain.
func (p *Paginator) CanLoadMore() bool { return p.cursor < p.total }

// Loading reports whether a request is in flight.
func (p *Paginator) Loading() bool { return p.loading }

// Filters returns the filters of the last LoadPreview, or nil.
func (p *Paginator) Filters() *question.Filters { return p.filters }

// Err returns the last failure.
func (p *Paginator) Err() error { return p.err }

// ErrorMessage returns the last failure as display text.
func (p *Paginator) ErrorMessage() string {
	if p.err == nil {
		return ""
	}
	if errors.Is(p.err, context.DeadlineExceeded) {
		return "preview request timed out"
	}
	return p.err.Error()
}
