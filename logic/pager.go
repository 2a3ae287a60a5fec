package logic

import (
	"context"
	"errors"
	"sync"

	"ghostodon/dto"
)

type PagerStatus string

const (
	PagerIdle    PagerStatus = "idle"
	PagerLoading PagerStatus = "loading"
	PagerReady   PagerStatus = "ready"
	PagerErrored PagerStatus = "errored"
)

var ErrFetchInFlight = errors.New("a page fetch is already in flight")
var ErrFetchSuperseded = errors.New("page fetch was superseded by a reset")

type FetchPageFunc[T dto.Identified] func(ctx context.Context, params dto.PageParams) ([]T, error)

// Pager walks an unbounded, newest-first feed with a max_id cursor. Pages are
// only ever appended; a new page is never requested before the previous one
// has come back.
type Pager[T dto.Identified] struct {
	name    string
	fetch   FetchPageFunc[T]
	first   int
	more    int
	metrics IMetrics

	mu       sync.Mutex
	gen      uint64
	pages    [][]T
	cursor   string
	hasMore  bool
	inFlight bool
	status   PagerStatus
	lastErr  error
}

type PagerSnapshot[T dto.Identified] struct {
	Status  PagerStatus
	Items   []T
	Pages   int
	HasMore bool
	Err     error
}

func NewPager[T dto.Identified](name string, fetch FetchPageFunc[T], first, more int, metrics IMetrics) *Pager[T] {
	return &Pager[T]{
		name:    name,
		fetch:   fetch,
		first:   first,
		more:    more,
		metrics: metrics,
		hasMore: true,
		status:  PagerIdle,
	}
}

// NextCursor decides whether there is a page after page, given the pages that came before it.
func NextCursor[T dto.Identified](page []T, prevPages [][]T, requested int) (string, bool) {
	if len(page) == 0 || len(page) < requested {
		return "", false
	}
	lastId := page[len(page)-1].GetId()
	if lastId == "" {
		return "", false
	}
	if len(prevPages) != 0 {
		prev := prevPages[len(prevPages)-1]
		if len(prev) != 0 && prev[len(prev)-1].GetId() == lastId {
			return "", false
		}
	}
	return lastId, true
}

func (p *Pager[T]) nextParams() dto.PageParams {
	if len(p.pages) == 0 {
		return dto.PageParams{Limit: p.first}
	}
	return dto.PageParams{Limit: p.more, MaxId: p.cursor}
}

// FetchNext loads the next page. It returns ErrFetchInFlight without
// touching the network if a fetch is already running, and (false, nil) when
// the feed is exhausted. A result that arrives after Reset is dropped and
// reported as ErrFetchSuperseded.
func (p *Pager[T]) FetchNext(ctx context.Context) (bool, error) {

	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return false, ErrFetchInFlight
	}
	if !p.hasMore {
		p.mu.Unlock()
		return false, nil
	}
	params := p.nextParams()
	gen := p.gen
	p.inFlight = true
	p.status = PagerLoading
	p.mu.Unlock()

	page, err := p.fetch(ctx, params)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.gen {
		return false, ErrFetchSuperseded
	}
	p.inFlight = false
	if err != nil {
		p.status = PagerErrored
		p.lastErr = err
		return false, err
	}

	cursor, more := NextCursor(page, p.pages, params.Limit)
	if !more && len(page) >= params.Limit && len(page) != 0 && p.metrics != nil {
		p.metrics.PaginationStalled(p.name)
	}
	p.pages = append(p.pages, page)
	p.cursor = cursor
	p.hasMore = more
	p.status = PagerReady
	p.lastErr = nil
	if p.metrics != nil {
		p.metrics.PageFetched(p.name)
	}
	return true, nil
}

// Reset drops all pages. A fetch still running keeps running, but its result is discarded.
func (p *Pager[T]) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	p.pages = nil
	p.cursor = ""
	p.hasMore = true
	p.inFlight = false
	p.status = PagerIdle
	p.lastErr = nil
}

func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.items()
}

func (p *Pager[T]) items() []T {
	var res []T
	for _, page := range p.pages {
		res = append(res, page...)
	}
	return res
}

func (p *Pager[T]) FirstPage() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pages) == 0 {
		return nil
	}
	return append([]T{}, p.pages[0]...)
}

func (p *Pager[T]) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.hasMore
}

func (p *Pager[T]) InFlight() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.inFlight
}

func (p *Pager[T]) Snapshot() PagerSnapshot[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PagerSnapshot[T]{
		Status:  p.status,
		Items:   p.items(),
		Pages:   len(p.pages),
		HasMore: p.hasMore,
		Err:     p.lastErr,
	}
}

// DedupeById keeps the first occurrence of each id, in order.
func DedupeById[T dto.Identified](items []T) []T {
	seen := make(map[string]bool, len(items))
	res := make([]T, 0, len(items))
	for _, item := range items {
		id := item.GetId()
		if seen[id] {
			continue
		}
		seen[id] = true
		res = append(res, item)
	}
	return res
}
