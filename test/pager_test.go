package test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"ghostodon/dto"
	"ghostodon/logic"
	"ghostodon/test/mocks"
)

type scriptedFeed struct {
	mu     sync.Mutex
	pages  [][]dto.Status
	calls  []dto.PageParams
	errs   map[int]error
	gate   chan struct{}
	inCall chan struct{}
}

func (sf *scriptedFeed) fetch(ctx context.Context, params dto.PageParams) ([]dto.Status, error) {
	sf.mu.Lock()
	ix := len(sf.calls)
	sf.calls = append(sf.calls, params)
	gate := sf.gate
	sf.mu.Unlock()

	if sf.inCall != nil {
		sf.inCall <- struct{}{}
	}
	if gate != nil {
		<-gate
	}
	if err := sf.errs[ix]; err != nil {
		return nil, err
	}
	if ix >= len(sf.pages) {
		return []dto.Status{}, nil
	}
	return sf.pages[ix], nil
}

func (sf *scriptedFeed) callCount() int {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return len(sf.calls)
}

func setupPagerTest(t *testing.T, sf *scriptedFeed) (*gomock.Controller, *mocks.MockIMetrics, *logic.Pager[dto.Status]) {
	ctrl := gomock.NewController(t)
	mockMetrics := mocks.NewMockIMetrics(ctrl)
	setupDummyMetrics(ctrl, mockMetrics)
	return ctrl, mockMetrics, logic.NewPager[dto.Status]("home", sf.fetch, 20, 10, mockMetrics)
}

func TestPagerWalksUntilShortPage(t *testing.T) {
	sf := &scriptedFeed{pages: [][]dto.Status{
		makeStatuses(100, 20),
		makeStatuses(80, 10),
		makeStatuses(70, 10),
		makeStatuses(60, 3),
	}}
	ctrl, _, pager := setupPagerTest(t, sf)
	defer ctrl.Finish()

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		fetched, err := pager.FetchNext(ctx)
		assert.Nil(t, err)
		assert.True(t, fetched)
	}
	assert.False(t, pager.HasMore())

	// Exhausted: no more requests
	fetched, err := pager.FetchNext(ctx)
	assert.Nil(t, err)
	assert.False(t, fetched)
	assert.Equal(t, 4, sf.callCount())

	assert.Equal(t, dto.PageParams{Limit: 20}, sf.calls[0])
	assert.Equal(t, dto.PageParams{Limit: 10, MaxId: "81"}, sf.calls[1])
	assert.Equal(t, dto.PageParams{Limit: 10, MaxId: "71"}, sf.calls[2])
	assert.Equal(t, dto.PageParams{Limit: 10, MaxId: "61"}, sf.calls[3])

	snap := pager.Snapshot()
	assert.Equal(t, logic.PagerReady, snap.Status)
	assert.Equal(t, 4, snap.Pages)
	assert.Len(t, snap.Items, 43)
	assert.Equal(t, "100", snap.Items[0].Id)
	assert.Equal(t, "58", snap.Items[42].Id)
	assert.Len(t, pager.FirstPage(), 20)
}

func TestPagerEmptyFirstPage(t *testing.T) {
	sf := &scriptedFeed{pages: [][]dto.Status{{}}}
	ctrl, _, pager := setupPagerTest(t, sf)
	defer ctrl.Finish()

	fetched, err := pager.FetchNext(context.Background())
	assert.Nil(t, err)
	assert.True(t, fetched)
	assert.False(t, pager.HasMore())
	assert.Empty(t, pager.Items())
}

func TestPagerStopsWhenCursorDoesNotAdvance(t *testing.T) {
	first := makeStatuses(100, 20)
	// The server ignores max_id and hands back a page ending on the same id
	second := append(makeStatuses(90, 9), dto.Status{Id: "81"})
	sf := &scriptedFeed{pages: [][]dto.Status{first, second, makeStatuses(50, 10)}}
	ctrl, mockMetrics, pager := setupPagerTest(t, sf)
	defer ctrl.Finish()

	mockMetrics.EXPECT().PaginationStalled("home").Times(1)

	ctx := context.Background()
	_, err := pager.FetchNext(ctx)
	assert.Nil(t, err)
	_, err = pager.FetchNext(ctx)
	assert.Nil(t, err)
	assert.False(t, pager.HasMore())

	fetched, err := pager.FetchNext(ctx)
	assert.Nil(t, err)
	assert.False(t, fetched)
	assert.Equal(t, 2, sf.callCount())
}

func TestPagerRefusesConcurrentFetch(t *testing.T) {
	sf := &scriptedFeed{
		pages:  [][]dto.Status{makeStatuses(100, 20)},
		gate:   make(chan struct{}),
		inCall: make(chan struct{}, 1),
	}
	ctrl, _, pager := setupPagerTest(t, sf)
	defer ctrl.Finish()

	done := make(chan error)
	go func() {
		_, err := pager.FetchNext(context.Background())
		done <- err
	}()
	<-sf.inCall
	assert.True(t, pager.InFlight())

	_, err := pager.FetchNext(context.Background())
	assert.ErrorIs(t, err, logic.ErrFetchInFlight)

	close(sf.gate)
	assert.Nil(t, <-done)
	assert.Equal(t, 1, sf.callCount())
	assert.False(t, pager.InFlight())
}

func TestPagerResetDropsLateResult(t *testing.T) {
	sf := &scriptedFeed{
		pages:  [][]dto.Status{makeStatuses(100, 20), makeStatuses(200, 20)},
		gate:   make(chan struct{}),
		inCall: make(chan struct{}, 1),
	}
	ctrl, _, pager := setupPagerTest(t, sf)
	defer ctrl.Finish()

	superseded := make(chan error)
	go func() {
		fetched, err := pager.FetchNext(context.Background())
		assert.False(t, fetched)
		superseded <- err
	}()
	<-sf.inCall
	pager.Reset()
	sf.gate <- struct{}{}
	assert.ErrorIs(t, <-superseded, logic.ErrFetchSuperseded)
	assert.Empty(t, pager.Items())
	assert.Equal(t, logic.PagerIdle, pager.Snapshot().Status)

	// The fresh walk starts from the top again
	done := make(chan bool)
	go func() {
		fetched, _ := pager.FetchNext(context.Background())
		done <- fetched
	}()
	<-sf.inCall
	sf.gate <- struct{}{}
	assert.True(t, <-done)
	assert.Equal(t, dto.PageParams{Limit: 20}, sf.calls[1])
	assert.Equal(t, "200", pager.Items()[0].Id)
}

func TestPagerErrorKeepsPagesAndAllowsRetry(t *testing.T) {
	boom := errors.New("boom")
	sf := &scriptedFeed{
		pages: [][]dto.Status{makeStatuses(100, 20), nil, makeStatuses(80, 10)},
		errs:  map[int]error{1: boom},
	}
	ctrl, _, pager := setupPagerTest(t, sf)
	defer ctrl.Finish()

	ctx := context.Background()
	_, err := pager.FetchNext(ctx)
	assert.Nil(t, err)

	_, err = pager.FetchNext(ctx)
	assert.ErrorIs(t, err, boom)
	snap := pager.Snapshot()
	assert.Equal(t, logic.PagerErrored, snap.Status)
	assert.Len(t, snap.Items, 20)
	assert.True(t, snap.HasMore)

	// Retry resends the same cursor; the scripted third page answers it
	fetched, err := pager.FetchNext(ctx)
	assert.Nil(t, err)
	assert.True(t, fetched)
	assert.Equal(t, sf.calls[1], sf.calls[2])
	assert.Len(t, pager.Items(), 30)
}

func TestNextCursor(t *testing.T) {
	page := makeStatuses(50, 10)

	cursor, more := logic.NextCursor(page, nil, 10)
	assert.True(t, more)
	assert.Equal(t, "41", cursor)

	_, more = logic.NextCursor(page, nil, 20)
	assert.False(t, more)

	_, more = logic.NextCursor([]dto.Status{}, nil, 10)
	assert.False(t, more)

	_, more = logic.NextCursor(page, [][]dto.Status{makeStatuses(50, 10)}, 10)
	assert.False(t, more)

	noId := append(makeStatuses(50, 9), dto.Status{})
	_, more = logic.NextCursor(noId, nil, 10)
	assert.False(t, more)
}

func TestDedupeById(t *testing.T) {
	items := []dto.Account{{Id: "1"}, {Id: "2"}, {Id: "1"}, {Id: "3"}, {Id: "2"}}
	assert.Equal(t, []string{"1", "2", "3"}, ids(logic.DedupeById(items)))
	assert.Empty(t, logic.DedupeById([]dto.Account{}))
}

func TestAutoLoaderDebounces(t *testing.T) {
	sf := &scriptedFeed{pages: [][]dto.Status{makeStatuses(100, 20), makeStatuses(80, 10)}}
	ctrl, _, pager := setupPagerTest(t, sf)
	defer ctrl.Finish()

	var mu sync.Mutex
	results := 0
	al := logic.NewAutoLoader(pager, 40*time.Millisecond, func(fetched bool, err error) {
		mu.Lock()
		defer mu.Unlock()
		assert.True(t, fetched)
		assert.Nil(t, err)
		results++
	})
	defer al.Stop()

	al.Hit()
	al.Hit()
	al.Hit()
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return results == 1
	}, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 1, sf.callCount())
}

func TestAutoLoaderStopCancelsPending(t *testing.T) {
	sf := &scriptedFeed{pages: [][]dto.Status{makeStatuses(100, 20)}}
	ctrl, _, pager := setupPagerTest(t, sf)
	defer ctrl.Finish()

	al := logic.NewAutoLoader(pager, 30*time.Millisecond, nil)
	al.Hit()
	al.Stop()
	al.Hit()
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, 0, sf.callCount())
}

func TestHomeTimelinePagesAgainstInstance(t *testing.T) {
	ctrl, h, client := setupClientTest(t)
	defer ctrl.Finish()
	h.instance.handle("GET", "/api/v1/timelines/home", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("max_id") {
		case "":
			writeRaw(w, 200, statusArrayJson(100, 20))
		case "81":
			writeRaw(w, 200, statusArrayJson(80, 10))
		case "71":
			writeRaw(w, 200, statusArrayJson(70, 4))
		default:
			writeRaw(w, 400, `{"error":"unexpected cursor"}`)
		}
	})

	pager := logic.NewPager[dto.Status]("home", client.Timelines.Home, h.cfg.PageFirst, h.cfg.PageMore, nil)
	ctx := context.Background()

	fetched, err := pager.FetchNext(ctx)
	require.Nil(t, err)
	assert.True(t, fetched)
	assert.True(t, pager.HasMore())
	assert.Equal(t, "20", h.instance.last("/api/v1/timelines/home").query.Get("limit"))

	fetched, err = pager.FetchNext(ctx)
	require.Nil(t, err)
	assert.True(t, fetched)
	assert.True(t, pager.HasMore())
	assert.Equal(t, "10", h.instance.last("/api/v1/timelines/home").query.Get("limit"))

	fetched, err = pager.FetchNext(ctx)
	require.Nil(t, err)
	assert.True(t, fetched)
	assert.False(t, pager.HasMore())

	assert.Len(t, pager.Items(), 34)
	assert.Equal(t, "67", pager.Items()[33].Id)
	assert.Equal(t, 3, h.instance.hits("/api/v1/timelines/home"))
}
