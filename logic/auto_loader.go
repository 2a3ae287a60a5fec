package logic

import (
	"context"
	"sync"
	"time"
)

type iPageSource interface {
	HasMore() bool
	InFlight() bool
	FetchNext(ctx context.Context) (bool, error)
}

// AutoLoader turns "the end of the list is visible" signals into at most one
// FetchNext per quiet period. Every Hit restarts the wait.
type AutoLoader struct {
	src     iPageSource
	delay   time.Duration
	onFetch func(fetched bool, err error)

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

func NewAutoLoader(src iPageSource, delay time.Duration, onFetch func(fetched bool, err error)) *AutoLoader {
	return &AutoLoader{
		src:     src,
		delay:   delay,
		onFetch: onFetch,
	}
}

func (al *AutoLoader) Hit() {
	al.mu.Lock()
	defer al.mu.Unlock()

	if al.stopped || !al.src.HasMore() || al.src.InFlight() {
		return
	}
	if al.timer != nil {
		al.timer.Stop()
	}
	al.timer = time.AfterFunc(al.delay, al.fire)
}

func (al *AutoLoader) fire() {
	al.mu.Lock()
	if al.stopped {
		al.mu.Unlock()
		return
	}
	al.timer = nil
	al.mu.Unlock()

	if !al.src.HasMore() || al.src.InFlight() {
		return
	}
	fetched, err := al.src.FetchNext(context.Background())
	if al.onFetch != nil {
		al.onFetch(fetched, err)
	}
}

// Stop cancels the pending timer. It does not touch a fetch already under way.
func (al *AutoLoader) Stop() {
	al.mu.Lock()
	defer al.mu.Unlock()

	al.stopped = true
	if al.timer != nil {
		al.timer.Stop()
		al.timer = nil
	}
}
