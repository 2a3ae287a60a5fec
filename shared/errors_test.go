package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapUntagged(t *testing.T) {
	err := Wrap(errors.New("connection reset"), KindHttp, "timelines.home failed")
	assert.Equal(t, KindHttp, err.Kind)
	assert.Equal(t, "timelines.home failed", err.Message)
	assert.Equal(t, 0, err.HttpStatus)
	assert.Equal(t, "timelines.home failed: connection reset", err.Error())
}

func TestWrapIsIdempotent(t *testing.T) {
	first := Wrap(&HttpStatusError{Status: 401, StatusText: "Unauthorized", RemoteMsg: "The access token is invalid"},
		KindAuth, "token exchange failed")
	assert.Equal(t, 401, first.HttpStatus)
	second := Wrap(first, KindHttp, "something else")
	assert.Same(t, first, second)

	// Also when the tagged error is wrapped by fmt.Errorf
	third := Wrap(fmt.Errorf("outer: %w", first), KindUnknown, "x")
	assert.Same(t, first, third)
}

func TestWrapNil(t *testing.T) {
	err := Wrap(nil, KindConfig, "missing base URL")
	assert.Equal(t, KindConfig, err.Kind)
	assert.Equal(t, "missing base URL", err.Error())
}

func TestStatusFromWrappedHttpError(t *testing.T) {
	inner := fmt.Errorf("get: %w", &HttpStatusError{Status: 404, StatusText: "Not Found"})
	err := Wrap(inner, KindHttp, "accounts.get failed")
	assert.Equal(t, 404, err.HttpStatus)
	assert.Contains(t, err.Error(), "404 Not Found")
}

func TestSentinelMatching(t *testing.T) {
	sentinel := NewError(KindHttp, "Account not found")
	err := &TaggedError{Kind: KindHttp, Message: "Account not found", HttpStatus: 404, Cause: errors.New("boom")}
	assert.True(t, errors.Is(err, sentinel))
	assert.False(t, errors.Is(NewError(KindAuth, "Account not found"), sentinel))
	assert.Equal(t, KindHttp, KindOf(fmt.Errorf("x: %w", err)))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}
