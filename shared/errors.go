package shared

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindHttp    ErrorKind = "HTTP_ERROR"
	KindAuth    ErrorKind = "AUTH_ERROR"
	KindConfig  ErrorKind = "CONFIG_ERROR"
	KindStream  ErrorKind = "STREAM_ERROR"
	KindUnknown ErrorKind = "UNKNOWN"
)

// TaggedError is the one error shape that crosses component boundaries.
// HttpStatus is 0 when no HTTP response was involved.
type TaggedError struct {
	Kind       ErrorKind
	Message    string
	HttpStatus int
	Cause      error
}

func (e *TaggedError) Error() string {
	if e.Cause == nil || e.Cause.Error() == e.Message {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *TaggedError) Unwrap() error {
	return e.Cause
}

// Is lets sentinel TaggedErrors match by kind and message.
func (e *TaggedError) Is(target error) bool {
	t, ok := target.(*TaggedError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

func NewError(kind ErrorKind, msg string) *TaggedError {
	return &TaggedError{Kind: kind, Message: msg}
}

// HttpStatusError is what the transport returns for a non-success response.
// It is deliberately untagged: the facade method that observed it does the tagging.
type HttpStatusError struct {
	Status     int
	StatusText string
	RemoteMsg  string
}

func (e *HttpStatusError) Error() string {
	if e.RemoteMsg != "" {
		return fmt.Sprintf("%d %s: %s", e.Status, e.StatusText, e.RemoteMsg)
	}
	return fmt.Sprintf("%d %s", e.Status, e.StatusText)
}

// Wrap normalizes any failure into a TaggedError. Already tagged errors pass through unchanged.
func Wrap(err error, fallbackKind ErrorKind, fallbackMessage string) *TaggedError {
	if err == nil {
		return &TaggedError{Kind: fallbackKind, Message: fallbackMessage}
	}
	var tagged *TaggedError
	if errors.As(err, &tagged) {
		return tagged
	}
	res := &TaggedError{Kind: fallbackKind, Message: fallbackMessage, Cause: err}
	var statusErr *HttpStatusError
	if errors.As(err, &statusErr) {
		res.HttpStatus = statusErr.Status
	}
	return res
}

// KindOf returns the kind of a tagged error, or UNKNOWN for anything else.
func KindOf(err error) ErrorKind {
	var tagged *TaggedError
	if errors.As(err, &tagged) {
		return tagged.Kind
	}
	return KindUnknown
}
