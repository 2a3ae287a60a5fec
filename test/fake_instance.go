package test

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"

	"github.com/gorilla/mux"

	"ghostodon/dto"
)

type recordedRequest struct {
	method string
	path   string
	query  url.Values
	header http.Header
	body   string
}

// fakeInstance is a scripted Mastodon server. Unrouted paths return 404 with a Mastodon-style error body.
type fakeInstance struct {
	srv    *httptest.Server
	router *mux.Router

	mu       sync.Mutex
	requests []recordedRequest
}

func newFakeInstance() *fakeInstance {
	fi := &fakeInstance{router: mux.NewRouter()}
	fi.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fi.record(r)
		writeRaw(w, http.StatusNotFound, `{"error":"Record not found"}`)
	})
	fi.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fi.record(r)
			next.ServeHTTP(w, r)
		})
	})
	fi.srv = httptest.NewServer(fi.router)
	return fi
}

func (fi *fakeInstance) origin() string {
	return fi.srv.URL
}

func (fi *fakeInstance) Close() {
	fi.srv.Close()
}

func (fi *fakeInstance) record(r *http.Request) {
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
	}
	fi.mu.Lock()
	defer fi.mu.Unlock()
	fi.requests = append(fi.requests, recordedRequest{
		method: r.Method,
		path:   r.URL.Path,
		query:  r.URL.Query(),
		header: r.Header.Clone(),
		body:   string(body),
	})
}

func (fi *fakeInstance) handle(method, path string, fn http.HandlerFunc) {
	fi.router.HandleFunc(path, fn).Methods(method)
}

func (fi *fakeInstance) json(method, path string, status int, body string) {
	fi.handle(method, path, func(w http.ResponseWriter, r *http.Request) {
		writeRaw(w, status, body)
	})
}

func (fi *fakeInstance) hits(path string) int {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	res := 0
	for _, req := range fi.requests {
		if req.path == path {
			res++
		}
	}
	return res
}

func (fi *fakeInstance) last(path string) *recordedRequest {
	fi.mu.Lock()
	defer fi.mu.Unlock()
	for i := len(fi.requests) - 1; i >= 0; i-- {
		if fi.requests[i].path == path {
			req := fi.requests[i]
			return &req
		}
	}
	return nil
}

func writeRaw(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, body)
}

func accountJson(id, acct string) string {
	return fmt.Sprintf(`{"id":%q,"acct":%q,"username":%q,"display_name":"","avatar":"https://cdn.example/%s.png"}`,
		id, acct, acct, id)
}

// makeStatuses returns n statuses with ids counting down from top.
func makeStatuses(top, n int) []dto.Status {
	res := make([]dto.Status, 0, n)
	for i := 0; i < n; i++ {
		res = append(res, dto.Status{Id: strconv.Itoa(top - i)})
	}
	return res
}

func ids[T dto.Identified](items []T) []string {
	res := make([]string, 0, len(items))
	for _, item := range items {
		res = append(res, item.GetId())
	}
	return res
}
