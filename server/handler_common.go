package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ghostodon/logic"
	"ghostodon/shared"
)

const (
	apiKeyHeader      = "X-API-KEY"
	apiKeyParam       = "api_key"
	rootPlacholder    = "*root*"
	internalErrorStr  = "500 Internal Server Error"
	badRequestStr     = "400 Invalid Request"
	dirListNotAllowed = "403 Directory Listing Not Allowed"
	badApiKeyStr      = "401 Missing or Invalid API Key"
	badAuthorization  = "401 Missing or Invalid Authorization"
	metricsAuthHeader = "Authorization"
	maxBodyBytes      = 1 << 20
	maxUploadBytes    = 40 << 20
)

// Defines a single HTTP handler (endpoint)
type handlerDef struct {
	method  string
	pattern string
	handler func(http.ResponseWriter, *http.Request)
}

// IHandlerGroup groups together multiple HTTP handler definitions.
type IHandlerGroup interface {
	Prefix() string
	GroupDefs() []handlerDef
	AuthMW() func(next http.Handler) http.Handler
}

func emptyMW(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.ServeHTTP(w, r)
	})
}

// apiKeyMW accepts a configured key in the X-API-KEY header, or in the api_key
// query param for clients that cannot set headers (browser WebSockets).
func apiKeyMW(cfg *shared.Config, logger shared.ILogger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := r.Header.Get(apiKeyHeader)
		if apiKey == "" {
			apiKey = r.URL.Query().Get(apiKeyParam)
		}
		found := false
		for _, key := range cfg.Secrets.ApiKeys {
			if apiKey != "" && apiKey == key {
				found = true
			}
		}
		if !found {
			logger.Warnf("API request with missing or invalid key '%s': %s", shared.TokenPrefix(apiKey), r.URL.Path)
			writeErrorResponse(w, badApiKeyStr, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Returns the JSON serialized object as the response body; handles errors.
func writeJsonResponse(logger shared.ILogger, w http.ResponseWriter, resp interface{}) {
	w.Header().Set("Content-Type", "application/json")
	var err error
	var respJson []byte
	if respJson, err = json.Marshal(resp); err != nil {
		logger.Warnf("Failed to serialize response: %v\n", err)
		http.Error(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
	if _, err = fmt.Fprintln(w, string(respJson)); err != nil {
		logger.Warnf("Failed to write response: %v\n", err)
		http.Error(w, internalErrorStr, http.StatusInternalServerError)
		return
	}
}

type errorResp struct {
	Error     string `json:"error"`
	Status    int    `json:"status"`
	Kind      string `json:"kind,omitempty"`
	Retryable bool   `json:"retryable,omitempty"`
}

func writeErrorResponse(w http.ResponseWriter, msg string, code int) {
	writeErrorJson(w, errorResp{Error: msg, Status: code})
}

func writeErrorJson(w http.ResponseWriter, resp errorResp) {
	w.Header().Set("Content-Type", "application/json")
	respJson, _ := json.Marshal(resp)
	http.Error(w, string(respJson), resp.Status)
}

// errorToResp maps a domain error to the status the local client sees.
// Remote 4xx statuses pass through; remote 5xx and transport failures become 502.
func errorToResp(err error) errorResp {
	tagged := shared.Wrap(err, shared.KindUnknown, "request failed")
	res := errorResp{Error: tagged.Error(), Kind: string(tagged.Kind)}

	switch {
	case errors.Is(err, logic.ErrNotConnected):
		res.Status = http.StatusUnauthorized
	case errors.Is(err, logic.ErrFetchInFlight), errors.Is(err, logic.ErrFetchSuperseded):
		res.Status = http.StatusConflict
		res.Retryable = true
	case tagged.HttpStatus >= 400 && tagged.HttpStatus < 500:
		res.Status = tagged.HttpStatus
		res.Retryable = tagged.HttpStatus == http.StatusTooManyRequests
	case tagged.Kind == shared.KindHttp || tagged.Kind == shared.KindStream:
		res.Status = http.StatusBadGateway
		res.Retryable = true
	case tagged.Kind == shared.KindAuth:
		res.Status = http.StatusUnauthorized
	case tagged.Kind == shared.KindConfig:
		res.Status = http.StatusBadRequest
	default:
		res.Status = http.StatusInternalServerError
	}
	return res
}

func writeDomainError(logger shared.ILogger, w http.ResponseWriter, r *http.Request, err error) {
	resp := errorToResp(err)
	if resp.Status >= 500 {
		logger.Warnf("%s %s failed: %v", r.Method, r.URL.Path, err)
	} else {
		logger.Infof("%s %s returned %d: %v", r.Method, r.URL.Path, resp.Status, err)
	}
	writeErrorJson(w, resp)
}

func readBody(logger shared.ILogger, w http.ResponseWriter, r *http.Request) []byte {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		logger.Warnf("Failed to read request body: %v", err)
		http.Error(w, badRequestStr, http.StatusBadRequest)
		return nil
	}
	return body
}

// readJsonBody decodes the request body into obj; on failure it has already replied.
func readJsonBody(logger shared.ILogger, w http.ResponseWriter, r *http.Request, obj any) bool {
	body := readBody(logger, w, r)
	if body == nil {
		return false
	}
	if err := json.Unmarshal(body, obj); err != nil {
		logger.Infof("Invalid JSON in %s %s: %v", r.Method, r.URL.Path, err)
		writeErrorResponse(w, badRequestStr, http.StatusBadRequest)
		return false
	}
	return true
}

func wantsJson(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
