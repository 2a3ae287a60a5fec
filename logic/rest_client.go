package logic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/go-resty/resty/v2"

	"ghostodon/shared"
)

// ApiCall describes one request to the instance. At most one of Form, Json and File is set.
type ApiCall struct {
	Label  string
	Method string
	Path   string
	Query  url.Values
	Form   url.Values
	Json   any
	File   *UploadFile
}

type UploadFile struct {
	Field    string
	FileName string
	Reader   io.Reader
	Fields   map[string]string
}

type IRestClient interface {
	Origin() string
	// Do returns the decoded JSON body (nil for an empty body). Numbers are json.Number.
	Do(ctx context.Context, call *ApiCall) (any, error)
	// FinalUrl issues a GET, follows redirects and returns the URL it ended up at.
	FinalUrl(ctx context.Context, path string) (*url.URL, error)
}

type IRestFactory interface {
	New(origin, token string) IRestClient
}

type restFactory struct {
	cfg     *shared.Config
	logger  shared.ILogger
	metrics IMetrics
	ua      shared.IUserAgent
}

func NewRestFactory(cfg *shared.Config, logger shared.ILogger, metrics IMetrics, ua shared.IUserAgent) IRestFactory {
	return &restFactory{cfg, logger, metrics, ua}
}

func (rf *restFactory) New(origin, token string) IRestClient {
	c := resty.New().
		SetBaseURL(origin).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", rf.ua.Value()).
		SetTimeout(time.Duration(rf.cfg.HttpTimeoutSec) * time.Second)
	if token != "" {
		c.SetAuthToken(token)
	}
	return &restClient{
		origin:  origin,
		client:  c,
		logger:  rf.logger,
		metrics: rf.metrics,
	}
}

type restClient struct {
	origin  string
	client  *resty.Client
	logger  shared.ILogger
	metrics IMetrics
}

func (rc *restClient) Origin() string {
	return rc.origin
}

func (rc *restClient) Do(ctx context.Context, call *ApiCall) (any, error) {

	if rc.origin == "" {
		return nil, fmt.Errorf("%s %s: missing base URL", call.Method, call.Path)
	}

	label := call.Label
	if label == "" {
		label = call.Method + " " + call.Path
	}
	obs := rc.metrics.StartApiRequestOut(label)
	defer obs.Finish()

	req := rc.client.R().SetContext(ctx)
	if call.Query != nil {
		req.SetQueryParamsFromValues(call.Query)
	}
	switch {
	case call.Form != nil:
		req.SetFormDataFromValues(call.Form)
	case call.Json != nil:
		req.SetHeader("Content-Type", "application/json").SetBody(call.Json)
	case call.File != nil:
		req.SetFileReader(call.File.Field, call.File.FileName, call.File.Reader)
		if len(call.File.Fields) != 0 {
			req.SetMultipartFormData(call.File.Fields)
		}
	}

	resp, err := req.Execute(call.Method, call.Path)
	if err != nil {
		rc.logger.Debugf("%s %s%s failed: %v", call.Method, rc.origin, call.Path, err)
		return nil, fmt.Errorf("%s %s: %w", call.Method, call.Path, err)
	}
	if !resp.IsSuccess() {
		rc.logger.Debugf("%s %s%s returned %d", call.Method, rc.origin, call.Path, resp.StatusCode())
		return nil, &shared.HttpStatusError{
			Status:     resp.StatusCode(),
			StatusText: http.StatusText(resp.StatusCode()),
			RemoteMsg:  remoteErrorMessage(resp.Body()),
		}
	}
	return decodeBody(resp.Body())
}

func (rc *restClient) FinalUrl(ctx context.Context, path string) (*url.URL, error) {

	obs := rc.metrics.StartApiRequestOut("GET " + path)
	defer obs.Finish()

	resp, err := rc.client.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, err
	}
	if resp.RawResponse == nil || resp.RawResponse.Request == nil {
		return nil, fmt.Errorf("no response for %s", path)
	}
	return resp.RawResponse.Request.URL, nil
}

func decodeBody(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var res any
	if err := dec.Decode(&res); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return res, nil
}

// Mastodon puts a human-readable reason in "error"; OAuth endpoints add "error_description".
func remoteErrorMessage(body []byte) string {
	var obj struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
		Message          string `json:"message"`
	}
	if err := json.Unmarshal(body, &obj); err != nil {
		return shared.TruncateWithEllipsis(string(bytes.TrimSpace(body)), 200)
	}
	switch {
	case obj.ErrorDescription != "":
		return obj.ErrorDescription
	case obj.Error != "":
		return obj.Error
	}
	return obj.Message
}
