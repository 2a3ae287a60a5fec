package logic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"ghostodon/dto"
	"ghostodon/shared"
)

type StreamName string

const (
	StreamUser         StreamName = "user"
	StreamPublic       StreamName = "public"
	StreamPublicLocal  StreamName = "public:local"
	StreamDirect       StreamName = "direct"
	StreamHashtag      StreamName = "hashtag"
	StreamHashtagLocal StreamName = "hashtag:local"
	StreamList         StreamName = "list"
)

func (sn StreamName) IsKnown() bool {
	switch sn {
	case StreamUser, StreamPublic, StreamPublicLocal, StreamDirect, StreamHashtag, StreamHashtagLocal, StreamList:
		return true
	}
	return false
}

const (
	EventUpdate       = "update"
	EventStatusUpdate = "status.update"
	EventNotification = "notification"
	EventDelete       = "delete"
)

// StreamEvent carries exactly one of Status, Notification or DeletedId for the
// known events; anything else arrives with only Event and Raw set.
type StreamEvent struct {
	Event        string            `json:"event"`
	Status       *dto.Status       `json:"status,omitempty"`
	Notification *dto.Notification `json:"notification,omitempty"`
	DeletedId    string            `json:"deleted_id,omitempty"`
	Raw          json.RawMessage   `json:"raw,omitempty"`
}

type StreamArgs struct {
	Origin  string
	Token   string
	Stream  StreamName
	Tag     string
	List    string
	OnEvent func(ev StreamEvent)
	OnError func(err error)
}

type IStreamer interface {
	DiscoverStreamingBase(ctx context.Context, origin string) (string, error)
	// Open returns at once; discovery, dialing and reading happen in the background.
	Open(ctx context.Context, args StreamArgs) *StreamHandle
}

type IStreamApi interface {
	Open(ctx context.Context, args StreamArgs) *StreamHandle
}

type streamApi struct {
	sess     dto.Session
	streamer IStreamer
}

func (api *streamApi) Open(ctx context.Context, args StreamArgs) *StreamHandle {
	args.Origin = api.sess.Origin
	args.Token = api.sess.Token
	return api.streamer.Open(ctx, args)
}

type StreamHandle struct {
	mu     sync.Mutex
	conn   *websocket.Conn
	closed bool
	cancel context.CancelFunc
	done   chan struct{}
}

// Close may be called any number of times, also before the socket exists.
func (h *StreamHandle) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	h.cancel()
	if h.conn != nil {
		_ = h.conn.Close()
		h.conn = nil
	}
}

// Done is closed when the stream has ended, for whatever reason.
func (h *StreamHandle) Done() <-chan struct{} {
	return h.done
}

func (h *StreamHandle) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *StreamHandle) attach(conn *websocket.Conn) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		_ = conn.Close()
		return false
	}
	h.conn = conn
	return true
}

type streamer struct {
	logger  shared.ILogger
	metrics IMetrics
	rf      IRestFactory
	ua      shared.IUserAgent
	dialer  *websocket.Dialer
}

func NewStreamer(logger shared.ILogger, metrics IMetrics, rf IRestFactory, ua shared.IUserAgent) IStreamer {
	return &streamer{
		logger:  logger,
		metrics: metrics,
		rf:      rf,
		ua:      ua,
		dialer:  websocket.DefaultDialer,
	}
}

func (s *streamer) DiscoverStreamingBase(ctx context.Context, origin string) (string, error) {

	rest := s.rf.New(origin, "")

	// The instance tells us where its streaming server lives
	raw, err := rest.Do(ctx, &ApiCall{Label: "stream.discover", Method: http.MethodGet, Path: "/api/v2/instance"})
	if err == nil {
		if base := dto.NormalizeInstance(raw).StreamingBase; base != "" {
			return toWsBase(base)
		}
	} else {
		s.logger.Debugf("Streaming discovery via instance failed for %s: %v", origin, err)
	}

	// Older servers redirect the streaming endpoint to a dedicated host
	final, err := rest.FinalUrl(ctx, "/api/v1/streaming")
	if err == nil && final != nil {
		if originUrl, parseErr := url.Parse(origin); parseErr == nil && final.Host != originUrl.Host {
			return toWsBase(final.Scheme + "://" + final.Host)
		}
	} else if err != nil {
		s.logger.Debugf("Streaming discovery via redirect failed for %s: %v", origin, err)
	}

	base, err := toWsBase(origin)
	if err != nil {
		return "", shared.Wrap(err, shared.KindStream, "discoverStreamingBase failed")
	}
	s.logger.Warnf("Could not discover streaming server for %s; guessing %s", origin, base)
	return base, nil
}

func toWsBase(base string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", errors.New("unsupported streaming scheme: " + base)
	}
	if u.Host == "" {
		return "", errors.New("no host in streaming base: " + base)
	}
	return u.Scheme + "://" + u.Host, nil
}

func buildStreamUrl(base string, args *StreamArgs) string {
	q := url.Values{}
	q.Set("access_token", args.Token)
	q.Set("stream", string(args.Stream))
	if args.Tag != "" {
		q.Set("tag", args.Tag)
	}
	if args.List != "" {
		q.Set("list", args.List)
	}
	return base + "/api/v1/streaming?" + q.Encode()
}

func (s *streamer) Open(ctx context.Context, args StreamArgs) *StreamHandle {
	ctx, cancel := context.WithCancel(ctx)
	h := &StreamHandle{
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go s.run(ctx, h, &args)
	return h
}

func (s *streamer) run(ctx context.Context, h *StreamHandle, args *StreamArgs) {
	defer close(h.done)
	defer h.Close()

	onError := func(err error) {
		if args.OnError != nil {
			args.OnError(err)
		}
	}

	base, err := s.DiscoverStreamingBase(ctx, args.Origin)
	if err != nil {
		if !h.isClosed() {
			onError(shared.Wrap(err, shared.KindStream, "discoverStreamingBase failed"))
		}
		return
	}

	header := http.Header{}
	header.Set("User-Agent", s.ua.Value())
	conn, _, err := s.dialer.DialContext(ctx, buildStreamUrl(base, args), header)
	if err != nil {
		if !h.isClosed() {
			onError(shared.Wrap(err, shared.KindStream, "stream connection failed"))
		}
		return
	}
	if !h.attach(conn) {
		return
	}
	s.logger.Infof("Stream %s open at %s", args.Stream, base)

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if !h.isClosed() {
				onError(shared.Wrap(err, shared.KindStream, "stream closed"))
			}
			return
		}
		ev, err := decodeStreamFrame(msg)
		if err != nil {
			s.metrics.StreamDecodeError()
			onError(err)
			continue
		}
		s.metrics.StreamEvent(ev.Event)
		if args.OnEvent != nil {
			args.OnEvent(ev)
		}
	}
}

func decodeStreamFrame(msg []byte) (StreamEvent, error) {

	var frame struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}
	if err := json.Unmarshal(msg, &frame); err != nil {
		return StreamEvent{}, &shared.TaggedError{Kind: shared.KindStream, Message: "stream frame could not be decoded", Cause: err}
	}
	res := StreamEvent{Event: frame.Event, Raw: json.RawMessage(msg)}
	if res.Event == "" {
		res.Event = "message"
	}

	payload := bytes.TrimSpace(frame.Payload)
	if len(payload) == 0 || bytes.Equal(payload, []byte("null")) {
		return res, nil
	}

	switch frame.Event {
	case EventUpdate, EventStatusUpdate:
		obj, err := decodePayloadObject(payload)
		if err != nil {
			return StreamEvent{}, err
		}
		status := dto.NormalizeStatus(obj)
		res.Status = &status
	case EventNotification:
		obj, err := decodePayloadObject(payload)
		if err != nil {
			return StreamEvent{}, err
		}
		notif := dto.NormalizeNotification(obj)
		res.Notification = &notif
	case EventDelete:
		id, err := decodeDeletedId(payload)
		if err != nil {
			return StreamEvent{}, err
		}
		res.DeletedId = id
	}
	return res, nil
}

// Mastodon sends the payload as a string holding JSON; some proxies inline the object.
func decodePayloadObject(payload []byte) (any, error) {
	if payload[0] == '"' {
		var inner string
		if err := json.Unmarshal(payload, &inner); err != nil {
			return nil, &shared.TaggedError{Kind: shared.KindStream, Message: "stream payload could not be decoded", Cause: err}
		}
		payload = []byte(inner)
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var obj any
	if err := dec.Decode(&obj); err != nil {
		return nil, &shared.TaggedError{Kind: shared.KindStream, Message: "stream payload could not be decoded", Cause: err}
	}
	if _, ok := obj.(map[string]any); !ok {
		return nil, shared.NewError(shared.KindStream, "stream payload is not an object")
	}
	return obj, nil
}

// The id of a deleted status arrives as a bare id string, or as JSON (string or number) inside it.
func decodeDeletedId(payload []byte) (string, error) {
	var val any
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(&val); err != nil {
		return "", &shared.TaggedError{Kind: shared.KindStream, Message: "stream payload could not be decoded", Cause: err}
	}
	var id string
	switch v := val.(type) {
	case json.Number:
		id = v.String()
	case string:
		id = strings.TrimSpace(v)
		var inner any
		innerDec := json.NewDecoder(strings.NewReader(id))
		innerDec.UseNumber()
		if innerDec.Decode(&inner) == nil {
			switch iv := inner.(type) {
			case string:
				id = iv
			case json.Number:
				id = iv.String()
			}
		}
	}
	if id == "" {
		return "", shared.NewError(shared.KindStream, "delete event without an id")
	}
	return id, nil
}
