package logic

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"ghostodon/shared"
)

//go:generate mockgen --build_flags=--mod=mod -destination ../test/mocks/mock_metrics.go -package mocks ghostodon/logic IMetrics

type IMetrics interface {
	StartWebRequestIn(label string) IRequestObserver
	StartApiRequestOut(label string) IRequestObserver
	PageFetched(feed string)
	PaginationStalled(feed string)
	AuthOutcome(stage string)
	StreamEvent(event string)
	StreamDecodeError()
	ServiceStarted()
	SessionActive(active bool)
}

type IRequestObserver interface {
	Finish()
}

type metrics struct {
	cfg                *shared.Config
	webRequestsIn      *prometheus.HistogramVec
	apiRequestsOut     *prometheus.HistogramVec
	pagesFetched       *prometheus.CounterVec
	paginationStalls   *prometheus.CounterVec
	authOutcomes       *prometheus.CounterVec
	streamEvents       *prometheus.CounterVec
	streamDecodeErrors prometheus.Counter
	serviceStarted     prometheus.Counter
	sessionActive      prometheus.Gauge
}

func NewMetrics(cfg *shared.Config) IMetrics {

	res := metrics{}
	res.cfg = cfg

	res.webRequestsIn = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "web_requests_in_duration",
		Help: "Duration in seconds of local requests served.",
	}, []string{"label"})
	prometheus.Register(res.webRequestsIn)

	res.apiRequestsOut = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "api_requests_out_duration",
		Help: "Duration in seconds of requests made to the instance.",
	}, []string{"label"})
	prometheus.Register(res.apiRequestsOut)

	res.pagesFetched = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pages_fetched",
		Help: "Number of feed pages fetched",
	}, []string{"feed"})
	prometheus.Register(res.pagesFetched)

	res.paginationStalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pagination_stalls",
		Help: "Number of times a feed stopped because the cursor did not advance",
	}, []string{"feed"})
	prometheus.Register(res.paginationStalls)

	res.authOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "auth_outcomes",
		Help: "Auth flow stages reached",
	}, []string{"stage"})
	prometheus.Register(res.authOutcomes)

	res.streamEvents = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stream_events",
		Help: "Streaming events received, by event name",
	}, []string{"event"})
	prometheus.Register(res.streamEvents)

	res.streamDecodeErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "stream_decode_errors",
		Help: "Streaming frames that could not be decoded",
	})
	prometheus.Register(res.streamDecodeErrors)

	res.serviceStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "service_started",
		Help: "Service has started up",
	})
	prometheus.Register(res.serviceStarted)

	res.sessionActive = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "session_active",
		Help: "1 if there is a logged-in session",
	})
	prometheus.Register(res.sessionActive)

	return &res
}

type requestObserver struct {
	label string
	start time.Time
	hgvec *prometheus.HistogramVec
}

func (ro *requestObserver) Finish() {
	now := time.Now()
	elapsed := float64(now.UnixMilli()-ro.start.UnixMilli()) / 1000.0
	ro.hgvec.WithLabelValues(ro.label).Observe(elapsed)
}

func (m *metrics) StartWebRequestIn(label string) IRequestObserver {
	return &requestObserver{label, time.Now(), m.webRequestsIn}
}

func (m *metrics) StartApiRequestOut(label string) IRequestObserver {
	return &requestObserver{label, time.Now(), m.apiRequestsOut}
}

func (m *metrics) PageFetched(feed string) {
	m.pagesFetched.WithLabelValues(feed).Add(1)
}

func (m *metrics) PaginationStalled(feed string) {
	m.paginationStalls.WithLabelValues(feed).Add(1)
}

func (m *metrics) AuthOutcome(stage string) {
	m.authOutcomes.WithLabelValues(stage).Add(1)
}

func (m *metrics) StreamEvent(event string) {
	m.streamEvents.WithLabelValues(event).Add(1)
}

func (m *metrics) StreamDecodeError() {
	m.streamDecodeErrors.Add(1)
}

func (m *metrics) ServiceStarted() {
	m.serviceStarted.Add(1)
}

func (m *metrics) SessionActive(active bool) {
	if active {
		m.sessionActive.Set(1)
	} else {
		m.sessionActive.Set(0)
	}
}
