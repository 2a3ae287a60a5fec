package server

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ghostodon/shared"
)

type metricsHandlerGroup struct {
	cfg             *shared.Config
	logger          shared.ILogger
	promHttpHandler http.Handler
}

func NewMetricsHandlerGroup(
	cfg *shared.Config,
	logger shared.ILogger,
) IHandlerGroup {
	res := metricsHandlerGroup{
		cfg:             cfg,
		logger:          logger,
		promHttpHandler: promhttp.Handler(),
	}
	return &res
}

func (hg *metricsHandlerGroup) Prefix() string {
	return "/"
}

func (hg *metricsHandlerGroup) GroupDefs() []handlerDef {
	return []handlerDef{
		{"GET", "/metrics", func(w http.ResponseWriter, r *http.Request) { hg.getMetrics(w, r) }},
	}
}

func (hg *metricsHandlerGroup) AuthMW() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return hg.authMW(next)
	}
}

// Scraping is off unless metrics_auth is set in secrets.
func (hg *metricsHandlerGroup) authMW(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authSecret := strings.TrimPrefix(r.Header.Get(metricsAuthHeader), "Bearer ")
		expected := hg.cfg.Secrets.MetricsAuth
		if expected == "" || subtle.ConstantTimeCompare([]byte(authSecret), []byte(expected)) != 1 {
			hg.logger.Warnf("Metrics scrape request with missing or invalid Authorization header '%s'", shared.TokenPrefix(authSecret))
			writeErrorResponse(w, badAuthorization, http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (hg *metricsHandlerGroup) getMetrics(w http.ResponseWriter, r *http.Request) {
	hg.logger.Debugf("Handling metrics GET: %s", r.URL.Path)
	hg.promHttpHandler.ServeHTTP(w, r)
}
