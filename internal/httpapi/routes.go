package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hiroyats05/CartasContraHumanidade/internal/metrics"
	"github.com/hiroyats05/CartasContraHumanidade/internal/session"
)

// SetupRoutes builds the local debug surface: liveness, a JSON view of the
// session, and the metrics registry. It binds to loopback only; nothing here
// is meant for other machines.
func SetupRoutes(s *session.Session, m *metrics.Metrics) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", Healthz)
	r.Get("/status", SessionStatus(s))
	if reg := m.Registry(); reg != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	}
	return r
}
