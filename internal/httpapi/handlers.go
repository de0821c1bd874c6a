package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/hiroyats05/CartasContraHumanidade/internal/session"
)

// SessionStatus serves a point-in-time view of the session: connection
// status, join progress, and the latest snapshot.
func SessionStatus(s *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.View(r.Context())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(v)
	}
}

func Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
