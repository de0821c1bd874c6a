package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hiroyats05/CartasContraHumanidade/internal/identity"
	"github.com/hiroyats05/CartasContraHumanidade/internal/metrics"
	"github.com/hiroyats05/CartasContraHumanidade/internal/session"
	"github.com/hiroyats05/CartasContraHumanidade/internal/wsclient"
)

type stubConn struct {
	events chan wsclient.Event
	once   sync.Once
}

func (c *stubConn) Connect()   {}
func (c *stubConn) Send(v any) {}

func (c *stubConn) Close() { c.once.Do(func() { close(c.events) }) }

func (c *stubConn) Events() <-chan wsclient.Event { return c.events }

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	conn := &stubConn{events: make(chan wsclient.Event, 1)}
	s := session.New(conn,
		identity.Identity{PlayerID: "p1", Name: "Ann"},
		session.Options{Room: "r1"}, nil, nil)
	t.Cleanup(s.Close)
	return SetupRoutes(s, metrics.New())
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestSessionStatus(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var v session.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Equal(t, "p1", v.PlayerID)
	require.Equal(t, "r1", v.Room)
	require.False(t, v.JoinAcked)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
