package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shelter-adoptions/internal/platform/logger"
	"shelter-adoptions/internal/platform/metrics"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessLog_UsesRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Level: logger.Debug, Out: &buf})
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(ActorContext)
	r.Use(AccessLog(log, m))
	r.Get("/dogs/{dogID}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/dogs/abc", nil)
	req.Header.Set(ActorHeader, "staff-3")
	r.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/dogs/{dogID}", "GET", "418")))
	line := buf.String()
	assert.Contains(t, line, "level=warn")
	assert.Contains(t, line, "route=/dogs/{dogID}")
	assert.Contains(t, line, "actor_id=staff-3")
}

func TestAccessLog_NilMetrics(t *testing.T) {
	r := chi.NewRouter()
	r.Use(AccessLog(logger.Discard(), nil))
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("ok")) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRecover_Returns500AndLogs(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Options{Out: &buf})

	h := Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/x", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `msg="panic"`)
	assert.Contains(t, buf.String(), "panic=boom")
}

func TestActorContext(t *testing.T) {
	var got string
	h := ActorContext(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = ActorID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(ActorHeader, "  staff-9 ")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "staff-9", got)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, got)
}

func TestRequestID_EchoesHeader(t *testing.T) {
	h := chimw.RequestID(RequestID(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, strings.HasSuffix(rec.Header().Get(RequestIDHeader), "req-42"))
}
