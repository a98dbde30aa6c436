package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/platform/config"
	"shelter-adoptions/internal/platform/logger"
	"shelter-adoptions/internal/platform/metrics"
	"shelter-adoptions/internal/router"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type captured struct {
	mu   sync.Mutex
	sums []adoptions.Summary
}

func (c *captured) Notify(_ context.Context, s adoptions.Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sums = append(c.sums, s)
	return nil
}

func newServer(t *testing.T) (*httptest.Server, *metrics.Metrics, *captured) {
	t.Helper()
	m := metrics.New()
	sink := &captured{}
	cfg := config.Default()
	ts := httptest.NewServer(router.NewRouter(router.Options{
		Config:    cfg,
		Logger:    logger.Discard(),
		Metrics:   m,
		Notifiers: []adoptions.Notifier{sink},
	}))
	t.Cleanup(ts.Close)
	return ts, m, sink
}

func TestHTTP_EndToEnd_ApprovalAdoptsAndCascades(t *testing.T) {
	ts, m, sink := newServer(t)

	dogID := createDog(t, ts.URL, "Rex")

	// 1) Dos solicitudes: el perro pasa a IN_PROCESS
	anaID := submitApplication(t, ts.URL, dogID, "Ana")
	luisID := submitApplication(t, ts.URL, dogID, "Luis")
	if got := dogAvailability(t, ts.URL, dogID); got != "IN_PROCESS" {
		t.Fatalf("expected IN_PROCESS after submit, got %s", got)
	}

	// 2) Staff aprueba a Ana
	{
		st, body := doReq(t, ts.URL, "POST", "/applications/"+anaID+"/state", "staff-7", map[string]any{
			"state":       "APPROVED",
			"admin_notes": "visita ok",
		})
		if st != http.StatusOK {
			t.Fatalf("expected 200 approve, got %d body=%s", st, string(body))
		}
		var res struct {
			Changed              bool   `json:"changed"`
			PreviousAvailability string `json:"previous_availability"`
			Summary              struct {
				Availability  string `json:"availability"`
				RejectedCount int    `json:"rejected_count"`
				Message       string `json:"message"`
			} `json:"summary"`
		}
		mustJSON(t, body, &res)
		if !res.Changed || res.PreviousAvailability != "IN_PROCESS" || res.Summary.Availability != "ADOPTED" {
			t.Fatalf("unexpected reconcile response: %s", string(body))
		}
		if res.Summary.RejectedCount != 1 || !strings.Contains(res.Summary.Message, "Luis") {
			t.Fatalf("expected Luis to be auto rejected, got %s", string(body))
		}
	}

	// 3) Perro adoptado, Luis rechazado
	if got := dogAvailability(t, ts.URL, dogID); got != "ADOPTED" {
		t.Fatalf("expected ADOPTED, got %s", got)
	}
	{
		st, body := doReq(t, ts.URL, "GET", "/applications/"+luisID, "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 get application, got %d", st)
		}
		var app struct {
			State string `json:"state"`
		}
		mustJSON(t, body, &app)
		if app.State != "REJECTED" {
			t.Fatalf("expected REJECTED, got %s", app.State)
		}
	}

	// 4) Un perro adoptado no acepta solicitudes nuevas
	{
		st, _ := doReq(t, ts.URL, "POST", "/dogs/"+dogID+"/applications", "", applicationPayload("Eva"))
		if st != http.StatusConflict {
			t.Fatalf("expected 409 submit to adopted dog, got %d", st)
		}
	}

	// 5) El timeline registra el actor del staff y el rechazo automático
	{
		st, body := doReq(t, ts.URL, "GET", "/dogs/"+dogID+"/timeline", "", nil)
		if st != http.StatusOK {
			t.Fatalf("expected 200 timeline, got %d", st)
		}
		var evs []struct {
			Type      string `json:"type"`
			ActorType string `json:"actor_type"`
			ActorID   string `json:"actor_id"`
		}
		mustJSON(t, body, &evs)
		var staff, auto bool
		for _, e := range evs {
			if e.Type == "APPLICATION_STATE_CHANGED" && e.ActorID == "staff-7" {
				staff = true
			}
			if e.Type == "APPLICATION_AUTO_REJECTED" && e.ActorType == "SYSTEM" {
				auto = true
			}
		}
		if !staff || !auto {
			t.Fatalf("timeline missing staff change or auto rejection: %s", string(body))
		}
	}

	// 6) Avisos y métricas
	sink.mu.Lock()
	n := len(sink.sums)
	sink.mu.Unlock()
	if n == 0 {
		t.Fatalf("expected at least one summary notification")
	}
	if v := testutil.ToFloat64(m.CascadeRejections); v != 1 {
		t.Fatalf("expected 1 cascade rejection, got %v", v)
	}
	if v := testutil.ToFloat64(m.HTTPRequests.WithLabelValues("/dogs/{dogID}/applications", "POST", "201")); v != 2 {
		t.Fatalf("expected 2 successful submits in http metrics, got %v", v)
	}
}

func TestHTTP_ApprovedToPendingOnAdoptedDogIsConflict(t *testing.T) {
	ts, _, _ := newServer(t)

	dogID := createDog(t, ts.URL, "Luna")
	appID := submitApplication(t, ts.URL, dogID, "Ana")
	if st, body := doReq(t, ts.URL, "POST", "/applications/"+appID+"/state", "staff-1", map[string]any{"state": "APPROVED"}); st != http.StatusOK {
		t.Fatalf("expected 200 approve, got %d body=%s", st, string(body))
	}

	st, _ := doReq(t, ts.URL, "POST", "/applications/"+appID+"/state", "staff-1", map[string]any{"state": "PENDING"})
	if st != http.StatusConflict {
		t.Fatalf("expected 409, got %d", st)
	}
	if got := dogAvailability(t, ts.URL, dogID); got != "ADOPTED" {
		t.Fatalf("expected dog to stay ADOPTED, got %s", got)
	}
}

func TestHTTP_BulkStateReportsPerItem(t *testing.T) {
	ts, _, _ := newServer(t)

	dogID := createDog(t, ts.URL, "Toby")
	a := submitApplication(t, ts.URL, dogID, "Ana")
	b := submitApplication(t, ts.URL, dogID, "Luis")

	st, body := doReq(t, ts.URL, "POST", "/applications/bulk-state", "staff-1", map[string]any{
		"application_ids": []string{a, b, "missing"},
		"state":           "APPROVED",
	})
	if st != http.StatusOK {
		t.Fatalf("expected 200 bulk, got %d body=%s", st, string(body))
	}
	var items []struct {
		ApplicationID string `json:"application_id"`
		OK            bool   `json:"ok"`
		Error         string `json:"error"`
	}
	mustJSON(t, body, &items)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if !items[0].OK || items[1].OK || items[2].OK {
		t.Fatalf("expected only the first approval to succeed: %s", string(body))
	}
}

func TestHTTP_ValidationAndNotFound(t *testing.T) {
	ts, _, _ := newServer(t)

	if st, _ := doReq(t, ts.URL, "POST", "/dogs/missing/applications", "", applicationPayload("Ana")); st != http.StatusNotFound {
		t.Fatalf("expected 404 for missing dog, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "GET", "/applications/missing", "", nil); st != http.StatusNotFound {
		t.Fatalf("expected 404 for missing application, got %d", st)
	}

	dogID := createDog(t, ts.URL, "Kira")
	bad := applicationPayload("Ana")
	bad["email"] = "not-an-email"
	if st, _ := doReq(t, ts.URL, "POST", "/dogs/"+dogID+"/applications", "", bad); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid email, got %d", st)
	}
	if st, _ := doReq(t, ts.URL, "POST", "/applications/x/state", "", map[string]any{"state": "RESERVED"}); st != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown state, got %d", st)
	}
}

func TestHTTP_HealthMetricsAndRequestID(t *testing.T) {
	ts, _, _ := newServer(t)

	res, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	res.Body.Close()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 health, got %d", res.StatusCode)
	}
	if res.Header.Get("X-Request-ID") == "" {
		t.Fatalf("expected X-Request-ID header")
	}

	st, body := doReq(t, ts.URL, "GET", "/metrics", "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 metrics, got %d", st)
	}
	if !strings.Contains(string(body), "shelter_http_requests_total") {
		t.Fatalf("metrics output missing http counter")
	}
}

func createDog(t *testing.T, baseURL, name string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/dogs", "staff-1", map[string]any{
		"name":      name,
		"age_years": 3,
		"size":      "medium",
		"sex":       "male",
		"color":     "golden",
	})
	if st != http.StatusCreated {
		t.Fatalf("expected 201 create dog, got %d body=%s", st, string(body))
	}
	var out struct {
		ID string `json:"id"`
	}
	mustJSON(t, body, &out)
	return out.ID
}

func applicationPayload(name string) map[string]any {
	return map[string]any{
		"applicant_name": name,
		"email":          strings.ToLower(name) + "@example.com",
		"phone":          "+54 11 5555 0000",
		"address":        "Calle Falsa 123",
		"housing_type":   "house",
		"has_yard":       true,
		"pet_experience": "Tuve perros",
		"motivation":     "Queremos adoptar",
	}
}

func submitApplication(t *testing.T, baseURL, dogID, name string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "POST", "/dogs/"+dogID+"/applications", "", applicationPayload(name))
	if st != http.StatusCreated {
		t.Fatalf("expected 201 submit, got %d body=%s", st, string(body))
	}
	var out struct {
		Application struct {
			ID string `json:"id"`
		} `json:"application"`
	}
	mustJSON(t, body, &out)
	return out.Application.ID
}

func dogAvailability(t *testing.T, baseURL, dogID string) string {
	t.Helper()
	st, body := doReq(t, baseURL, "GET", "/dogs/"+dogID, "", nil)
	if st != http.StatusOK {
		t.Fatalf("expected 200 get dog, got %d", st)
	}
	var out struct {
		Availability string `json:"availability"`
	}
	mustJSON(t, body, &out)
	return out.Availability
}

func mustJSON(t *testing.T, body []byte, v any) {
	t.Helper()
	if err := json.Unmarshal(body, v); err != nil {
		t.Fatalf("json unmarshal: %v body=%s", err, string(body))
	}
}

func doReq(t *testing.T, baseURL, method, path, actorID string, body any) (int, []byte) {
	t.Helper()

	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json marshal: %v", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, baseURL+path, rdr)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if actorID != "" {
		req.Header.Set("X-Actor-ID", actorID)
	}

	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer res.Body.Close()

	respBody, _ := io.ReadAll(res.Body)
	return res.StatusCode, respBody
}
