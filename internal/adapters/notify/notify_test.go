package notify_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"shelter-adoptions/internal/adapters/notify"
	"shelter-adoptions/internal/domain/adoptions"
	"shelter-adoptions/internal/domain/dogs"
	"shelter-adoptions/internal/platform/httpclient"
	"shelter-adoptions/internal/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var summary = adoptions.Summary{
	DogID:         "d1",
	DogName:       "Rex",
	ApplicationID: "a1",
	State:         adoptions.StateApproved,
	Availability:  dogs.AvailabilityAdopted,
	RejectedCount: 1,
	Rejected:      []adoptions.RejectedApplicant{{ApplicationID: "a2", ApplicantName: "Luis"}},
	Message:       "Rex is now ADOPTED; 1 other application was rejected automatically (Luis)",
}

func TestLog(t *testing.T) {
	var buf bytes.Buffer
	n := notify.NewLog(logger.New(logger.Options{Format: logger.FormatJSON, Out: &buf}))

	require.NoError(t, n.Notify(context.Background(), summary))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, summary.Message, entry["msg"])
	assert.Equal(t, "ADOPTED", entry["availability"])
}

func TestRedis_PublishesAndKeepsRecent(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	ctx := context.Background()

	sub := client.Subscribe(ctx, "test:adoptions")
	t.Cleanup(func() { _ = sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n := notify.NewRedis(client, "test:adoptions")
	require.NoError(t, n.Notify(ctx, summary))

	select {
	case msg := <-sub.Channel():
		var got adoptions.Summary
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, summary, got)
	case <-time.After(2 * time.Second):
		t.Fatal("no message published")
	}

	recent, err := mr.List(n.RecentKey())
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestWebhook_PostsSummaryAndRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "adoption.reconciled", r.Header.Get("X-Shelter-Event"))
		var got adoptions.Summary
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		assert.Equal(t, summary.DogID, got.DogID)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := httpclient.New(time.Second)
	c.Retries = 2
	c.Backoff = time.Millisecond

	require.NoError(t, notify.NewWebhook(c, srv.URL).Notify(context.Background(), summary))
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestWebhook_ClientErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := httpclient.New(time.Second)
	c.Retries = 3
	c.Backoff = time.Millisecond

	err := notify.NewWebhook(c, srv.URL).Notify(context.Background(), summary)
	var herr *httpclient.HTTPError
	require.ErrorAs(t, err, &herr)
	assert.Equal(t, http.StatusBadRequest, herr.StatusCode)
	assert.Equal(t, "bad payload", herr.Body)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

type failing struct{ err error }

func (f failing) Notify(context.Context, adoptions.Summary) error { return f.err }

type counting struct{ n int32 }

func (c *counting) Notify(context.Context, adoptions.Summary) error {
	atomic.AddInt32(&c.n, 1)
	return nil
}

func TestFanout_DeliversToAllAndJoinsErrors(t *testing.T) {
	boom := errors.New("boom")
	c := &counting{}
	f := notify.Fanout{failing{boom}, nil, c}

	err := f.Notify(context.Background(), summary)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, int32(1), c.n)
}
