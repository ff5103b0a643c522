package notify_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravencrawl/raven/pkg/notify"
)

func TestSlackSinkPostsFormattedMessage(t *testing.T) {
	var gotBody map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := notify.NewSlackSink(srv.URL, "#alerts", "@oncall", notify.SeverityError)
	err := sink.Notify(context.Background(), notify.SeverityError, "run-failed", "3 tasks failed")
	require.NoError(t, err)

	assert.Equal(t, "#alerts", gotBody["channel"])
	assert.Contains(t, gotBody["text"], "@oncall")
	assert.Contains(t, gotBody["text"], "run-failed")
	assert.Contains(t, gotBody["text"], "3 tasks failed")
}

func TestSlackSinkReturnsErrorOnNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	sink := notify.NewSlackSink(srv.URL, "#alerts", "", notify.SeverityInfo)
	err := sink.Notify(context.Background(), notify.SeverityInfo, "summary", "done")
	require.Error(t, err)
}

func TestDispatcherSkipsSinksBelowMinSeverity(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := notify.NewSlackSink(srv.URL, "#alerts", "", notify.SeverityError)
	dispatcher := notify.NewDispatcher(sink)

	dispatcher.Info(context.Background(), "summary", "run completed")
	assert.Equal(t, 0, hits)

	dispatcher.Error(context.Background(), "run-failed", "boom")
	assert.Equal(t, 1, hits)
}

func TestDispatcherContinuesAfterSinkFailure(t *testing.T) {
	var secondHit bool
	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()
	working := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondHit = true
		w.WriteHeader(http.StatusOK)
	}))
	defer working.Close()

	dispatcher := notify.NewDispatcher(
		notify.NewSlackSink(failing.URL, "#a", "", notify.SeverityInfo),
		notify.NewSlackSink(working.URL, "#b", "", notify.SeverityInfo),
	)

	dispatcher.Info(context.Background(), "summary", "run completed")
	assert.True(t, secondHit)
}
