package searchindex_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravencrawl/raven/pkg/metrics"
	"github.com/ravencrawl/raven/pkg/searchindex"
)

func TestEnsureTemplateSkipsCreationWhenPresent(t *testing.T) {
	var puts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusOK)
		case http.MethodPut:
			puts.Add(1)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	client := searchindex.New(srv.URL)
	err := client.EnsureTemplate(context.Background(), "raven-task-metrics", searchindex.TaskMetricsTemplate)
	require.NoError(t, err)
	assert.Equal(t, int32(0), puts.Load())
}

func TestEnsureTemplateCreatesWhenMissing(t *testing.T) {
	var puts atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			w.WriteHeader(http.StatusNotFound)
		case http.MethodPut:
			puts.Add(1)
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer srv.Close()

	client := searchindex.New(srv.URL)
	err := client.EnsureTemplate(context.Background(), "raven-task-metrics", searchindex.TaskMetricsTemplate)
	require.NoError(t, err)
	assert.Equal(t, int32(1), puts.Load())
}

func TestPublisherGroupsRecordsByIndexName(t *testing.T) {
	var bulkHits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			bulkHits.Add(1)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := searchindex.New(srv.URL)
	pub := searchindex.NewPublisher(client, "raven")

	day1 := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC)
	records := []metrics.TaskMetric{
		{Name: "a", Date: day1},
		{Name: "b", Date: day1},
		{Name: "c", Date: day2},
	}

	err := pub.PublishTaskMetrics(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, int32(2), bulkHits.Load())
}
