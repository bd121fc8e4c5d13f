package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()

	m.PagesFetched.WithLabelValues("ok").Inc()
	m.PagesFetched.WithLabelValues("ok").Inc()
	m.PagesFetched.WithLabelValues("network").Inc()
	m.ItemsSkipped.WithLabelValues("no_logo").Add(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PagesFetched.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PagesFetched.WithLabelValues("network")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ItemsSkipped.WithLabelValues("no_logo")))
}

func TestPush(t *testing.T) {
	var body string
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		data, _ := io.ReadAll(r.Body)
		body = string(data)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m := New()
	m.RunRecords.Set(42)

	assert.NoError(t, m.Push(server.URL, "livehs_crawl"))
	assert.True(t, strings.HasPrefix(path, "/metrics/job/livehs_crawl"))
	assert.NotEmpty(t, body)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.PageFetched("ok")
		m.ItemSkipped("no_logo")
		m.RecordsAdded("렌탈", 3)
	})
}

func TestHelpers(t *testing.T) {
	m := New()
	m.RecordsAdded("렌탈", 3)
	m.RecordsAdded("렌탈", 2)
	m.ItemSkipped("only_live")

	assert.Equal(t, 5.0, testutil.ToFloat64(m.RecordsCollected.WithLabelValues("렌탈")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ItemsSkipped.WithLabelValues("only_live")))
}
