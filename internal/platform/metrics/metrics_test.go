package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected scrape status %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	return string(body)
}

func TestCollectorExposesCounters(t *testing.T) {
	c := New()
	c.Record(http.MethodGet, http.StatusOK, 5*time.Millisecond)
	c.Record(http.MethodGet, http.StatusOK, 5*time.Millisecond)
	c.Record(http.MethodPost, http.StatusConflict, time.Millisecond)
	c.StoreMutation("add", "ok")

	body := scrape(t, c)
	for _, want := range []string{
		`hrms_http_requests_total{class="2xx",method="GET"} 2`,
		`hrms_http_requests_total{class="4xx",method="POST"} 1`,
		`hrms_http_request_duration_seconds_count{method="GET"} 2`,
		`hrms_store_mutations_total{op="add",outcome="ok"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in scrape output", want)
		}
	}
}

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector
	c.Record(http.MethodGet, http.StatusOK, time.Millisecond)
	c.StoreMutation("add", "ok")
}

func TestStatusClass(t *testing.T) {
	if statusClass(503) != "5xx" || statusClass(0) != "unknown" {
		t.Fatal("unexpected status class")
	}
}
