package probe

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hamed0406/apistatus/internal/domain"
)

func ep(url string, mod func(*domain.Endpoint)) domain.Endpoint {
	e := domain.Endpoint{
		Name:     "t",
		URL:      url,
		Method:   http.MethodGet,
		Interval: 30 * time.Second,
		Timeout:  2 * time.Second,
	}
	if mod != nil {
		mod(&e)
	}
	return e
}

func TestHTTPChecker_StatusOK(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(200)
		_, _ = w.Write([]byte("ok"))
	}))
	defer s.Close()

	out := NewHTTPChecker().Check(context.Background(), ep(s.URL, nil))
	if !out.OK {
		t.Fatalf("want ok, got %+v", out)
	}
	if out.StatusCode == nil || *out.StatusCode != 200 {
		t.Fatalf("want status 200, got %v", out.StatusCode)
	}
	if out.LatencyMS < 0 {
		t.Fatalf("latency should be >= 0, got %d", out.LatencyMS)
	}
	if out.Error != "" {
		t.Fatalf("want empty error, got %q", out.Error)
	}
}

func TestHTTPChecker_Status404NotOK(t *testing.T) {
	s := httptest.NewServer(http.NotFoundHandler())
	defer s.Close()

	out := NewHTTPChecker().Check(context.Background(), ep(s.URL, nil))
	if out.OK {
		t.Fatalf("want failure, got %+v", out)
	}
	if out.StatusCode == nil || *out.StatusCode != 404 {
		t.Fatalf("want status 404, got %v", out.StatusCode)
	}
	if out.Error == "" {
		t.Fatalf("want status error message")
	}
}

func TestHTTPChecker_ExpectedStatusesAccept201(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(201)
	}))
	defer s.Close()

	e := ep(s.URL, func(e *domain.Endpoint) { e.ExpectedStatuses = []int{201, 202} })
	out := NewHTTPChecker().Check(context.Background(), e)
	if !out.OK || out.StatusCode == nil || *out.StatusCode != 201 {
		t.Fatalf("want ok with 201, got %+v", out)
	}
}

// An error-range status in the expected set is healthy: the transport's
// idea of "error" never short-circuits the acceptance rule.
func TestHTTPChecker_ExpectedStatusesAcceptServerError(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", 503)
	}))
	defer s.Close()

	e := ep(s.URL, func(e *domain.Endpoint) { e.ExpectedStatuses = []int{503} })
	out := NewHTTPChecker().Check(context.Background(), e)
	if !out.OK {
		t.Fatalf("503 in expected set must be ok, got %+v", out)
	}
	if out.StatusCode == nil || *out.StatusCode != 503 {
		t.Fatalf("want captured status 503, got %v", out.StatusCode)
	}
}

func TestHTTPChecker_TimeoutClassified(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(200)
	}))
	defer s.Close()

	e := ep(s.URL, func(e *domain.Endpoint) { e.Timeout = 50 * time.Millisecond })
	start := time.Now()
	out := NewHTTPChecker().Check(context.Background(), e)
	elapsed := time.Since(start)

	if out.OK {
		t.Fatalf("want failure on timeout, got %+v", out)
	}
	if out.StatusCode != nil {
		t.Fatalf("want nil status on timeout, got %v", *out.StatusCode)
	}
	if !strings.HasPrefix(out.Error, "timeout:") {
		t.Fatalf("want timeout classification, got %q", out.Error)
	}
	if elapsed > time.Second {
		t.Fatalf("probe blocked past its timeout: %v", elapsed)
	}
	if out.LatencyMS <= 0 {
		t.Fatalf("latency must be populated on failure, got %d", out.LatencyMS)
	}
}

func TestHTTPChecker_ConnectFailure(t *testing.T) {
	// Reserved port with nothing listening.
	out := NewHTTPChecker().Check(context.Background(), ep("http://127.0.0.1:1", nil))
	if out.OK || out.StatusCode != nil {
		t.Fatalf("want transport failure, got %+v", out)
	}
	if out.Error == "" {
		t.Fatalf("want error populated")
	}
}

func TestHTTPChecker_MethodAndHeadersForwarded(t *testing.T) {
	var gotMethod, gotHeader string
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotHeader = r.Header.Get("X-Token")
		w.WriteHeader(204)
	}))
	defer s.Close()

	e := ep(s.URL, func(e *domain.Endpoint) {
		e.Method = http.MethodPost
		e.Headers = map[string]string{"X-Token": "abc"}
	})
	out := NewHTTPChecker().Check(context.Background(), e)
	if !out.OK {
		t.Fatalf("want ok, got %+v", out)
	}
	if gotMethod != http.MethodPost || gotHeader != "abc" {
		t.Fatalf("method/header not forwarded: %q %q", gotMethod, gotHeader)
	}
}
