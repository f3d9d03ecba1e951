package probe

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/hamed0406/apistatus/internal/domain"
)

type HTTPChecker struct {
	Client *http.Client
}

// NewHTTPChecker builds a checker with a shared transport. The client
// carries no global timeout; each probe is bounded by the endpoint's own
// timeout via context.
func NewHTTPChecker() *HTTPChecker {
	return &HTTPChecker{Client: &http.Client{}}
}

func (h *HTTPChecker) Check(ctx context.Context, ep domain.Endpoint) Outcome {
	cctx, cancel := context.WithTimeout(ctx, ep.Timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(cctx, ep.Method, ep.URL, nil)
	if err != nil {
		return Outcome{
			LatencyMS: time.Since(start).Milliseconds(),
			Error:     "request: " + err.Error(),
		}
	}
	for k, v := range ep.Headers {
		req.Header.Set(k, v)
	}

	resp, err := h.Client.Do(req)
	latency := time.Since(start).Milliseconds()
	if err != nil {
		return Outcome{LatencyMS: latency, Error: classify(err)}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	// An error-range status is still a status: it goes through the same
	// acceptance rule, never straight to unhealthy.
	status := resp.StatusCode
	out := Outcome{
		OK:         ep.Accepts(status),
		StatusCode: &status,
		LatencyMS:  latency,
	}
	if !out.OK {
		out.Error = "status: " + resp.Status
	}
	return out
}

func classify(err error) string {
	var ne net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &ne) && ne.Timeout()) {
		return "timeout: " + err.Error()
	}
	var de *net.DNSError
	if errors.As(err, &de) {
		return "dns: " + de.Error()
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return "connect: " + ue.Err.Error()
	}
	return "connect: " + err.Error()
}
