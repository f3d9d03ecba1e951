package probe

import (
	"context"

	"github.com/hamed0406/apistatus/internal/domain"
)

// Outcome is the fully classified result of a single probe.
//
// LatencyMS is always populated, failures included. StatusCode is nil
// when the probe failed before a response arrived; Error is empty on
// success and holds "category: message" otherwise.
type Outcome struct {
	OK         bool
	StatusCode *int
	LatencyMS  int64
	Error      string
}

// Checker executes one probe against an endpoint. Implementations never
// return an error or panic: every path yields a populated Outcome.
type Checker interface {
	Check(ctx context.Context, ep domain.Endpoint) Outcome
}
