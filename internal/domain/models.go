package domain

import "time"

// Endpoint is one monitored HTTP target. Loaded once at startup and
// treated as read-only afterwards.
type Endpoint struct {
	Name             string            `json:"name"`
	URL              string            `json:"url"`
	Method           string            `json:"method"`
	Interval         time.Duration     `json:"interval"`
	Timeout          time.Duration     `json:"timeout"`
	Headers          map[string]string `json:"headers,omitempty"`
	ExpectedStatuses []int             `json:"expected_statuses,omitempty"`
}

// Accepts reports whether status counts as healthy for this endpoint.
// With an explicit expected set, membership decides; otherwise any
// 2xx/3xx status is healthy.
func (e *Endpoint) Accepts(status int) bool {
	if len(e.ExpectedStatuses) > 0 {
		for _, s := range e.ExpectedStatuses {
			if s == status {
				return true
			}
		}
		return false
	}
	return status >= 200 && status < 400
}

// Check is one persisted probe result. StatusCode and LatencyMS are nil
// when the probe failed before a response arrived; Error is nil on
// success.
type Check struct {
	EndpointID int64   `json:"-"`
	CheckedAt  int64   `json:"checked_at"` // epoch seconds
	OK         bool    `json:"ok"`
	StatusCode *int    `json:"status_code"`
	LatencyMS  *int64  `json:"latency_ms"`
	Error      *string `json:"error"`
}

// Uptime counts healthy vs total checks inside a window. Total==0 means
// no data; callers must not derive a percentage from it.
type Uptime struct {
	Up    int `json:"up"`
	Total int `json:"total"`
}
