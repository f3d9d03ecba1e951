package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hamed0406/apistatus/internal/domain"
)

const (
	defaultMethod   = "GET"
	defaultInterval = 30 * time.Second
	defaultTimeout  = 10 * time.Second

	minInterval = 5 * time.Second
	minTimeout  = 1 * time.Second
)

// rawEndpoint keeps loose types so we can reject a config with a precise
// message instead of a bare json decode error.
type rawEndpoint struct {
	Name             string         `json:"name"`
	URL              string         `json:"url"`
	Method           *string        `json:"method"`
	IntervalSeconds  *int           `json:"interval_seconds"`
	TimeoutSeconds   *int           `json:"timeout_seconds"`
	Headers          map[string]any `json:"headers"`
	ExpectedStatuses []any          `json:"expected_statuses"`
}

// LoadEndpoints reads and validates the endpoints JSON file. Any
// violation fails the whole load; the caller treats that as fatal.
func LoadEndpoints(path string) ([]domain.Endpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints config: %w", err)
	}

	var raws []rawEndpoint
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, fmt.Errorf("endpoints config must be a JSON array of endpoints: %w", err)
	}

	endpoints := make([]domain.Endpoint, 0, len(raws))
	seen := make(map[string]struct{}, len(raws))
	for i, raw := range raws {
		ep, err := validateEndpoint(raw)
		if err != nil {
			return nil, fmt.Errorf("endpoint %d: %w", i, err)
		}
		if _, dup := seen[ep.Name]; dup {
			return nil, fmt.Errorf("duplicate endpoint name %q", ep.Name)
		}
		seen[ep.Name] = struct{}{}
		endpoints = append(endpoints, ep)
	}
	return endpoints, nil
}

func validateEndpoint(raw rawEndpoint) (domain.Endpoint, error) {
	var ep domain.Endpoint

	name := strings.TrimSpace(raw.Name)
	if name == "" {
		return ep, fmt.Errorf("missing non-empty 'name'")
	}
	url := strings.TrimSpace(raw.URL)
	if url == "" {
		return ep, fmt.Errorf("endpoint %q: missing non-empty 'url'", name)
	}

	method := defaultMethod
	if raw.Method != nil {
		method = strings.ToUpper(strings.TrimSpace(*raw.Method))
		if method == "" {
			return ep, fmt.Errorf("endpoint %q: invalid 'method'", name)
		}
	}

	interval := defaultInterval
	if raw.IntervalSeconds != nil {
		if *raw.IntervalSeconds < int(minInterval/time.Second) {
			return ep, fmt.Errorf("endpoint %q: invalid 'interval_seconds' (min 5)", name)
		}
		interval = time.Duration(*raw.IntervalSeconds) * time.Second
	}

	timeout := defaultTimeout
	if raw.TimeoutSeconds != nil {
		if *raw.TimeoutSeconds < int(minTimeout/time.Second) {
			return ep, fmt.Errorf("endpoint %q: invalid 'timeout_seconds' (min 1)", name)
		}
		timeout = time.Duration(*raw.TimeoutSeconds) * time.Second
	}

	var headers map[string]string
	if raw.Headers != nil {
		headers = make(map[string]string, len(raw.Headers))
		for k, v := range raw.Headers {
			s, ok := v.(string)
			if !ok {
				return ep, fmt.Errorf("endpoint %q: invalid 'headers' (must be string->string)", name)
			}
			headers[k] = s
		}
	}

	var statuses []int
	if raw.ExpectedStatuses != nil {
		statuses = make([]int, 0, len(raw.ExpectedStatuses))
		for _, v := range raw.ExpectedStatuses {
			// encoding/json gives float64 for numbers.
			f, ok := v.(float64)
			if !ok || f != float64(int(f)) {
				return ep, fmt.Errorf("endpoint %q: invalid 'expected_statuses' (must be integers)", name)
			}
			statuses = append(statuses, int(f))
		}
	}

	return domain.Endpoint{
		Name:             name,
		URL:              url,
		Method:           method,
		Interval:         interval,
		Timeout:          timeout,
		Headers:          headers,
		ExpectedStatuses: statuses,
	}, nil
}
