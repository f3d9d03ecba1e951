package httpapi

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/apistatus/internal/domain"
)

const (
	defaultHistoryLimit = 200
	maxHistoryLimit     = 2000
)

type uptimeView struct {
	Up    int      `json:"up"`
	Total int      `json:"total"`
	Pct   *float64 `json:"pct"`
}

type endpointStatus struct {
	Name      string        `json:"name"`
	Last      *domain.Check `json:"last"`
	Uptime24h uptimeView    `json:"uptime_24h"`
	UptimeAll uptimeView    `json:"uptime_all"`
}

type statusResponse struct {
	Endpoints []endpointStatus `json:"endpoints"`
	Now       int64            `json:"now"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	out, err := s.buildStatus(r.Context())
	if err != nil {
		s.Logger.Warn("status_query_error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store query failed")
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) buildStatus(ctx context.Context) (statusResponse, error) {
	now := time.Now().Unix()
	since24h := now - 24*60*60

	endpoints := make([]endpointStatus, 0, len(s.Monitor.EndpointList()))
	for _, ep := range s.Monitor.EndpointList() {
		id, ok := s.Monitor.EndpointID(ep.Name)
		if !ok {
			continue
		}

		last, err := s.Checks.Last(ctx, id)
		if err != nil {
			return statusResponse{}, err
		}
		u24, err := s.Checks.Uptime(ctx, id, &since24h)
		if err != nil {
			return statusResponse{}, err
		}
		uAll, err := s.Checks.Uptime(ctx, id, nil)
		if err != nil {
			return statusResponse{}, err
		}

		endpoints = append(endpoints, endpointStatus{
			Name:      ep.Name,
			Last:      last,
			Uptime24h: uptimeView{Up: u24.Up, Total: u24.Total, Pct: pct(u24)},
			UptimeAll: uptimeView{Up: uAll.Up, Total: uAll.Total, Pct: pct(uAll)},
		})
	}

	sort.Slice(endpoints, func(i, j int) bool {
		return strings.ToLower(endpoints[i].Name) < strings.ToLower(endpoints[j].Name)
	})

	return statusResponse{Endpoints: endpoints, Now: now}, nil
}

// pct returns nil for an empty window: "no data", not 0%.
func pct(u domain.Uptime) *float64 {
	if u.Total == 0 {
		return nil
	}
	v := math.Round(float64(u.Up)/float64(u.Total)*100*100) / 100
	return &v
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "Missing 'name' query param")
		return
	}

	limit := defaultHistoryLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid 'limit'")
			return
		}
		limit = clamp(n, 1, maxHistoryLimit)
	}

	id, ok := s.Monitor.EndpointID(name)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown endpoint")
		return
	}

	rows, err := s.Checks.History(r.Context(), id, limit)
	if err != nil {
		s.Logger.Warn("history_query_error", zap.String("endpoint", name), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "store query failed")
		return
	}
	if rows == nil {
		rows = []domain.Check{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"name":    name,
		"history": rows,
	})
}

type checkNowPayload struct {
	Name string `json:"name"`
}

func (s *Server) handleCheckNow(w http.ResponseWriter, r *http.Request) {
	var p checkNowPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Missing 'name'")
		return
	}
	if !s.Monitor.CheckNow(name) {
		writeError(w, http.StatusNotFound, "Unknown endpoint")
		return
	}
	// Dispatched, not awaited.
	writeJSON(w, http.StatusAccepted, map[string]bool{"ok": true})
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
