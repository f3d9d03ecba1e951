package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/apistatus/internal/domain"
	"github.com/hamed0406/apistatus/internal/probe"
	"github.com/hamed0406/apistatus/internal/repo"
)

const defaultStagger = 200 * time.Millisecond

// stopGrace bounds how long Stop waits for loops to finish their
// current iteration.
const stopGrace = 2 * time.Second

// Monitor runs one check loop per configured endpoint and persists
// every outcome. The name->id map is written once in Start and
// read-only afterwards, so concurrent API readers need no locking.
type Monitor struct {
	Logger    *zap.Logger
	Endpoints repo.EndpointStore
	Checks    repo.CheckStore
	Checker   probe.Checker

	// Stagger delays each loop's first check to avoid a thundering herd
	// at startup. Tests shrink it.
	Stagger time.Duration

	endpoints []domain.Endpoint
	ids       map[string]int64
	byName    map[string]domain.Endpoint

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(
	logger *zap.Logger,
	endpoints []domain.Endpoint,
	es repo.EndpointStore,
	cs repo.CheckStore,
	checker probe.Checker,
) *Monitor {
	return &Monitor{
		Logger:    logger,
		Endpoints: es,
		Checks:    cs,
		Checker:   checker,
		Stagger:   defaultStagger,
		endpoints: endpoints,
		ids:       make(map[string]int64, len(endpoints)),
		byName:    make(map[string]domain.Endpoint, len(endpoints)),
	}
}

// Start upserts every endpoint to obtain stable ids, then launches one
// loop per endpoint. An upsert failure is fatal: without ids no check
// can be recorded.
func (m *Monitor) Start(ctx context.Context) error {
	for i := range m.endpoints {
		ep := m.endpoints[i]
		id, err := m.Endpoints.Upsert(ctx, &ep)
		if err != nil {
			return fmt.Errorf("register endpoint %q: %w", ep.Name, err)
		}
		m.ids[ep.Name] = id
		m.byName[ep.Name] = ep
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel

	for _, ep := range m.endpoints {
		m.wg.Add(1)
		go m.loop(loopCtx, ep)
	}

	m.Logger.Info("monitor_started", zap.Int("endpoints", len(m.endpoints)))
	return nil
}

// Stop signals all loops and waits up to stopGrace for them to finish
// their current iteration. In-flight probes are not aborted; they
// complete or hit their own timeout.
func (m *Monitor) Stop() {
	if m.cancel == nil {
		return
	}
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		m.Logger.Info("monitor_stopped")
	case <-time.After(stopGrace):
		m.Logger.Warn("monitor_stop_timeout")
	}
}

// CheckNow dispatches one out-of-band check for name, concurrent with
// the regular loop. Fire-and-forget: the result lands in the store but
// the caller is not kept waiting. Returns false for unknown names.
func (m *Monitor) CheckNow(name string) bool {
	ep, ok := m.byName[name]
	if !ok {
		return false
	}
	go m.checkAndStore(context.Background(), ep)
	return true
}

// EndpointID resolves a configured name to its store id.
func (m *Monitor) EndpointID(name string) (int64, bool) {
	id, ok := m.ids[name]
	return id, ok
}

// EndpointList returns the configured endpoints.
func (m *Monitor) EndpointList() []domain.Endpoint {
	return m.endpoints
}

func (m *Monitor) loop(ctx context.Context, ep domain.Endpoint) {
	defer m.wg.Done()

	select {
	case <-ctx.Done():
		return
	case <-time.After(m.Stagger):
	}

	for {
		// The probe runs under its own timeout, detached from the stop
		// signal, so shutdown never truncates an observation.
		m.checkAndStore(context.Background(), ep)

		select {
		case <-ctx.Done():
			return
		case <-time.After(ep.Interval):
		}
	}
}

func (m *Monitor) checkAndStore(ctx context.Context, ep domain.Endpoint) {
	out := m.Checker.Check(ctx, ep)

	c := &domain.Check{
		EndpointID: m.ids[ep.Name],
		CheckedAt:  time.Now().Unix(),
		OK:         out.OK,
		StatusCode: out.StatusCode,
		LatencyMS:  &out.LatencyMS,
	}
	if out.Error != "" {
		c.Error = &out.Error
	}

	if err := m.Checks.Append(ctx, c); err != nil {
		// Skipped tick; the next interval retries. Other endpoints are
		// unaffected.
		m.Logger.Warn("check_append_error",
			zap.String("endpoint", ep.Name),
			zap.Error(err),
		)
		return
	}

	m.Logger.Debug("checked",
		zap.String("endpoint", ep.Name),
		zap.Bool("ok", out.OK),
		zap.Int64("latency_ms", out.LatencyMS),
		zap.String("error", out.Error),
	)
}
