package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/hamed0406/apistatus/internal/domain"
	"github.com/hamed0406/apistatus/internal/repo"
)

var _ repo.EndpointStore = (*Store)(nil)
var _ repo.CheckStore = (*Store)(nil)

// WAL keeps concurrent readers working while the per-endpoint loops and
// check-now writers append; busy_timeout covers writer contention.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS endpoints (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  name TEXT NOT NULL UNIQUE,
  url TEXT NOT NULL,
  method TEXT NOT NULL,
  interval_seconds INTEGER NOT NULL,
  timeout_seconds INTEGER NOT NULL,
  headers_json TEXT,
  expected_statuses_json TEXT,
  created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS checks (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  endpoint_id INTEGER NOT NULL,
  checked_at INTEGER NOT NULL,
  ok INTEGER NOT NULL,
  status_code INTEGER,
  latency_ms INTEGER,
  error TEXT,
  FOREIGN KEY(endpoint_id) REFERENCES endpoints(id)
);

CREATE INDEX IF NOT EXISTS idx_checks_endpoint_time ON checks(endpoint_id, checked_at);
`

type Store struct {
	db  *sql.DB
	log *zap.Logger
}

func New(path string, log *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	dsn := "file:" + path + "?" + url.Values{
		"_journal_mode": {"WAL"},
		"_busy_timeout": {"5000"},
		"_synchronous":  {"NORMAL"},
		"_foreign_keys": {"on"},
	}.Encode()

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ---- EndpointStore ----

func (s *Store) Upsert(ctx context.Context, ep *domain.Endpoint) (int64, error) {
	headersJSON, err := marshalOpt(ep.Headers, len(ep.Headers) > 0)
	if err != nil {
		return 0, fmt.Errorf("marshal headers: %w", err)
	}
	statusesJSON, err := marshalOpt(ep.ExpectedStatuses, len(ep.ExpectedStatuses) > 0)
	if err != nil {
		return 0, fmt.Errorf("marshal expected statuses: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO endpoints (name, url, method, interval_seconds, timeout_seconds, headers_json, expected_statuses_json, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(name) DO UPDATE SET
  url=excluded.url,
  method=excluded.method,
  interval_seconds=excluded.interval_seconds,
  timeout_seconds=excluded.timeout_seconds,
  headers_json=excluded.headers_json,
  expected_statuses_json=excluded.expected_statuses_json`,
		ep.Name, ep.URL, ep.Method,
		int64(ep.Interval/time.Second), int64(ep.Timeout/time.Second),
		headersJSON, statusesJSON, time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("upsert endpoint %q: %w", ep.Name, err)
	}

	var id int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT id FROM endpoints WHERE name = ?`, ep.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("select endpoint id %q: %w", ep.Name, err)
	}
	return id, nil
}

func marshalOpt(v any, present bool) (*string, error) {
	if !present {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}

// ---- CheckStore ----

func (s *Store) Append(ctx context.Context, c *domain.Check) error {
	_, err := s.db.ExecContext(ctx, `
INSERT INTO checks (endpoint_id, checked_at, ok, status_code, latency_ms, error)
VALUES (?, ?, ?, ?, ?, ?)`,
		c.EndpointID, c.CheckedAt, boolInt(c.OK), c.StatusCode, c.LatencyMS, c.Error,
	)
	if err != nil {
		return fmt.Errorf("insert check: %w", err)
	}
	return nil
}

func (s *Store) Last(ctx context.Context, endpointID int64) (*domain.Check, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT endpoint_id, checked_at, ok, status_code, latency_ms, error
FROM checks
WHERE endpoint_id = ?
ORDER BY checked_at DESC, id DESC
LIMIT 1`, endpointID)

	c, err := scanCheck(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("last check: %w", err)
	}
	return c, nil
}

func (s *Store) Uptime(ctx context.Context, endpointID int64, since *int64) (domain.Uptime, error) {
	var up, total sql.NullInt64
	var err error
	if since == nil {
		err = s.db.QueryRowContext(ctx,
			`SELECT SUM(ok), COUNT(*) FROM checks WHERE endpoint_id = ?`,
			endpointID).Scan(&up, &total)
	} else {
		err = s.db.QueryRowContext(ctx,
			`SELECT SUM(ok), COUNT(*) FROM checks WHERE endpoint_id = ? AND checked_at >= ?`,
			endpointID, *since).Scan(&up, &total)
	}
	if err != nil {
		return domain.Uptime{}, fmt.Errorf("uptime: %w", err)
	}
	return domain.Uptime{Up: int(up.Int64), Total: int(total.Int64)}, nil
}

func (s *Store) History(ctx context.Context, endpointID int64, limit int) ([]domain.Check, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT endpoint_id, checked_at, ok, status_code, latency_ms, error
FROM checks
WHERE endpoint_id = ?
ORDER BY checked_at DESC, id DESC
LIMIT ?`, endpointID, limit)
	if err != nil {
		return nil, fmt.Errorf("history: %w", err)
	}
	defer rows.Close()

	var out []domain.Check
	for rows.Next() {
		c, err := scanCheck(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		out = append(out, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history rows: %w", err)
	}
	return out, nil
}

func scanCheck(scan func(...any) error) (*domain.Check, error) {
	var (
		c      domain.Check
		ok     int
		status sql.NullInt64
		lat    sql.NullInt64
		errMsg sql.NullString
	)
	if err := scan(&c.EndpointID, &c.CheckedAt, &ok, &status, &lat, &errMsg); err != nil {
		return nil, err
	}
	c.OK = ok != 0
	if status.Valid {
		v := int(status.Int64)
		c.StatusCode = &v
	}
	if lat.Valid {
		v := lat.Int64
		c.LatencyMS = &v
	}
	if errMsg.Valid {
		v := errMsg.String
		c.Error = &v
	}
	return &c, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
