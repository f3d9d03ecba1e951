package repo

import (
	"context"

	"github.com/hamed0406/apistatus/internal/domain"
)

// Ports (interfaces) — swap in any DB adapter later.

type EndpointStore interface {
	// Upsert inserts the endpoint or updates the row matched by its
	// unique name. The returned id is stable across updates.
	Upsert(ctx context.Context, ep *domain.Endpoint) (int64, error)
}

type CheckStore interface {
	// Append adds one immutable result row.
	Append(ctx context.Context, c *domain.Check) error
	// Last returns the most recent check, ties on checked_at broken by
	// insertion order. (nil, nil) when no rows exist.
	Last(ctx context.Context, endpointID int64) (*domain.Check, error)
	// Uptime counts ok and total rows with checked_at >= since, or all
	// rows when since is nil.
	Uptime(ctx context.Context, endpointID int64, since *int64) (domain.Uptime, error)
	// History returns the newest limit rows, newest first.
	History(ctx context.Context, endpointID int64, limit int) ([]domain.Check, error)
}
