// Package searchlog persists vehicle search outcomes for catalog-gap
// analysis. It subscribes to the event bus instead of being called
// inline so a logging failure can never break a search.
package searchlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"namfulgor_backend/internal/events"
	"namfulgor_backend/platform/logger"
)

// Recorder writes search log rows.
type Recorder struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// New creates a search log recorder.
func New(pool *pgxpool.Pool, log *logger.Logger) *Recorder {
	return &Recorder{pool: pool, log: log}
}

// Register subscribes the recorder to search events on the bus.
func (r *Recorder) Register(bus events.Bus) {
	bus.Subscribe(events.BatterySearchPerformed{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		search, ok := event.(events.BatterySearchPerformed)
		if !ok {
			return fmt.Errorf("unexpected event type %T", event)
		}
		return r.record(ctx, search)
	}))
}

func (r *Recorder) record(ctx context.Context, search events.BatterySearchPerformed) error {
	query := `
		INSERT INTO search_log (id, query, status, vehicle_key, candidate_count, created_at)
		VALUES ($1, $2, $3, $4, $5, now())`

	_, err := r.pool.Exec(ctx, query,
		uuid.NewString(),
		search.Query,
		search.Status,
		search.VehicleKey,
		len(search.Candidates),
	)
	if err != nil {
		r.log.WithContext(ctx).DatabaseError("insert search log", err)
		return fmt.Errorf("insert search log: %w", err)
	}
	return nil
}
