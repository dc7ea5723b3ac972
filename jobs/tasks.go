package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sentinel-iam/sentinel/internal/auth"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeAuthEvent is the task type for persisting auth audit events.
	TaskTypeAuthEvent = "auth:event"
)

// NewAuthEventTask constructs an Asynq task from an auth event.
func NewAuthEventTask(event auth.AuthEvent) (*asynq.Task, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeAuthEvent, data), nil
}

// AuthEventWriter persists auth events delivered via the queue.
type AuthEventWriter struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewAuthEventWriter constructs a writer backed by PostgreSQL.
func NewAuthEventWriter(pool *pgxpool.Pool, logger *slog.Logger) *AuthEventWriter {
	return &AuthEventWriter{pool: pool, logger: logger}
}

// HandleAuthEventTask processes TaskTypeAuthEvent tasks.
func (w *AuthEventWriter) HandleAuthEventTask(ctx context.Context, t *asynq.Task) error {
	var event auth.AuthEvent
	if err := json.Unmarshal(t.Payload(), &event); err != nil {
		return asynq.SkipRetry
	}
	_, err := w.pool.Exec(ctx,
		`INSERT INTO auth_events (kind, email, username, success, occurred_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		event.Kind, event.Email, event.Username, event.Success, event.At)
	if err != nil && w.logger != nil {
		w.logger.Error("persist auth event", slog.Any("error", err))
	}
	return err
}
