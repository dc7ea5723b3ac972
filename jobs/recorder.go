package jobs

import (
	"context"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/sentinel-iam/sentinel/internal/auth"
)

// Recorder enqueues auth events for asynchronous persistence. It
// implements auth.EventSink; enqueue failures are logged, never surfaced
// to the login path.
type Recorder struct {
	client *asynq.Client
	logger *slog.Logger
}

// NewRecorder constructs a Recorder.
func NewRecorder(client *asynq.Client, logger *slog.Logger) *Recorder {
	return &Recorder{client: client, logger: logger}
}

// RecordAuthEvent enqueues the event on the default queue.
func (r *Recorder) RecordAuthEvent(ctx context.Context, event auth.AuthEvent) {
	task, err := NewAuthEventTask(event)
	if err != nil {
		r.logger.Warn("build auth event task", slog.Any("error", err))
		return
	}
	if _, err := r.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault)); err != nil {
		r.logger.Warn("enqueue auth event", slog.Any("error", err))
	}
}

var _ auth.EventSink = (*Recorder)(nil)
