package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/armazem-erp/armazem-erp/internal/ingest"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskSnapshotRefresh re-primes the source cache ahead of user refreshes.
	TaskSnapshotRefresh = "snapshot:refresh"
)

// SnapshotRefreshPayload selects which sources the refresh touches. An empty
// list means every source.
type SnapshotRefreshPayload struct {
	Sources []string `json:"sources,omitempty"`
}

// NewSnapshotRefreshTask constructs the periodic refresh task.
func NewSnapshotRefreshTask(payload SnapshotRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSnapshotRefresh, data), nil
}

// SnapshotRefreshHandler returns the asynq handler that pulls every source
// and re-primes the cache.
func SnapshotRefreshHandler(client *ingest.Client, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload SnapshotRefreshPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := client.Prime(ctx); err != nil {
			logger.Warn("snapshot refresh failed", slog.Any("error", err))
			return err
		}
		logger.Info("snapshot cache primed")
		return nil
	}
}
