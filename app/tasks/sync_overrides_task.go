package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streamvault/streamvault/app/config"
)

// SyncOverridesTask reloads the overrides directory so edits take effect
// without a restart.
type SyncOverridesTask struct {
	Task
	overrides *config.OverrideCache
}

func NewSyncOverridesTask(overrides *config.OverrideCache) *SyncOverridesTask {
	return &SyncOverridesTask{
		Task:      NewTask(TaskTypeSyncOverrides),
		overrides: overrides,
	}
}

func (t *SyncOverridesTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if err := t.overrides.Run(); err != nil {
		slog.Error("Task failed", "type", "SyncOverrides", "error", err)
		return fmt.Errorf("failed to reload overrides: %w", err)
	}

	slog.Info("Task completed",
		"type", "SyncOverrides",
		"duration", t.GetDuration(),
		"overrides", t.overrides.GetOverrideCount())

	return nil
}
