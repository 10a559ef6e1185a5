package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const taskDedupTTL = time.Hour

// TaskDedup remembers completed task ids so redelivered tasks are skipped.
// Key format: task:done:<task_id>
type TaskDedup struct {
	client *redis.Client
}

func NewTaskDedup(client *redis.Client) *TaskDedup {
	return &TaskDedup{client: client}
}

// IsDone reports whether the task has already completed.
func (d *TaskDedup) IsDone(ctx context.Context, taskID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(taskID)).Result()
	if err != nil {
		return false, fmt.Errorf("task dedup check: %w", err)
	}
	return n > 0, nil
}

// MarkDone records completion (expires after taskDedupTTL).
func (d *TaskDedup) MarkDone(ctx context.Context, taskID string) error {
	return d.client.Set(ctx, d.key(taskID), "1", taskDedupTTL).Err()
}

func (d *TaskDedup) key(taskID string) string {
	return fmt.Sprintf("task:done:%s", taskID)
}
