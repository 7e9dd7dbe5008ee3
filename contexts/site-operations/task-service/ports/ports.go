package ports

import (
	"context"
	"time"

	"zodchiy/contexts/site-operations/task-service/domain/entities"
)

type TaskFilter struct {
	ProjectID string
	Status    entities.TaskStatus
}

// Repository persists tasks. UpdateTask must apply only when the stored
// version equals expectedVersion, and bump the version on success.
type Repository interface {
	CreateTask(ctx context.Context, task entities.Task) error
	GetTask(ctx context.Context, taskID string) (entities.Task, error)
	ListTasks(ctx context.Context, filter TaskFilter) ([]entities.Task, error)
	UpdateTask(ctx context.Context, task entities.Task, expectedVersion int64) (entities.Task, error)
}

type EvidenceStore interface {
	AddEvidence(ctx context.Context, evidence entities.Evidence) error
	ListEvidence(ctx context.Context, taskID string) ([]entities.Evidence, error)
	EvidenceCount(ctx context.Context, taskID string) (int, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
