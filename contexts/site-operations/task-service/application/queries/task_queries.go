package queries

import (
	"context"
	"log/slog"
	"strings"

	application "zodchiy/contexts/site-operations/task-service/application"
	"zodchiy/contexts/site-operations/task-service/domain/entities"
	domainerrors "zodchiy/contexts/site-operations/task-service/domain/errors"
	"zodchiy/contexts/site-operations/task-service/ports"
)

type ListTasksQuery struct {
	ProjectID string
	Status    string
}

type QueryUseCase struct {
	Repository ports.Repository
	Evidence   ports.EvidenceStore
	Logger     *slog.Logger
}

func (uc QueryUseCase) GetTask(ctx context.Context, taskID string) (application.TaskView, error) {
	task, err := uc.Repository.GetTask(ctx, strings.TrimSpace(taskID))
	if err != nil {
		return application.TaskView{}, err
	}
	count, err := uc.Evidence.EvidenceCount(ctx, task.TaskID)
	if err != nil {
		return application.TaskView{}, err
	}
	return application.TaskView{Task: task, EvidenceCount: count}, nil
}

func (uc QueryUseCase) ListTasks(ctx context.Context, query ListTasksQuery) ([]application.TaskView, error) {
	filter := ports.TaskFilter{ProjectID: strings.TrimSpace(query.ProjectID)}
	if strings.TrimSpace(query.Status) != "" {
		status, ok := entities.ParseTaskStatus(query.Status)
		if !ok {
			return nil, domainerrors.ErrInvalidStatus
		}
		filter.Status = status
	}

	tasks, err := uc.Repository.ListTasks(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]application.TaskView, 0, len(tasks))
	for _, task := range tasks {
		count, err := uc.Evidence.EvidenceCount(ctx, task.TaskID)
		if err != nil {
			return nil, err
		}
		items = append(items, application.TaskView{Task: task, EvidenceCount: count})
	}
	application.ResolveLogger(uc.Logger).Debug("tasks listed",
		"event", "tasks_listed",
		"module", "site-operations/task-service",
		"layer", "application",
		"count", len(items),
	)
	return items, nil
}

func (uc QueryUseCase) ListEvidence(ctx context.Context, taskID string) ([]entities.Evidence, error) {
	task, err := uc.Repository.GetTask(ctx, strings.TrimSpace(taskID))
	if err != nil {
		return nil, err
	}
	return uc.Evidence.ListEvidence(ctx, task.TaskID)
}
