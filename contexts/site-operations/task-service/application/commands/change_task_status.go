package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "zodchiy/contexts/site-operations/task-service/application"
	"zodchiy/contexts/site-operations/task-service/domain/entities"
	domainerrors "zodchiy/contexts/site-operations/task-service/domain/errors"
	"zodchiy/contexts/site-operations/task-service/domain/services"
	"zodchiy/contexts/site-operations/task-service/ports"
)

type ChangeTaskStatusCommand struct {
	TaskID        string
	ActorID       string
	Role          entities.Role
	NewStatus     string
	Comment       string
	EvidenceAdded bool
}

type ChangeTaskStatusUseCase struct {
	Repository ports.Repository
	Evidence   ports.EvidenceStore
	Clock      ports.Clock
	Logger     *slog.Logger
}

// Execute loads a fresh snapshot, asks the authorizer and writes the result
// in a single versioned update. Nothing is written on rejection.
func (uc ChangeTaskStatusUseCase) Execute(ctx context.Context, cmd ChangeTaskStatusCommand) (application.TaskView, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" || !cmd.Role.Valid() {
		return application.TaskView{}, domainerrors.ErrInvalidRole
	}
	requested, ok := entities.ParseTaskStatus(cmd.NewStatus)
	if !ok {
		return application.TaskView{}, domainerrors.ErrInvalidStatus
	}

	taskID := strings.TrimSpace(cmd.TaskID)
	task, err := uc.Repository.GetTask(ctx, taskID)
	if err != nil {
		return application.TaskView{}, err
	}
	evidenceCount, err := uc.Evidence.EvidenceCount(ctx, taskID)
	if err != nil {
		return application.TaskView{}, err
	}

	decision, err := services.Authorize(
		services.TransitionSubject{Status: task.Status, EvidenceCount: evidenceCount},
		services.TransitionRequest{
			RequestedStatus: requested,
			Comment:         cmd.Comment,
			EvidenceAdded:   cmd.EvidenceAdded,
		},
		cmd.Role,
	)
	if err != nil {
		var transitionErr *domainerrors.TransitionError
		if errors.As(err, &transitionErr) {
			logger.Warn("task status change rejected",
				"event", "task_status_change_rejected",
				"module", "site-operations/task-service",
				"layer", "application",
				"task_id", task.TaskID,
				"current_status", transitionErr.From,
				"requested_status", transitionErr.To,
				"role", transitionErr.Role,
				"reason", transitionErr.Rule,
			)
		}
		return application.TaskView{}, err
	}

	previous := task.Status
	updated := decision.Apply(task)
	updated.UpdatedAt = uc.Clock.Now().UTC()
	saved, err := uc.Repository.UpdateTask(ctx, updated, task.Version)
	if err != nil {
		return application.TaskView{}, err
	}

	logger.Info("task status changed",
		"event", "task_status_changed",
		"module", "site-operations/task-service",
		"layer", "application",
		"task_id", saved.TaskID,
		"old_status", string(previous),
		"new_status", string(saved.Status),
		"role", string(cmd.Role),
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return application.TaskView{Task: saved, EvidenceCount: evidenceCount}, nil
}
