package commands

import (
	"context"
	"log/slog"
	"strings"

	application "zodchiy/contexts/site-operations/task-service/application"
	"zodchiy/contexts/site-operations/task-service/domain/entities"
	domainerrors "zodchiy/contexts/site-operations/task-service/domain/errors"
	"zodchiy/contexts/site-operations/task-service/ports"
)

type CreateTaskCommand struct {
	ActorID     string
	Role        entities.Role
	ProjectID   string
	Title       string
	Description string
}

type CreateTaskUseCase struct {
	Repository ports.Repository
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc CreateTaskUseCase) Execute(ctx context.Context, cmd CreateTaskCommand) (entities.Task, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" || !cmd.Role.Valid() {
		return entities.Task{}, domainerrors.ErrInvalidRole
	}
	if cmd.Role != entities.RoleAdmin && cmd.Role != entities.RoleManager {
		return entities.Task{}, domainerrors.ErrForbidden
	}

	taskID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Task{}, err
	}
	now := uc.Clock.Now().UTC()
	task := entities.Task{
		TaskID:      taskID,
		ProjectID:   strings.TrimSpace(cmd.ProjectID),
		Title:       strings.TrimSpace(cmd.Title),
		Description: strings.TrimSpace(cmd.Description),
		Status:      entities.TaskStatusTodo,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if !task.ValidateCreate() {
		return entities.Task{}, domainerrors.ErrInvalidTaskInput
	}
	if err := uc.Repository.CreateTask(ctx, task); err != nil {
		return entities.Task{}, err
	}

	logger.Info("task created",
		"event", "task_created",
		"module", "site-operations/task-service",
		"layer", "application",
		"task_id", task.TaskID,
		"project_id", task.ProjectID,
		"actor_id", strings.TrimSpace(cmd.ActorID),
	)
	return task, nil
}
