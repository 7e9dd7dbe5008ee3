package commands

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	application "zodchiy/contexts/site-operations/task-service/application"
	"zodchiy/contexts/site-operations/task-service/domain/entities"
	domainerrors "zodchiy/contexts/site-operations/task-service/domain/errors"
	"zodchiy/contexts/site-operations/task-service/ports"
)

type AddEvidenceCommand struct {
	TaskID   string
	ActorID  string
	Role     entities.Role
	ImageURL string
}

type AddEvidenceUseCase struct {
	Repository ports.Repository
	Evidence   ports.EvidenceStore
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func (uc AddEvidenceUseCase) Execute(ctx context.Context, cmd AddEvidenceCommand) (entities.Evidence, error) {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" || !cmd.Role.Valid() {
		return entities.Evidence{}, domainerrors.ErrInvalidRole
	}
	if cmd.Role != entities.RoleAdmin && cmd.Role != entities.RoleForeman {
		return entities.Evidence{}, domainerrors.ErrForbidden
	}
	imageURL := strings.TrimSpace(cmd.ImageURL)
	if !isImageURL(imageURL) {
		return entities.Evidence{}, domainerrors.ErrInvalidEvidenceInput
	}

	task, err := uc.Repository.GetTask(ctx, strings.TrimSpace(cmd.TaskID))
	if err != nil {
		return entities.Evidence{}, err
	}

	evidenceID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return entities.Evidence{}, err
	}
	evidence := entities.Evidence{
		EvidenceID: evidenceID,
		TaskID:     task.TaskID,
		ImageURL:   imageURL,
		AddedByID:  strings.TrimSpace(cmd.ActorID),
		CreatedAt:  uc.Clock.Now().UTC(),
	}
	if err := uc.Evidence.AddEvidence(ctx, evidence); err != nil {
		return entities.Evidence{}, err
	}

	logger.Info("task evidence added",
		"event", "task_evidence_added",
		"module", "site-operations/task-service",
		"layer", "application",
		"task_id", task.TaskID,
		"evidence_id", evidence.EvidenceID,
	)
	return evidence, nil
}

func isImageURL(raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	scheme := strings.ToLower(parsed.Scheme)
	return (scheme == "http" || scheme == "https") && parsed.Host != ""
}
