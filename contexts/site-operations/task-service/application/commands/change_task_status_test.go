package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"zodchiy/contexts/site-operations/task-service/domain/entities"
	domainerrors "zodchiy/contexts/site-operations/task-service/domain/errors"
	"zodchiy/contexts/site-operations/task-service/ports"
)

type fakeRepository struct {
	task      entities.Task
	updateErr error
	updates   int
	expected  int64
}

func (f *fakeRepository) CreateTask(context.Context, entities.Task) error { return nil }

func (f *fakeRepository) GetTask(_ context.Context, taskID string) (entities.Task, error) {
	if taskID != f.task.TaskID {
		return entities.Task{}, domainerrors.ErrTaskNotFound
	}
	return f.task, nil
}

func (f *fakeRepository) ListTasks(context.Context, ports.TaskFilter) ([]entities.Task, error) {
	return nil, nil
}

func (f *fakeRepository) UpdateTask(_ context.Context, task entities.Task, expectedVersion int64) (entities.Task, error) {
	f.updates++
	f.expected = expectedVersion
	if f.updateErr != nil {
		return entities.Task{}, f.updateErr
	}
	task.Version = expectedVersion + 1
	return task, nil
}

type fakeEvidence struct {
	count int
}

func (f fakeEvidence) AddEvidence(context.Context, entities.Evidence) error { return nil }

func (f fakeEvidence) ListEvidence(context.Context, string) ([]entities.Evidence, error) {
	return nil, nil
}

func (f fakeEvidence) EvidenceCount(context.Context, string) (int, error) { return f.count, nil }

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newChangeStatus(repo *fakeRepository, evidence int) ChangeTaskStatusUseCase {
	return ChangeTaskStatusUseCase{
		Repository: repo,
		Evidence:   fakeEvidence{count: evidence},
		Clock:      fixedClock{now: time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)},
	}
}

func TestChangeStatusUsesLoadedVersion(t *testing.T) {
	repo := &fakeRepository{task: entities.Task{TaskID: "task-1", Status: entities.TaskStatusInProgress, Version: 7}}
	view, err := newChangeStatus(repo, 2).Execute(context.Background(), ChangeTaskStatusCommand{
		TaskID:    "task-1",
		ActorID:   "foreman-1",
		Role:      entities.RoleForeman,
		NewStatus: "review",
	})
	if err != nil {
		t.Fatalf("change status failed: %v", err)
	}
	if repo.expected != 7 {
		t.Fatalf("expected update guarded by version 7, got %d", repo.expected)
	}
	if view.Task.Version != 8 || view.EvidenceCount != 2 {
		t.Fatalf("unexpected view %+v", view)
	}
	if !view.Task.UpdatedAt.Equal(time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected clock timestamp, got %s", view.Task.UpdatedAt)
	}
}

func TestChangeStatusRejectionSkipsWrite(t *testing.T) {
	repo := &fakeRepository{task: entities.Task{TaskID: "task-1", Status: entities.TaskStatusTodo, Version: 1}}
	_, err := newChangeStatus(repo, 0).Execute(context.Background(), ChangeTaskStatusCommand{
		TaskID:    "task-1",
		ActorID:   "supervisor-1",
		Role:      entities.RoleSupervisor,
		NewStatus: "done",
	})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
	if repo.updates != 0 {
		t.Fatalf("expected no writes, got %d", repo.updates)
	}
}

func TestChangeStatusSurfacesVersionConflict(t *testing.T) {
	repo := &fakeRepository{
		task:      entities.Task{TaskID: "task-1", Status: entities.TaskStatusReview, Version: 3},
		updateErr: domainerrors.ErrConcurrentModification,
	}
	_, err := newChangeStatus(repo, 1).Execute(context.Background(), ChangeTaskStatusCommand{
		TaskID:    "task-1",
		ActorID:   "supervisor-1",
		Role:      entities.RoleSupervisor,
		NewStatus: "done",
	})
	if !errors.Is(err, domainerrors.ErrConcurrentModification) {
		t.Fatalf("expected concurrent modification, got %v", err)
	}
}

func TestChangeStatusRequiresRequester(t *testing.T) {
	repo := &fakeRepository{task: entities.Task{TaskID: "task-1", Status: entities.TaskStatusTodo, Version: 1}}
	_, err := newChangeStatus(repo, 0).Execute(context.Background(), ChangeTaskStatusCommand{
		TaskID:    "task-1",
		Role:      entities.RoleForeman,
		NewStatus: "in_progress",
	})
	if !errors.Is(err, domainerrors.ErrInvalidRole) {
		t.Fatalf("expected invalid role for anonymous requester, got %v", err)
	}
}
