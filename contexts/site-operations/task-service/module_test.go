package taskservice_test

import (
	"context"
	"errors"
	"testing"

	taskservice "zodchiy/contexts/site-operations/task-service"
	httpadapter "zodchiy/contexts/site-operations/task-service/adapters/http"
	"zodchiy/contexts/site-operations/task-service/domain/entities"
	domainerrors "zodchiy/contexts/site-operations/task-service/domain/errors"
	httptransport "zodchiy/contexts/site-operations/task-service/transport/http"
)

var (
	admin      = httpadapter.Requester{UserID: "admin-1", Role: entities.RoleAdmin}
	manager    = httpadapter.Requester{UserID: "manager-1", Role: entities.RoleManager}
	foreman    = httpadapter.Requester{UserID: "foreman-1", Role: entities.RoleForeman}
	supervisor = httpadapter.Requester{UserID: "supervisor-1", Role: entities.RoleSupervisor}
)

func TestTaskWorkflowWithReworkLoop(t *testing.T) {
	ctx := context.Background()
	module := taskservice.NewInMemoryModule(nil, nil)

	created, err := module.Handler.CreateTaskHandler(ctx, manager, httptransport.CreateTaskRequest{
		ProjectID: "project-1",
		Title:     "Lay floor tiles",
	})
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	taskID := created.Task.TaskID
	if created.Task.Status != "todo" || created.Task.Version != 1 {
		t.Fatalf("unexpected new task %+v", created.Task)
	}

	change := func(requester httpadapter.Requester, req httptransport.UpdateTaskStatusRequest) httptransport.TaskDTO {
		t.Helper()
		resp, err := module.Handler.UpdateTaskStatusHandler(ctx, requester, taskID, req)
		if err != nil {
			t.Fatalf("%s -> %s failed: %v", requester.Role, req.NewStatus, err)
		}
		return resp.Task
	}

	change(foreman, httptransport.UpdateTaskStatusRequest{NewStatus: "in_progress", Comment: "crew on site"})

	_, err = module.Handler.UpdateTaskStatusHandler(ctx, foreman, taskID, httptransport.UpdateTaskStatusRequest{NewStatus: "review"})
	if !errors.Is(err, domainerrors.ErrPreconditionFailed) {
		t.Fatalf("expected missing evidence rejection, got %v", err)
	}

	if _, err := module.Handler.AddEvidenceHandler(ctx, foreman, taskID, httptransport.AddEvidenceRequest{
		ImageURL: "https://cdn.example.com/photos/1.jpg",
	}); err != nil {
		t.Fatalf("add evidence failed: %v", err)
	}

	review := change(foreman, httptransport.UpdateTaskStatusRequest{NewStatus: "review"})
	if review.EvidenceCount != 1 {
		t.Fatalf("expected evidence count 1, got %d", review.EvidenceCount)
	}

	rework := change(supervisor, httptransport.UpdateTaskStatusRequest{NewStatus: "rework", Comment: "grout missing"})
	if rework.SupervisorComment == nil || *rework.SupervisorComment != "grout missing" {
		t.Fatalf("expected supervisor comment, got %v", rework.SupervisorComment)
	}
	if rework.ForemanComment == nil || *rework.ForemanComment != "crew on site" {
		t.Fatalf("foreman comment must survive, got %v", rework.ForemanComment)
	}

	_, err = module.Handler.UpdateTaskStatusHandler(ctx, foreman, taskID, httptransport.UpdateTaskStatusRequest{NewStatus: "review"})
	if !errors.Is(err, domainerrors.ErrPreconditionFailed) {
		t.Fatalf("stored evidence must not satisfy resubmission, got %v", err)
	}

	change(foreman, httptransport.UpdateTaskStatusRequest{NewStatus: "review", EvidenceAdded: true})
	done := change(supervisor, httptransport.UpdateTaskStatusRequest{NewStatus: "done"})
	if done.Status != "done" {
		t.Fatalf("expected done, got %s", done.Status)
	}
	if done.Version != 6 {
		t.Fatalf("expected version 6 after five transitions, got %d", done.Version)
	}
	if *done.SupervisorComment != "grout missing" {
		t.Fatalf("accepting must not clear supervisor comment, got %q", *done.SupervisorComment)
	}
}

func TestRejectedTransitionWritesNothing(t *testing.T) {
	ctx := context.Background()
	module := taskservice.NewInMemoryModule([]entities.Task{{
		TaskID:    "task-1",
		ProjectID: "project-1",
		Title:     "Install windows",
		Status:    entities.TaskStatusReview,
	}}, nil)

	_, err := module.Handler.UpdateTaskStatusHandler(ctx, foreman, "task-1", httptransport.UpdateTaskStatusRequest{
		NewStatus: "done",
		Comment:   "please accept",
	})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	fetched, err := module.Handler.GetTaskHandler(ctx, "task-1")
	if err != nil {
		t.Fatalf("get task failed: %v", err)
	}
	if fetched.Task.Status != "review" || fetched.Task.ForemanComment != nil || fetched.Task.Version != 1 {
		t.Fatalf("rejected request must not modify the task, got %+v", fetched.Task)
	}
}

func TestAdminCommentLandsInSupervisorSlot(t *testing.T) {
	ctx := context.Background()
	module := taskservice.NewInMemoryModule([]entities.Task{{
		TaskID:    "task-1",
		ProjectID: "project-1",
		Title:     "Roofing",
		Status:    entities.TaskStatusTodo,
	}}, nil)

	resp, err := module.Handler.UpdateTaskStatusHandler(ctx, admin, "task-1", httptransport.UpdateTaskStatusRequest{
		NewStatus: "done",
		Comment:   "closed by office",
	})
	if err != nil {
		t.Fatalf("admin override failed: %v", err)
	}
	if resp.Task.Status != "done" {
		t.Fatalf("expected done, got %s", resp.Task.Status)
	}
	if resp.Task.SupervisorComment == nil || *resp.Task.SupervisorComment != "closed by office" {
		t.Fatalf("expected supervisor comment, got %v", resp.Task.SupervisorComment)
	}
	if resp.Task.ForemanComment != nil {
		t.Fatalf("admin comment must not land in foreman comment")
	}
}

func TestUnknownTaskAndStatus(t *testing.T) {
	ctx := context.Background()
	module := taskservice.NewInMemoryModule(nil, nil)

	_, err := module.Handler.UpdateTaskStatusHandler(ctx, foreman, "missing", httptransport.UpdateTaskStatusRequest{NewStatus: "in_progress"})
	if !errors.Is(err, domainerrors.ErrTaskNotFound) {
		t.Fatalf("expected task not found, got %v", err)
	}
	_, err = module.Handler.UpdateTaskStatusHandler(ctx, foreman, "missing", httptransport.UpdateTaskStatusRequest{NewStatus: "archived"})
	if !errors.Is(err, domainerrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status, got %v", err)
	}
	_, err = module.Handler.ListTasksHandler(ctx, "", "archived")
	if !errors.Is(err, domainerrors.ErrInvalidStatus) {
		t.Fatalf("expected invalid status filter, got %v", err)
	}
}

func TestTaskCreationAndEvidenceRoles(t *testing.T) {
	ctx := context.Background()
	module := taskservice.NewInMemoryModule(nil, nil)

	for _, requester := range []httpadapter.Requester{foreman, supervisor} {
		_, err := module.Handler.CreateTaskHandler(ctx, requester, httptransport.CreateTaskRequest{ProjectID: "p", Title: "t"})
		if !errors.Is(err, domainerrors.ErrForbidden) {
			t.Fatalf("%s: expected forbidden create, got %v", requester.Role, err)
		}
	}
	_, err := module.Handler.CreateTaskHandler(ctx, admin, httptransport.CreateTaskRequest{ProjectID: "p", Title: "  "})
	if !errors.Is(err, domainerrors.ErrInvalidTaskInput) {
		t.Fatalf("expected invalid input for blank title, got %v", err)
	}

	created, err := module.Handler.CreateTaskHandler(ctx, admin, httptransport.CreateTaskRequest{ProjectID: "p", Title: "Facade"})
	if err != nil {
		t.Fatalf("admin create failed: %v", err)
	}
	taskID := created.Task.TaskID

	_, err = module.Handler.AddEvidenceHandler(ctx, supervisor, taskID, httptransport.AddEvidenceRequest{ImageURL: "https://cdn.example.com/a.jpg"})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden evidence upload, got %v", err)
	}
	_, err = module.Handler.AddEvidenceHandler(ctx, foreman, taskID, httptransport.AddEvidenceRequest{ImageURL: "not a url"})
	if !errors.Is(err, domainerrors.ErrInvalidEvidenceInput) {
		t.Fatalf("expected invalid evidence input, got %v", err)
	}
	_, err = module.Handler.AddEvidenceHandler(ctx, foreman, "missing", httptransport.AddEvidenceRequest{ImageURL: "https://cdn.example.com/a.jpg"})
	if !errors.Is(err, domainerrors.ErrTaskNotFound) {
		t.Fatalf("expected task not found, got %v", err)
	}

	listed, err := module.Handler.ListEvidenceHandler(ctx, taskID)
	if err != nil {
		t.Fatalf("list evidence failed: %v", err)
	}
	if len(listed.Items) != 0 {
		t.Fatalf("expected no evidence, got %d", len(listed.Items))
	}
}
