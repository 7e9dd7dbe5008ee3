package httpadapter_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	taskservice "zodchiy/contexts/site-operations/task-service"
	httpadapter "zodchiy/contexts/site-operations/task-service/adapters/http"
	"zodchiy/contexts/site-operations/task-service/domain/entities"
	httptransport "zodchiy/contexts/site-operations/task-service/transport/http"
)

func TestHandlerLogsReceivedRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	module := taskservice.NewInMemoryModule([]entities.Task{
		{TaskID: "task-1", ProjectID: "project-1", Title: "Frame walls", Status: entities.TaskStatusTodo},
	}, logger)
	foreman := httpadapter.Requester{UserID: "foreman-1", Role: entities.RoleForeman}
	ctx := context.Background()

	if _, err := module.Handler.AddEvidenceHandler(ctx, foreman, "task-1", httptransport.AddEvidenceRequest{
		ImageURL: "https://cdn.example.com/frame.jpg",
	}); err != nil {
		t.Fatalf("add evidence failed: %v", err)
	}
	if _, err := module.Handler.UpdateTaskStatusHandler(ctx, foreman, "task-1", httptransport.UpdateTaskStatusRequest{
		NewStatus: "in_progress",
	}); err != nil {
		t.Fatalf("status change failed: %v", err)
	}
	if _, err := module.Handler.CreateTaskHandler(ctx, foreman, httptransport.CreateTaskRequest{
		ProjectID: "project-1",
		Title:     "Roofing",
	}); err == nil {
		t.Fatalf("expected foreman create to be refused")
	}

	out := buf.String()
	for _, event := range []string{
		"task_http_evidence_received",
		"task_http_status_change_received",
		"task_http_create_received",
	} {
		if !strings.Contains(out, `"event":"`+event+`"`) {
			t.Fatalf("expected %s in logs, got %s", event, out)
		}
	}
	if !strings.Contains(out, `"layer":"transport"`) {
		t.Fatalf("expected transport layer tag, got %s", out)
	}
}
