package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "zodchiy/contexts/site-operations/task-service/application"
	"zodchiy/contexts/site-operations/task-service/application/commands"
	"zodchiy/contexts/site-operations/task-service/application/queries"
	"zodchiy/contexts/site-operations/task-service/domain/entities"
	httptransport "zodchiy/contexts/site-operations/task-service/transport/http"
)

// Requester is the already-authenticated caller forwarded by the auth layer.
type Requester struct {
	UserID string
	Role   entities.Role
}

type Handler struct {
	CreateTask       commands.CreateTaskUseCase
	ChangeTaskStatus commands.ChangeTaskStatusUseCase
	AddEvidence      commands.AddEvidenceUseCase
	Queries          queries.QueryUseCase
	Logger           *slog.Logger
}

// CreateTaskHandler godoc
// @Summary Create a site task
// @Description Creates a task in the todo status. Admin and manager only.
// @Tags task-service
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Param X-User-Role header string true "Authenticated role"
// @Param request body httptransport.CreateTaskRequest true "Task payload"
// @Success 201 {object} httptransport.TaskResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /api/tasks [post]
func (h Handler) CreateTaskHandler(
	ctx context.Context,
	requester Requester,
	req httptransport.CreateTaskRequest,
) (httptransport.TaskResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("task http create received",
		"event", "task_http_create_received",
		"module", "site-operations/task-service",
		"layer", "transport",
		"actor_id", requester.UserID,
		"role", string(requester.Role),
		"project_id", req.ProjectID,
	)

	item, err := h.CreateTask.Execute(ctx, commands.CreateTaskCommand{
		ActorID:     requester.UserID,
		Role:        requester.Role,
		ProjectID:   req.ProjectID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	return httptransport.TaskResponse{
		Task: mapTask(application.TaskView{Task: item}),
	}, nil
}

// GetTaskHandler godoc
// @Summary Get a site task
// @Tags task-service
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Param X-User-Role header string true "Authenticated role"
// @Param task_id path string true "Task id"
// @Success 200 {object} httptransport.TaskResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/tasks/{task_id} [get]
func (h Handler) GetTaskHandler(ctx context.Context, taskID string) (httptransport.TaskResponse, error) {
	item, err := h.Queries.GetTask(ctx, taskID)
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	return httptransport.TaskResponse{Task: mapTask(item)}, nil
}

// ListTasksHandler godoc
// @Summary List site tasks
// @Tags task-service
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Param X-User-Role header string true "Authenticated role"
// @Param project_id query string false "Project filter"
// @Param status query string false "Status filter: todo,in_progress,review,done,rework"
// @Success 200 {object} httptransport.ListTasksResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/tasks [get]
func (h Handler) ListTasksHandler(
	ctx context.Context,
	projectID string,
	status string,
) (httptransport.ListTasksResponse, error) {
	items, err := h.Queries.ListTasks(ctx, queries.ListTasksQuery{
		ProjectID: projectID,
		Status:    status,
	})
	if err != nil {
		return httptransport.ListTasksResponse{}, err
	}
	result := make([]httptransport.TaskDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapTask(item))
	}
	return httptransport.ListTasksResponse{Items: result}, nil
}

// UpdateTaskStatusHandler godoc
// @Summary Change task status
// @Description Runs the workflow authorizer. Admins may set any status.
// @Tags task-service
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Param X-User-Role header string true "Authenticated role"
// @Param task_id path string true "Task id"
// @Param request body httptransport.UpdateTaskStatusRequest true "Requested status"
// @Success 200 {object} httptransport.TaskResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 422 {object} httptransport.ErrorResponse
// @Router /api/tasks/{task_id}/status [patch]
func (h Handler) UpdateTaskStatusHandler(
	ctx context.Context,
	requester Requester,
	taskID string,
	req httptransport.UpdateTaskStatusRequest,
) (httptransport.TaskResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("task http status change received",
		"event", "task_http_status_change_received",
		"module", "site-operations/task-service",
		"layer", "transport",
		"task_id", taskID,
		"actor_id", requester.UserID,
		"role", string(requester.Role),
		"requested_status", req.NewStatus,
		"evidence_added", req.EvidenceAdded,
	)

	item, err := h.ChangeTaskStatus.Execute(ctx, commands.ChangeTaskStatusCommand{
		TaskID:        taskID,
		ActorID:       requester.UserID,
		Role:          requester.Role,
		NewStatus:     req.NewStatus,
		Comment:       req.Comment,
		EvidenceAdded: req.EvidenceAdded,
	})
	if err != nil {
		return httptransport.TaskResponse{}, err
	}
	return httptransport.TaskResponse{Task: mapTask(item)}, nil
}

// AddEvidenceHandler godoc
// @Summary Attach photo evidence to a task
// @Tags task-service
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Param X-User-Role header string true "Authenticated role"
// @Param task_id path string true "Task id"
// @Param request body httptransport.AddEvidenceRequest true "Evidence payload"
// @Success 201 {object} httptransport.EvidenceResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/tasks/{task_id}/evidence [post]
func (h Handler) AddEvidenceHandler(
	ctx context.Context,
	requester Requester,
	taskID string,
	req httptransport.AddEvidenceRequest,
) (httptransport.EvidenceResponse, error) {
	logger := application.ResolveLogger(h.Logger)
	logger.Debug("task http evidence received",
		"event", "task_http_evidence_received",
		"module", "site-operations/task-service",
		"layer", "transport",
		"task_id", taskID,
		"actor_id", requester.UserID,
		"role", string(requester.Role),
	)

	item, err := h.AddEvidence.Execute(ctx, commands.AddEvidenceCommand{
		TaskID:   taskID,
		ActorID:  requester.UserID,
		Role:     requester.Role,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return httptransport.EvidenceResponse{}, err
	}
	return httptransport.EvidenceResponse{Evidence: mapEvidence(item)}, nil
}

// ListEvidenceHandler godoc
// @Summary List task evidence
// @Tags task-service
// @Produce json
// @Param X-User-Id header string true "Authenticated user id"
// @Param X-User-Role header string true "Authenticated role"
// @Param task_id path string true "Task id"
// @Success 200 {object} httptransport.ListEvidenceResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/tasks/{task_id}/evidence [get]
func (h Handler) ListEvidenceHandler(ctx context.Context, taskID string) (httptransport.ListEvidenceResponse, error) {
	items, err := h.Queries.ListEvidence(ctx, taskID)
	if err != nil {
		return httptransport.ListEvidenceResponse{}, err
	}
	result := make([]httptransport.EvidenceDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapEvidence(item))
	}
	return httptransport.ListEvidenceResponse{Items: result}, nil
}

func mapTask(item application.TaskView) httptransport.TaskDTO {
	return httptransport.TaskDTO{
		TaskID:            item.Task.TaskID,
		ProjectID:         item.Task.ProjectID,
		Title:             item.Task.Title,
		Description:       item.Task.Description,
		Status:            string(item.Task.Status),
		ForemanComment:    optionalText(item.Task.ForemanComment),
		SupervisorComment: optionalText(item.Task.SupervisorComment),
		EvidenceCount:     item.EvidenceCount,
		Version:           item.Task.Version,
		CreatedAt:         item.Task.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         item.Task.UpdatedAt.Format(time.RFC3339),
	}
}

func mapEvidence(item entities.Evidence) httptransport.EvidenceDTO {
	return httptransport.EvidenceDTO{
		EvidenceID: item.EvidenceID,
		TaskID:     item.TaskID,
		ImageURL:   item.ImageURL,
		AddedBy:    item.AddedByID,
		CreatedAt:  item.CreatedAt.Format(time.RFC3339),
	}
}

func optionalText(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
