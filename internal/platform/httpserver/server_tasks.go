package httpserver

import (
	"errors"
	"net/http"

	httpadapter "zodchiy/contexts/site-operations/task-service/adapters/http"
	"zodchiy/contexts/site-operations/task-service/domain/entities"
	taskerrors "zodchiy/contexts/site-operations/task-service/domain/errors"
	taskhttp "zodchiy/contexts/site-operations/task-service/transport/http"
)

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	requester, ok := requireTaskRequester(w, r)
	if !ok {
		return
	}
	var req taskhttp.CreateTaskRequest
	if err := decodeJSON(r, &req); err != nil {
		writeTaskError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.tasks.Handler.CreateTaskHandler(r.Context(), requester, req)
	if err != nil {
		s.writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireTaskRequester(w, r); !ok {
		return
	}
	query := r.URL.Query()
	resp, err := s.tasks.Handler.ListTasksHandler(r.Context(), query.Get("project_id"), query.Get("status"))
	if err != nil {
		s.writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireTaskRequester(w, r); !ok {
		return
	}
	resp, err := s.tasks.Handler.GetTaskHandler(r.Context(), r.PathValue("task_id"))
	if err != nil {
		s.writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleUpdateTaskStatus(w http.ResponseWriter, r *http.Request) {
	requester, ok := requireTaskRequester(w, r)
	if !ok {
		return
	}
	var req taskhttp.UpdateTaskStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeTaskError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.tasks.Handler.UpdateTaskStatusHandler(r.Context(), requester, r.PathValue("task_id"), req)
	if err != nil {
		s.writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddEvidence(w http.ResponseWriter, r *http.Request) {
	requester, ok := requireTaskRequester(w, r)
	if !ok {
		return
	}
	var req taskhttp.AddEvidenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeTaskError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON", nil)
		return
	}
	resp, err := s.tasks.Handler.AddEvidenceHandler(r.Context(), requester, r.PathValue("task_id"), req)
	if err != nil {
		s.writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListEvidence(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireTaskRequester(w, r); !ok {
		return
	}
	resp, err := s.tasks.Handler.ListEvidenceHandler(r.Context(), r.PathValue("task_id"))
	if err != nil {
		s.writeTaskDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// requireTaskRequester reads the identity forwarded by the auth gateway.
func requireTaskRequester(w http.ResponseWriter, r *http.Request) (httpadapter.Requester, bool) {
	userID := headerValue(r, "X-User-Id")
	if userID == "" {
		writeTaskError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required", nil)
		return httpadapter.Requester{}, false
	}
	role, ok := entities.ParseRole(headerValue(r, "X-User-Role"))
	if !ok {
		writeTaskError(w, http.StatusUnauthorized, "invalid_role", "X-User-Role header must be one of admin, manager, foreman, supervisor", nil)
		return httpadapter.Requester{}, false
	}
	return httpadapter.Requester{UserID: userID, Role: role}, true
}

func (s *Server) writeTaskDomainError(w http.ResponseWriter, err error) {
	var details *taskhttp.ErrorDetails
	message := err.Error()
	var transitionErr *taskerrors.TransitionError
	if errors.As(err, &transitionErr) {
		details = &taskhttp.ErrorDetails{
			CurrentStatus:   transitionErr.From,
			RequestedStatus: transitionErr.To,
			Role:            transitionErr.Role,
			Rule:            transitionErr.Rule,
		}
		message = transitionErr.Message
	}

	switch {
	case errors.Is(err, taskerrors.ErrTaskNotFound):
		writeTaskError(w, http.StatusNotFound, "task_not_found", message, nil)
	case errors.Is(err, taskerrors.ErrForbidden):
		writeTaskError(w, http.StatusForbidden, "forbidden", message, details)
	case errors.Is(err, taskerrors.ErrInvalidTransition):
		writeTaskError(w, http.StatusConflict, "invalid_transition", message, details)
	case errors.Is(err, taskerrors.ErrPreconditionFailed):
		writeTaskError(w, http.StatusUnprocessableEntity, "precondition_failed", message, details)
	case errors.Is(err, taskerrors.ErrConcurrentModification):
		writeTaskError(w, http.StatusConflict, "conflict", message, nil)
	case errors.Is(err, taskerrors.ErrInvalidStatus):
		writeTaskError(w, http.StatusBadRequest, "invalid_status", message, nil)
	case errors.Is(err, taskerrors.ErrInvalidRole):
		writeTaskError(w, http.StatusUnauthorized, "invalid_role", message, nil)
	case errors.Is(err, taskerrors.ErrInvalidTaskInput),
		errors.Is(err, taskerrors.ErrInvalidEvidenceInput):
		writeTaskError(w, http.StatusBadRequest, "invalid_request", message, nil)
	default:
		s.logger.Error("task request failed",
			"event", "http_task_request_failed",
			"module", "internal/platform/httpserver",
			"layer", "platform",
			"error", err.Error(),
		)
		writeTaskError(w, http.StatusInternalServerError, "internal_error", "internal server error", nil)
	}
}

func writeTaskError(w http.ResponseWriter, status int, code string, message string, details *taskhttp.ErrorDetails) {
	writeJSON(w, status, taskhttp.ErrorResponse{
		Code:    code,
		Message: message,
		Details: details,
	})
}
