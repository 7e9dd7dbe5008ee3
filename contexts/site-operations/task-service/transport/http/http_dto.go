package http

type ErrorResponse struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details *ErrorDetails `json:"details,omitempty"`
}

// ErrorDetails names the rule a rejected status change failed.
type ErrorDetails struct {
	CurrentStatus   string `json:"current_status"`
	RequestedStatus string `json:"requested_status"`
	Role            string `json:"role"`
	Rule            string `json:"rule"`
}

type CreateTaskRequest struct {
	ProjectID   string `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type UpdateTaskStatusRequest struct {
	NewStatus     string `json:"new_status"`
	Comment       string `json:"comment,omitempty"`
	EvidenceAdded bool   `json:"evidence_added"`
}

type AddEvidenceRequest struct {
	ImageURL string `json:"image_url"`
}

type TaskDTO struct {
	TaskID            string  `json:"task_id"`
	ProjectID         string  `json:"project_id"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Status            string  `json:"status"`
	ForemanComment    *string `json:"foreman_comment"`
	SupervisorComment *string `json:"supervisor_comment"`
	EvidenceCount     int     `json:"evidence_count"`
	Version           int64   `json:"version"`
	CreatedAt         string  `json:"created_at"`
	UpdatedAt         string  `json:"updated_at"`
}

type EvidenceDTO struct {
	EvidenceID string `json:"evidence_id"`
	TaskID     string `json:"task_id"`
	ImageURL   string `json:"image_url"`
	AddedBy    string `json:"added_by,omitempty"`
	CreatedAt  string `json:"created_at"`
}

type TaskResponse struct {
	Task TaskDTO `json:"task"`
}

type ListTasksResponse struct {
	Items []TaskDTO `json:"items"`
}

type EvidenceResponse struct {
	Evidence EvidenceDTO `json:"evidence"`
}

type ListEvidenceResponse struct {
	Items []EvidenceDTO `json:"items"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}
