package entities

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusReview     TaskStatus = "review"
	TaskStatusDone       TaskStatus = "done"
	TaskStatusRework     TaskStatus = "rework"
)

// TaskStatuses lists every status in workflow order.
func TaskStatuses() []TaskStatus {
	return []TaskStatus{
		TaskStatusTodo,
		TaskStatusInProgress,
		TaskStatusReview,
		TaskStatusDone,
		TaskStatusRework,
	}
}

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusReview, TaskStatusDone, TaskStatusRework:
		return true
	default:
		return false
	}
}

// ParseTaskStatus accepts only the five known status values.
func ParseTaskStatus(raw string) (TaskStatus, bool) {
	status := TaskStatus(strings.TrimSpace(strings.ToLower(raw)))
	if !status.Valid() {
		return "", false
	}
	return status, true
}

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleManager    Role = "manager"
	RoleForeman    Role = "foreman"
	RoleSupervisor Role = "supervisor"
)

func Roles() []Role {
	return []Role{RoleAdmin, RoleManager, RoleForeman, RoleSupervisor}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleForeman, RoleSupervisor:
		return true
	default:
		return false
	}
}

func ParseRole(raw string) (Role, bool) {
	role := Role(strings.TrimSpace(strings.ToLower(raw)))
	if !role.Valid() {
		return "", false
	}
	return role, true
}

// Task is a unit of site work moving through the review workflow.
// Version is bumped by storage on every successful update.
type Task struct {
	TaskID            string
	ProjectID         string
	Title             string
	Description       string
	Status            TaskStatus
	ForemanComment    string
	SupervisorComment string
	Version           int64
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (t Task) ValidateCreate() bool {
	return strings.TrimSpace(t.ProjectID) != "" &&
		strings.TrimSpace(t.Title) != "" &&
		t.Status.Valid()
}

// Evidence is a photographic proof attachment. Only its count matters to
// status changes.
type Evidence struct {
	EvidenceID string
	TaskID     string
	ImageURL   string
	AddedByID  string
	CreatedAt  time.Time
}
