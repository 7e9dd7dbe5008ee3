package application

import "zodchiy/contexts/site-operations/task-service/domain/entities"

// TaskView is a task together with its stored evidence count.
type TaskView struct {
	Task          entities.Task
	EvidenceCount int
}
