package services

import (
	"fmt"

	"zodchiy/contexts/site-operations/task-service/domain/entities"
	domainerrors "zodchiy/contexts/site-operations/task-service/domain/errors"
)

// TransitionSubject is the part of a task the authorizer may consult.
type TransitionSubject struct {
	Status        entities.TaskStatus
	EvidenceCount int
}

// TransitionRequest is a requested status change. EvidenceAdded asserts that
// evidence was attached as part of this request only.
type TransitionRequest struct {
	RequestedStatus entities.TaskStatus
	Comment         string
	EvidenceAdded   bool
}

// Decision is an approved transition. Nil comment fields are left untouched.
type Decision struct {
	NewStatus         entities.TaskStatus
	ForemanComment    *string
	SupervisorComment *string
}

func (d Decision) Apply(task entities.Task) entities.Task {
	task.Status = d.NewStatus
	if d.ForemanComment != nil {
		task.ForemanComment = *d.ForemanComment
	}
	if d.SupervisorComment != nil {
		task.SupervisorComment = *d.SupervisorComment
	}
	return task
}

// Edge is a permitted (from, to) pair for non-admin requesters.
type Edge struct {
	From entities.TaskStatus
	To   entities.TaskStatus
	Role entities.Role
}

type precondition func(subject TransitionSubject, req TransitionRequest) (rule string, message string, ok bool)

type edgeRule struct {
	role                   entities.Role
	forbiddenMessage       string
	precondition           precondition
	writeSupervisorComment bool
}

type edgeKey struct {
	from entities.TaskStatus
	to   entities.TaskStatus
}

var edgeRules = map[edgeKey]edgeRule{
	{entities.TaskStatusTodo, entities.TaskStatusInProgress}: {
		role:             entities.RoleForeman,
		forbiddenMessage: "only a foreman can start a task",
	},
	{entities.TaskStatusInProgress, entities.TaskStatusReview}: {
		role:             entities.RoleForeman,
		forbiddenMessage: "only a foreman can submit a task for review",
		precondition:     requireEvidence,
	},
	{entities.TaskStatusReview, entities.TaskStatusDone}: {
		role:             entities.RoleSupervisor,
		forbiddenMessage: "only a supervisor can accept the work",
	},
	{entities.TaskStatusReview, entities.TaskStatusRework}: {
		role:                   entities.RoleSupervisor,
		forbiddenMessage:       "only a supervisor can return a task for rework",
		precondition:           requireComment,
		writeSupervisorComment: true,
	},
	{entities.TaskStatusRework, entities.TaskStatusReview}: {
		role:             entities.RoleForeman,
		forbiddenMessage: "only a foreman can resubmit a task for review",
		precondition:     requireNewPhoto,
	},
}

// Edges returns the non-admin workflow table in workflow order.
func Edges() []Edge {
	items := make([]Edge, 0, len(edgeRules))
	for _, from := range entities.TaskStatuses() {
		for _, to := range entities.TaskStatuses() {
			if rule, ok := edgeRules[edgeKey{from: from, to: to}]; ok {
				items = append(items, Edge{From: from, To: to, Role: rule.role})
			}
		}
	}
	return items
}

// Authorize decides whether role may move subject to req.RequestedStatus.
// Admins bypass the table entirely. Everyone else is checked in order:
// known edge, role, precondition.
func Authorize(subject TransitionSubject, req TransitionRequest, role entities.Role) (Decision, error) {
	if !req.RequestedStatus.Valid() {
		return Decision{}, domainerrors.ErrInvalidStatus
	}
	if !role.Valid() {
		return Decision{}, domainerrors.ErrInvalidRole
	}

	if role == entities.RoleAdmin {
		decision := Decision{NewStatus: req.RequestedStatus}
		if hasText(req.Comment) {
			comment := req.Comment
			decision.SupervisorComment = &comment
		}
		return decision, nil
	}

	rule, ok := edgeRules[edgeKey{from: subject.Status, to: req.RequestedStatus}]
	if !ok {
		return Decision{}, reject(domainerrors.ErrInvalidTransition, subject, req, role,
			domainerrors.RuleUnknownEdge,
			fmt.Sprintf("transition from %s to %s is not allowed", subject.Status, req.RequestedStatus),
		)
	}
	if role != rule.role {
		return Decision{}, reject(domainerrors.ErrForbidden, subject, req, role,
			domainerrors.RuleRoleRequired, rule.forbiddenMessage,
		)
	}
	if rule.precondition != nil {
		if ruleID, message, passed := rule.precondition(subject, req); !passed {
			return Decision{}, reject(domainerrors.ErrPreconditionFailed, subject, req, role, ruleID, message)
		}
	}

	decision := Decision{NewStatus: req.RequestedStatus}
	if rule.writeSupervisorComment {
		comment := req.Comment
		decision.SupervisorComment = &comment
	}
	if role == entities.RoleForeman && hasText(req.Comment) {
		comment := req.Comment
		decision.ForemanComment = &comment
	}
	return decision, nil
}

func requireEvidence(subject TransitionSubject, req TransitionRequest) (string, string, bool) {
	if subject.EvidenceCount > 0 || req.EvidenceAdded {
		return "", "", true
	}
	return domainerrors.RuleEvidenceRequired, "a photo report is required before review", false
}

func requireNewPhoto(_ TransitionSubject, req TransitionRequest) (string, string, bool) {
	if req.EvidenceAdded {
		return "", "", true
	}
	return domainerrors.RuleNewPhotoRequired, "a new photo is required after rework", false
}

func requireComment(_ TransitionSubject, req TransitionRequest) (string, string, bool) {
	if hasText(req.Comment) {
		return "", "", true
	}
	return domainerrors.RuleCommentRequired, "a comment is required to return a task for rework", false
}

func reject(
	kind error,
	subject TransitionSubject,
	req TransitionRequest,
	role entities.Role,
	rule string,
	message string,
) *domainerrors.TransitionError {
	return &domainerrors.TransitionError{
		Kind:    kind,
		From:    string(subject.Status),
		To:      string(req.RequestedStatus),
		Role:    string(role),
		Rule:    rule,
		Message: message,
	}
}

// hasText reports whether a comment was supplied. Whitespace counts.
func hasText(value string) bool {
	return value != ""
}
