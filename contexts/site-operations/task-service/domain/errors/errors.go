package errors

import (
	"errors"
	"fmt"
)

var (
	ErrTaskNotFound           = errors.New("task not found")
	ErrInvalidTaskInput       = errors.New("invalid task input")
	ErrInvalidStatus          = errors.New("invalid task status")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidEvidenceInput   = errors.New("invalid evidence input")
	ErrForbidden              = errors.New("forbidden")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrPreconditionFailed     = errors.New("precondition failed")
	ErrConcurrentModification = errors.New("task was modified concurrently")
)

// Rule identifiers carried by TransitionError.
const (
	RuleUnknownEdge      = "unknown_edge"
	RuleRoleRequired     = "role_required"
	RuleEvidenceRequired = "evidence_required"
	RuleNewPhotoRequired = "new_photo_required"
	RuleCommentRequired  = "comment_required"
)

// TransitionError is a rejected status change. Kind is one of
// ErrForbidden, ErrInvalidTransition or ErrPreconditionFailed.
type TransitionError struct {
	Kind    error
	From    string
	To      string
	Role    string
	Rule    string
	Message string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s: %s (%s -> %s, role %s)", e.Kind, e.Message, e.From, e.To, e.Role)
}

func (e *TransitionError) Unwrap() error {
	return e.Kind
}
