package timesheet

import (
	"errors"
	"fmt"
)

// ValidationError reports a violated input rule (bad minutes value,
// unknown taxonomy reference). Always recoverable client-side.
type ValidationError struct {
	Rule   string
	Detail string
}

func (e ValidationError) Error() string {
	if e.Detail == "" {
		return e.Rule
	}
	return fmt.Sprintf("%s: %s", e.Rule, e.Detail)
}

func ErrValidation(rule, detail string) error {
	return ValidationError{Rule: rule, Detail: detail}
}

// NotFoundError reports a mutation against a nonexistent entity.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func ErrNotFound(entity string, id uint) error {
	return NotFoundError{Entity: entity, ID: id}
}

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

// CodeInUseError blocks deleting a project/task/labor code that is
// still referenced by time slips. Carries the entity name so the
// caller can render an actionable message.
type CodeInUseError struct {
	Entity string
	Name   string
}

func (e CodeInUseError) Error() string {
	return fmt.Sprintf("%s %q is referenced by existing time slips", e.Entity, e.Name)
}

// InsufficientAccessError is surfaced without revealing whether the
// resource exists.
type InsufficientAccessError struct{}

func (InsufficientAccessError) Error() string {
	return "insufficient access"
}

// LastAdminError blocks removing the admin right from the system's
// only admin.
type LastAdminError struct{}

func (LastAdminError) Error() string {
	return "at least one user must retain the admin right"
}

// ConflictError reports a lost optimistic-concurrency race; the caller
// should reload and retry.
type ConflictError struct {
	Entity string
	ID     uint
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s %d was modified concurrently", e.Entity, e.ID)
}
