package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"gorm.io/gorm"
)

// ValidationError lists every offending field of a request. Each field maps to
// one or more messages.
type ValidationError struct {
	Fields map[string][]string
}

// NewValidationError returns a ValidationError with a single message
func NewValidationError(field, message string) *ValidationError {
	v := &ValidationError{}
	v.Add(field, message)
	return v
}

// Add records a message against field
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Empty reports whether no messages were recorded
func (e *ValidationError) Empty() bool {
	return len(e.Fields) == 0
}

// OrNil returns e when it holds messages and nil otherwise
func (e *ValidationError) OrNil() error {
	if e.Empty() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e.Fields[k], ", "))
	}
	return "Validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError represents a missing recipe, user, tag or ingredient
type NotFoundError struct {
	Resource string
	ID       interface{}
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return e.Resource + " not found"
	}
	return fmt.Sprintf("%s with id %v not found", e.Resource, e.ID)
}

// ConflictError represents a relationship that already exists, or one that
// is absent when the caller asked to remove it. Absent tells the two apart.
type ConflictError struct {
	Message string
	Absent  bool
}

func (e *ConflictError) Error() string {
	return e.Message
}

// AuthorizationError represents a principal that may not perform an action
type AuthorizationError struct {
	Action string
}

func (e *AuthorizationError) Error() string {
	return "You do not have permission to " + e.Action
}

// AuthenticationError represents bad credentials or an unusable token
type AuthenticationError struct {
	Reason string
}

func (e *AuthenticationError) Error() string {
	return e.Reason
}

// DatabaseError wraps errors from GORM that have no domain meaning
type DatabaseError struct {
	Inner error
}

func (e *DatabaseError) Error() string {
	return "Database operation failed: " + e.Inner.Error()
}

func (e *DatabaseError) Unwrap() error {
	return e.Inner
}

// wrapDBError converts a GORM error into the service error taxonomy
func wrapDBError(err error, operation, resource string, id interface{}) error {
	if err == nil {
		return nil
	}

	var (
		validation *ValidationError
		notFound   *NotFoundError
		conflict   *ConflictError
		authz      *AuthorizationError
	)
	if errors.As(err, &validation) || errors.As(err, &notFound) || errors.As(err, &conflict) || errors.As(err, &authz) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &NotFoundError{Resource: resource, ID: id}
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return &ConflictError{Message: fmt.Sprintf("%s %v already exists", resource, id)}
	}

	return &DatabaseError{Inner: fmt.Errorf("%s: %w", operation, err)}
}
