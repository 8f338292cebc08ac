package service

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated = errors.New("not authenticated")
	ErrForbidden       = errors.New("insufficient role for this action")
	ErrTenantNotMember = errors.New("not a member of this tenant")

	ErrTenantNotFound       = errors.New("tenant not found")
	ErrWebsiteNotFound      = errors.New("website not found")
	ErrDeploymentNotFound   = errors.New("deployment not found")
	ErrMembershipNotFound   = errors.New("membership not found")
	ErrSavedWebsiteNotFound = errors.New("saved website not found")

	// ErrDuplicateSlug matches any ValidationError raised for a taken slug.
	ErrDuplicateSlug = &ValidationError{Field: "slug", Message: "a tenant with this slug already exists"}
)

// ValidationError is a rejected input. It is never retried.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is lets errors.Is(err, ErrDuplicateSlug) match a copy with the same field and message.
func (e *ValidationError) Is(target error) bool {
	t, ok := target.(*ValidationError)
	if !ok {
		return false
	}
	return e.Field == t.Field && e.Message == t.Message
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// TransportError wraps a failure of a backing system (postgres, redis, S3, LLM).
// Its message is never shown to callers.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func transport(op string, err error) error {
	if err == nil {
		return nil
	}
	var te *TransportError
	if errors.As(err, &te) {
		return err
	}
	return &TransportError{Op: op, Err: err}
}
