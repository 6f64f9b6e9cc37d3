package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrQuizNotFound       = errors.New("quiz not found")
	ErrNotEnrolled        = errors.New("student is not enrolled in this quiz")
	ErrAlreadySubmitted   = errors.New("quiz already submitted")
	ErrEmptyQuiz          = errors.New("quiz has no questions")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrOwnershipViolation = errors.New("quiz belongs to another teacher")
	ErrResultNotFound     = errors.New("quiz not completed yet")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateAccount   = errors.New("username or email already registered")
)

// PersistenceError wraps a storage failure with the operation that hit it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func persistence(op string, err error) error {
	return &PersistenceError{Op: op, Err: err}
}

// ValidationError carries one message per invalid input field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

type fieldErrors map[string]string

func (f fieldErrors) err() error {
	if len(f) == 0 {
		return nil
	}
	return &ValidationError{Fields: f}
}
