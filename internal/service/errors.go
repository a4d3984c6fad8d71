package service

import (
	"errors"
	"strings"

	"github.com/jaekwang-park/todos/internal/validation"
)

var (
	ErrArgumentMissing  = errors.New("argument missing")
	ErrValidationFailed = errors.New("validation failed")
	ErrNotFound         = errors.New("not found")
)

// ValidationError carries every failed rule message of one validation run.
type ValidationError struct {
	RuleSet  validation.RuleSet
	Messages []string
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, ", ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
