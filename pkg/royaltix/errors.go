package royaltix

import (
	"errors"
	"fmt"
)

// Error types
var (
	// ErrRecordNotFound indicates a content record was not found
	ErrRecordNotFound = errors.New("content record not found")

	// ErrMissingContent indicates required user-supplied content was absent
	ErrMissingContent = errors.New("missing required content")

	// ErrInvalidInput indicates user-supplied licensing or collaborator
	// values failed validation
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyResult indicates a generation provider returned no usable payload
	ErrEmptyResult = errors.New("provider returned empty result")
)

// ConfigError reports a missing piece of required external-service
// configuration. It is raised before any external call is attempted.
type ConfigError struct {
	Key  string // what is missing, e.g. "image generator"
	Hint string // remediation hint for the operator
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s not configured: %s", e.Key, e.Hint)
}

// GenerationError reports a content-generation provider failure. Generation
// is single-attempt; the error is surfaced to the caller verbatim.
type GenerationError struct {
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("content generation failed on %s: %v", e.Provider, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// RegistrationError reports a blockchain registration failure. Registration
// is the value-bearing operation: it never degrades silently and always
// aborts the whole request.
type RegistrationError struct {
	Stage string
	Err   error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registration failed at %s: %v", e.Stage, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// StoreError reports a local persistence failure.
type StoreError struct {
	Op   string
	Path string
	Err  error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store operation %s failed for %s: %v", e.Op, e.Path, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
