// Package apperrors defines application-level error types.
package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrModelNotDownloaded is returned when a speech model is selected but not on disk.
	ErrModelNotDownloaded = errors.New("model is not downloaded")
	// ErrNoRecognizer is returned when listening starts before a recognizer is loaded.
	ErrNoRecognizer = errors.New("speech recognizer is not loaded")
	// ErrEmptySpeech is returned by synthesizers for blank input.
	ErrEmptySpeech = errors.New("nothing to speak")
	// ErrNoSpeech is returned by recognizers when a phrase holds no words.
	ErrNoSpeech = errors.New("speech not recognized")
)

// PreconditionError indicates an environment requirement is not met.
// It is fatal: nothing after the check may run.
type PreconditionError struct {
	Check  string
	Reason string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("precondition %s failed: %s", e.Check, e.Reason)
}

// NewPreconditionError creates a new precondition error.
func NewPreconditionError(check, reason string) *PreconditionError {
	return &PreconditionError{Check: check, Reason: reason}
}

// StepError indicates an installation step failed.
type StepError struct {
	Step  string
	Cause error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %q failed: %v", e.Step, e.Cause)
}

func (e *StepError) Unwrap() error {
	return e.Cause
}

// NewStepError creates a new step error.
func NewStepError(step string, cause error) *StepError {
	return &StepError{Step: step, Cause: cause}
}

// ConfigurationError indicates the configuration file is unreadable or invalid.
type ConfigurationError struct {
	Path  string
	Cause error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %v", e.Path, e.Cause)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(path string, cause error) *ConfigurationError {
	return &ConfigurationError{Path: path, Cause: cause}
}

// ExitCode maps an error to a process exit status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var pre *PreconditionError
	if errors.As(err, &pre) {
		return 1
	}
	var cfgErr *ConfigurationError
	if errors.As(err, &cfgErr) {
		return 2
	}
	return 1
}
