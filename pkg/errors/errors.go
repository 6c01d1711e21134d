// Unified error handling for the rpt2pnp toolpath encoder
//
// Copyright (C) 2026  rpt2pnp authors
//
// This file may be distributed under the terms of the GNU GPLv3 license.

package errors

import "fmt"

// ErrorCode represents the category of error
type ErrorCode string

const (
	// Configuration errors
	ErrConfigMissing    ErrorCode = "CONFIG_MISSING"
	ErrConfigSection    ErrorCode = "CONFIG_SECTION"
	ErrConfigOption     ErrorCode = "CONFIG_OPTION"
	ErrConfigValidation ErrorCode = "CONFIG_VALIDATION"

	// Part list errors
	ErrPartList ErrorCode = "PART_LIST"

	// Encoding errors
	ErrTapeExhausted ErrorCode = "TAPE_EXHAUSTED"
	ErrMachineState  ErrorCode = "MACHINE_STATE"
	ErrEmit          ErrorCode = "EMIT"
)

// MachineError is the unified error type for the encoder.
type MachineError struct {
	// Code is the error category
	Code ErrorCode

	// Message is a human-readable error description
	Message string

	// Section is the config section or component context
	Section string

	// Err wraps the underlying error
	Err error

	// Context provides additional context
	Context map[string]interface{}
}

// Error implements the error interface
func (e *MachineError) Error() string {
	if e.Section != "" {
		return fmt.Sprintf("[%s:%s] %s", e.Code, e.Section, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *MachineError) Unwrap() error {
	return e.Err
}

// SetSection sets the context section
func (e *MachineError) SetSection(section string) *MachineError {
	e.Section = section
	return e
}

// SetContext adds additional context
func (e *MachineError) SetContext(key string, value interface{}) *MachineError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new MachineError
func New(code ErrorCode, message string) *MachineError {
	return &MachineError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(err error, code ErrorCode, message string) *MachineError {
	return &MachineError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ConfigMissingError creates an error for an absent machine configuration.
// This is the fatal case: the run must abort before any output is emitted.
func ConfigMissingError(component string) *MachineError {
	return New(ErrConfigMissing, "need configuration").SetSection(component)
}

// TapeExhaustedError creates an error for a tape with no components left.
func TapeExhaustedError() *MachineError {
	return New(ErrTapeExhausted, "no components left on tape")
}

// MachineStateError creates an error for an encoder call outside the
// Initialized state.
func MachineStateError(op, state string) *MachineError {
	return New(ErrMachineState, fmt.Sprintf("%s called while machine is %s", op, state))
}

// PartListError creates an error for a malformed part list entry.
func PartListError(line int, reason string) *MachineError {
	return New(ErrPartList, fmt.Sprintf("line %d: %s", line, reason))
}

// EmitError wraps a sink write failure.
func EmitError(err error) *MachineError {
	return Wrap(err, ErrEmit, "writing command stream")
}

// Is checks if error matches given error code
func Is(err error, code ErrorCode) bool {
	if machineErr, ok := err.(*MachineError); ok {
		return machineErr.Code == code
	}
	return false
}

// IsConfig checks if error is a config error
func IsConfig(err error) bool {
	return Is(err, ErrConfigMissing) ||
		Is(err, ErrConfigSection) ||
		Is(err, ErrConfigOption) ||
		Is(err, ErrConfigValidation)
}
