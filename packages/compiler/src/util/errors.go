package util

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedOperation matches every UnsupportedOperationError.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrMissingRequiredValue matches every MissingRequiredValueError.
	ErrMissingRequiredValue = errors.New("missing required value")
)

// UnsupportedOperationError reports an instruction opcode, expression kind or
// operator the emitter cannot render.
type UnsupportedOperationError struct {
	// Kind is what was rejected: "instruction", "expression" or "operator".
	Kind string
	Name string
}

// NewUnsupportedOperation creates an UnsupportedOperationError.
func NewUnsupportedOperation(kind, name string) *UnsupportedOperationError {
	return &UnsupportedOperationError{Kind: kind, Name: name}
}

// Error implements the error interface
func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported %s %q", e.Kind, e.Name)
}

// Is matches ErrUnsupportedOperation.
func (e *UnsupportedOperationError) Is(target error) bool {
	return target == ErrUnsupportedOperation
}

// MissingRequiredValueError reports a field or input that an opcode needs but
// the node does not carry.
type MissingRequiredValueError struct {
	Opcode string
	What   string
}

// NewMissingRequiredValue creates a MissingRequiredValueError.
func NewMissingRequiredValue(opcode, what string) *MissingRequiredValueError {
	return &MissingRequiredValueError{Opcode: opcode, What: what}
}

// Error implements the error interface
func (e *MissingRequiredValueError) Error() string {
	return fmt.Sprintf("%s: missing required %s", e.Opcode, e.What)
}

// Is matches ErrMissingRequiredValue.
func (e *MissingRequiredValueError) Is(target error) bool {
	return target == ErrMissingRequiredValue
}
