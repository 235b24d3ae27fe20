// Package errors provides typed errors for the coverage pipeline.
package errors

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a pipeline error
type Kind string

const (
	// KindConfig indicates invalid or unresolvable site parameters,
	// detected before any external process runs
	KindConfig Kind = "CONFIG_ERROR"

	// KindEngineNotFound indicates the selected engine binary is missing
	// or not executable
	KindEngineNotFound Kind = "ENGINE_NOT_FOUND"

	// KindEngineExecution indicates the engine exited with a non-zero code
	KindEngineExecution Kind = "ENGINE_EXECUTION_FAILED"

	// KindOutputMissing indicates the engine exited cleanly but did not
	// produce the expected raster
	KindOutputMissing Kind = "OUTPUT_MISSING"

	// KindConversion indicates the raw raster could not be read or decoded
	KindConversion Kind = "CONVERSION_FAILED"

	// KindTransparency indicates the transparency mask could not be applied
	KindTransparency Kind = "TRANSPARENCY_MASK_FAILED"

	// KindDescriptorWrite indicates the overlay descriptor could not be written
	KindDescriptorWrite Kind = "DESCRIPTOR_WRITE_FAILED"

	// KindPackaging indicates the overlay archive could not be produced
	KindPackaging Kind = "PACKAGING_FAILED"

	// KindStorage indicates a publish or retrieval failure in the storage layer
	KindStorage Kind = "STORAGE_ERROR"

	// KindInternal indicates an unexpected internal failure
	KindInternal Kind = "INTERNAL_ERROR"
)

// Error is a pipeline error with a kind and an optional cause
type Error struct {
	Kind    Kind
	Stage   string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Stage != "" && e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %s: %v", e.Kind, e.Stage, e.Message, e.Cause)
	case e.Stage != "":
		return fmt.Sprintf("[%s] %s: %s", e.Kind, e.Stage, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Cause)
	default:
		return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	}
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithStage attributes the error to a pipeline stage
func (e *Error) WithStage(stage string) *Error {
	e.Stage = stage
	return e
}

// New creates a new error of the given kind
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates a new formatted error of the given kind
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps a cause with a kind and message
func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, Cause: cause}
}

// Wrapf wraps a cause with a kind and formatted message
func Wrapf(kind Kind, cause error, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf returns the kind of err, walking the wrap chain.
// Errors outside this package report KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// IsKind reports whether err (or any error it wraps) has the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
