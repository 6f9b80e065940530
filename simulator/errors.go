package simulator

import (
	"fmt"
)

// ErrorCode represents different types of simulator errors
type ErrorCode int

const (
	// Generic errors
	ErrCodeUnknown ErrorCode = iota
	ErrCodeInternal

	// Generator errors
	ErrCodeInvalidRange

	// Driver errors
	ErrCodeUnsupportedPolicy
	ErrCodeInvalidFrameCount
	ErrCodeInvalidPageBound

	// Trace errors
	ErrCodeTraceCorrupted
	ErrCodeTraceIO
)

// SimError represents a simulator error with context
type SimError struct {
	Code ErrorCode
	Message string
	Op string // Operation that failed
	Err error // Underlying error (if any)
}

// Error implements the error interface
func (e *SimError) Error() string {
	if e.Op != "" {
		if e.Err != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Err)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *SimError) Unwrap() error {
	return e.Err
}

// Is checks if the error matches a specific error code
func (e *SimError) Is(target error) bool {
	if t, ok := target.(*SimError); ok {
		return e.Code == t.Code
	}
	return false
}

// NewSimError creates a new simulator error
func NewSimError(code ErrorCode, op, message string, err error) *SimError {
	return &SimError{
		Code: code,
		Message: message,
		Op: op,
		Err: err,
	}
}

// Helper functions for common errors

func ErrInvalidRange(op string, size, upperBound int) *SimError {
	return NewSimError(
		ErrCodeInvalidRange,
		op,
		fmt.Sprintf("cannot generate %d elements over [0, %d) without adjacent duplicates", size, upperBound),
		nil,
	)
}

func ErrUnsupportedPolicy(op string, kind PolicyKind) *SimError {
	return NewSimError(
		ErrCodeUnsupportedPolicy,
		op,
		fmt.Sprintf("unsupported replacement policy %q", string(kind)),
		nil,
	)
}

func ErrInvalidFrameCount(op string, numFrames int) *SimError {
	return NewSimError(
		ErrCodeInvalidFrameCount,
		op,
		fmt.Sprintf("frame count %d out of range [%d, %d]", numFrames, MinFrames, MaxFrames),
		nil,
	)
}

func ErrInvalidPageBound(op string, numPages int) *SimError {
	return NewSimError(
		ErrCodeInvalidPageBound,
		op,
		fmt.Sprintf("page bound %d out of range [%d, %d]", numPages, MinPages, MaxPages),
		nil,
	)
}

func ErrTraceCorrupted(op string, offset int64) *SimError {
	return NewSimError(
		ErrCodeTraceCorrupted,
		op,
		fmt.Sprintf("trace corrupted at offset %d", offset),
		nil,
	)
}

func ErrTraceIO(op string, err error) *SimError {
	return NewSimError(
		ErrCodeTraceIO,
		op,
		"trace file operation failed",
		err,
	)
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	if se, ok := err.(*SimError); ok {
		return se.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrCodeUnknown
func GetErrorCode(err error) ErrorCode {
	if se, ok := err.(*SimError); ok {
		return se.Code
	}
	return ErrCodeUnknown
}
