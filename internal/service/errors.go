package service

import (
	"fmt"
)

// ServiceError wraps errors from the scoring services with additional context.
// This allows consumers to differentiate between different types of service
// errors using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "compute_score", "select_daily")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewComputeScoreError returns a new ServiceError for the compute_score operation.
func NewComputeScoreError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "compute_score",
		Message:   message,
		Err:       err,
	}
}

// NewSelectDailyError returns a new ServiceError for the select_daily operation.
func NewSelectDailyError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "select_daily",
		Message:   message,
		Err:       err,
	}
}

// NewRecordSubmissionError returns a new ServiceError for the record_submission operation.
func NewRecordSubmissionError(message string, err error) *ServiceError {
	return &ServiceError{
		Operation: "record_submission",
		Message:   message,
		Err:       err,
	}
}
