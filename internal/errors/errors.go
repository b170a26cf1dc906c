// Package errors provides structured error types for the Wellcore system.
// All errors include a category, code, message, and retryable flag for
// consistent error handling across components.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies errors by system component.
type ErrorCategory string

const (
	ErrCategoryReprc   ErrorCategory = "REPRC"
	ErrCategoryLayout  ErrorCategory = "LAYOUT"
	ErrCategoryRecord  ErrorCategory = "RECORD"
	ErrCategoryDecode  ErrorCategory = "DECODE"
	ErrCategoryStorage ErrorCategory = "STORAGE"
	ErrCategoryExport  ErrorCategory = "EXPORT"
	ErrCategoryConfig  ErrorCategory = "CONFIG"
)

// Error codes for each category.
const (
	// Reprc codes
	CodeUnsupportedCode = "UNSUPPORTED_CODE"

	// Layout codes
	CodeInvalidLayout       = "INVALID_LAYOUT"
	CodeDuplicateFieldName  = "DUPLICATE_FIELD_NAME"
	CodeUnsupportedDepth    = "UNSUPPORTED_DEPTH_MODE"
	CodeFastChannelsPresent = "FAST_CHANNELS_PRESENT"

	// Record codes
	CodeBadRecord       = "BAD_RECORD"
	CodeTruncatedRecord = "TRUNCATED_RECORD"

	// Decode codes
	CodeCorruptedFrame = "CORRUPTED_FRAME"

	// Storage codes
	CodeDownloadFailed = "DOWNLOAD_FAILED"
	CodeObjectNotFound = "OBJECT_NOT_FOUND"

	// Export codes
	CodeExportFailed = "EXPORT_FAILED"

	// Config codes
	CodeInvalidConfig = "INVALID_CONFIG"
)

// WellcoreError is the structured error type used throughout the system.
type WellcoreError struct {
	Category  ErrorCategory
	Code      string
	Message   string
	Details   map[string]interface{}
	Cause     error
	Retryable bool
}

// Error returns a formatted error string.
func (e *WellcoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s:%s] %s: %v", e.Category, e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s:%s] %s", e.Category, e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *WellcoreError) Unwrap() error {
	return e.Cause
}

// Is reports whether the target matches this error's category and code.
func (e *WellcoreError) Is(target error) bool {
	var t *WellcoreError
	if errors.As(target, &t) {
		return e.Category == t.Category && e.Code == t.Code
	}
	return false
}

// New creates a new WellcoreError.
func New(category ErrorCategory, code, message string) *WellcoreError {
	return &WellcoreError{
		Category:  category,
		Code:      code,
		Message:   message,
		Retryable: isRetryable(category, code),
	}
}

// Newf creates a new WellcoreError with a formatted message.
func Newf(category ErrorCategory, code, format string, args ...interface{}) *WellcoreError {
	return New(category, code, fmt.Sprintf(format, args...))
}

// Wrap creates a new WellcoreError wrapping an existing error.
func Wrap(category ErrorCategory, code, message string, cause error) *WellcoreError {
	return &WellcoreError{
		Category:  category,
		Code:      code,
		Message:   message,
		Cause:     cause,
		Retryable: isRetryable(category, code),
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *WellcoreError) WithDetails(details map[string]interface{}) *WellcoreError {
	cp := *e
	cp.Details = details
	return &cp
}

// IsRetryable checks whether an error (or its chain) is retryable.
func IsRetryable(err error) bool {
	var we *WellcoreError
	if errors.As(err, &we) {
		return we.Retryable
	}
	return false
}

// GetCategory extracts the error category from an error chain.
// Returns empty string if the error is not a WellcoreError.
func GetCategory(err error) ErrorCategory {
	var we *WellcoreError
	if errors.As(err, &we) {
		return we.Category
	}
	return ""
}

// GetCode extracts the error code from an error chain.
// Returns empty string if the error is not a WellcoreError.
func GetCode(err error) string {
	var we *WellcoreError
	if errors.As(err, &we) {
		return we.Code
	}
	return ""
}

// isRetryable determines if an error code is retryable. Every validation
// failure in this system is deterministic and input-derived; only storage
// transfers are worth retrying.
func isRetryable(category ErrorCategory, code string) bool {
	return category == ErrCategoryStorage && code == CodeDownloadFailed
}

// Convenience constructors for common errors.

func NewLayoutError(code, message string) *WellcoreError {
	return New(ErrCategoryLayout, code, message)
}

func NewRecordError(code, message string) *WellcoreError {
	return New(ErrCategoryRecord, code, message)
}

func NewStorageError(code, message string, cause error) *WellcoreError {
	return Wrap(ErrCategoryStorage, code, message, cause)
}

func NewExportError(message string, cause error) *WellcoreError {
	return Wrap(ErrCategoryExport, CodeExportFailed, message, cause)
}
