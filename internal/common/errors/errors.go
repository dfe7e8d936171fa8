// Package errors provides the standardized error taxonomy for the enrichment pipeline.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Source errors are always recovered as "absent" at the lookup site.
const (
	ErrCodeSourceUnavailable ErrorCode = "SOURCE_UNAVAILABLE"
	ErrCodeSourceTimeout     ErrorCode = "SOURCE_TIMEOUT"
	ErrCodeWebSearchTimeout  ErrorCode = "WEB_SEARCH_TIMEOUT"
)

// Contact errors fail one contact; the batch continues.
const (
	ErrCodeSummaryFailed  ErrorCode = "SUMMARY_FAILED"
	ErrCodeLLMTimeout     ErrorCode = "LLM_TIMEOUT"
	ErrCodeCRMWriteFailed ErrorCode = "CRM_WRITE_FAILED"
	ErrCodeContactInvalid ErrorCode = "CONTACT_INVALID"
)

// Fatal errors abort the batch before or after the loop.
const (
	ErrCodeCRMReadFailed    ErrorCode = "CRM_READ_FAILED"
	ErrCodeCRMNotConfigured ErrorCode = "CRM_NOT_CONFIGURED"
	ErrCodeRunInProgress    ErrorCode = "RUN_IN_PROGRESS"
	ErrCodeUnauthorized     ErrorCode = "UNAUTHORIZED"
	ErrCodeConfigInvalid    ErrorCode = "CONFIG_INVALID"
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is / errors.As.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// WithMetadata returns e after attaching a metadata entry.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	e := &StandardError{
		Code:      code,
		Message:   message,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
	if cause != nil {
		e.Details = cause.Error()
	}
	return e
}

// ==========================
// 2. Error Constructors
// ==========================

// NewSourceUnavailableError marks a lookup that failed or returned nothing usable.
func NewSourceUnavailableError(source string, err error) *StandardError {
	return newError(ErrCodeSourceUnavailable, fmt.Sprintf("Source '%s' unavailable", source), err, false).
		WithMetadata("source", source)
}

// NewSourceTimeoutError marks a lookup that exceeded its time box.
func NewSourceTimeoutError(source string, timeout time.Duration) *StandardError {
	e := newError(ErrCodeSourceTimeout, fmt.Sprintf("Source '%s' timed out", source), nil, false)
	e.Details = fmt.Sprintf("exceeded %s", timeout)
	return e.WithMetadata("source", source)
}

// NewWebSearchTimeoutError marks a search API call that exceeded its timeout.
func NewWebSearchTimeoutError(err error) *StandardError {
	return newError(ErrCodeWebSearchTimeout, "Web search API timeout", err, false)
}

// NewSummaryFailedError wraps a failed language-model call.
func NewSummaryFailedError(err error) *StandardError {
	return newError(ErrCodeSummaryFailed, "Summary generation failed", err, false)
}

// NewLLMTimeoutError marks a language-model call that exceeded its deadline.
func NewLLMTimeoutError(err error) *StandardError {
	return newError(ErrCodeLLMTimeout, "Language model timeout", err, false)
}

// NewCRMWriteFailedError wraps a failed CRM update.
func NewCRMWriteFailedError(contactID string, err error) *StandardError {
	return newError(ErrCodeCRMWriteFailed, "CRM update failed", err, false).
		WithMetadata("contactId", contactID)
}

// NewContactInvalidError rejects a contact that cannot be enriched.
func NewContactInvalidError(details string) *StandardError {
	e := newError(ErrCodeContactInvalid, "Contact cannot be enriched", nil, false)
	e.Details = details
	return e
}

// NewCRMReadFailedError wraps a failed contact-list fetch.
func NewCRMReadFailedError(err error) *StandardError {
	return newError(ErrCodeCRMReadFailed, "CRM contact list fetch failed", err, true)
}

// NewCRMNotConfiguredError reports missing CRM credentials.
func NewCRMNotConfiguredError(details string) *StandardError {
	e := newError(ErrCodeCRMNotConfigured, "CRM client not configured", nil, false)
	e.Details = details
	return e
}

// NewRunInProgressError reports that another batch holds the run lock.
func NewRunInProgressError(holder string) *StandardError {
	e := newError(ErrCodeRunInProgress, "Enrichment run already in progress", nil, true)
	e.Details = fmt.Sprintf("lock held by %s", holder)
	return e
}

// NewUnauthorizedError rejects an unauthenticated trigger.
func NewUnauthorizedError() *StandardError {
	return newError(ErrCodeUnauthorized, "Missing or invalid trigger secret", nil, false)
}

// NewConfigInvalidError wraps a configuration problem found at build time.
func NewConfigInvalidError(err error) *StandardError {
	return newError(ErrCodeConfigInvalid, "Invalid configuration", err, false)
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandard returns err as a *StandardError, wrapping unknown errors as INTERNAL_ERROR.
func AsStandard(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return newError(ErrCodeInternal, "Unexpected error", err, false)
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code ErrorCode) bool {
	var stdErr *StandardError
	return stderrors.As(err, &stdErr) && stdErr.Code == code
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	switch code {
	case ErrCodeSourceUnavailable, ErrCodeSourceTimeout, ErrCodeWebSearchTimeout:
		return "SOURCE"
	case ErrCodeSummaryFailed, ErrCodeLLMTimeout, ErrCodeCRMWriteFailed, ErrCodeContactInvalid:
		return "CONTACT"
	case ErrCodeCRMReadFailed, ErrCodeCRMNotConfigured, ErrCodeRunInProgress, ErrCodeUnauthorized:
		return "FATAL"
	}
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CONFIG"):
		return "CONFIG"
	default:
		return "OTHER"
	}
}

// IsRecoverable reports whether the batch loop may continue past err.
func IsRecoverable(err error) bool {
	stdErr := AsStandard(err)
	if stdErr == nil {
		return true
	}
	switch GetErrorCategory(stdErr.Code) {
	case "SOURCE", "CONTACT":
		return true
	default:
		return false
	}
}
