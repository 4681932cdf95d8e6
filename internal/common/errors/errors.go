// Package errors provides the error taxonomy shared by the dialog hook and
// the suggestion pipeline, plus its mapping onto Zeebe job failures.
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

const (
	// Dialog side
	ErrCodeValidationViolation ErrorCode = "VALIDATION_VIOLATION"
	ErrCodeUnsupportedIntent   ErrorCode = "UNSUPPORTED_INTENT"
	ErrCodeInvalidTurn         ErrorCode = "INVALID_TURN"

	// Transient, retried by re-invoking the worker
	ErrCodeQueueUnavailable        ErrorCode = "QUEUE_UNAVAILABLE"
	ErrCodeSearchUnavailable       ErrorCode = "SEARCH_UNAVAILABLE"
	ErrCodeNotificationUnavailable ErrorCode = "NOTIFICATION_UNAVAILABLE"
	ErrCodeRecognizerUnavailable   ErrorCode = "RECOGNIZER_UNAVAILABLE"

	// Permanent: the work item is discarded
	ErrCodeMalformedWorkItem ErrorCode = "MALFORMED_WORK_ITEM"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
	cause     error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause, when there is one.
func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is matches two StandardErrors by code, so errors.Is(err, &StandardError{Code: X}) works.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be reported to the Zeebe engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message string, cause error, retryable bool) *StandardError {
	details := ""
	if cause != nil {
		details = cause.Error()
	}
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

// NewValidationViolationError describes a rejected slot. It drives
// re-elicitation and is never surfaced as a system failure.
func NewValidationViolationError(slot, message string) *StandardError {
	err := newError(ErrCodeValidationViolation, message, nil, false)
	err.Metadata = map[string]interface{}{"slot": slot}
	return err
}

// NewUnsupportedIntentError is fatal for the current turn.
func NewUnsupportedIntentError(intentName string) *StandardError {
	err := newError(ErrCodeUnsupportedIntent, fmt.Sprintf("Intent with name %s not supported", intentName), nil, false)
	err.Metadata = map[string]interface{}{"intentName": intentName}
	return err
}

// NewInvalidTurnError is returned when the recognizer envelope cannot be read.
func NewInvalidTurnError(details string) *StandardError {
	err := newError(ErrCodeInvalidTurn, "Invalid code hook event", nil, false)
	err.Details = details
	return err
}

func NewQueueUnavailableError(err error) *StandardError {
	return newError(ErrCodeQueueUnavailable, "Work queue unavailable", err, true)
}

func NewSearchUnavailableError(err error) *StandardError {
	return newError(ErrCodeSearchUnavailable, "Search index unavailable", err, true)
}

func NewNotificationUnavailableError(err error) *StandardError {
	return newError(ErrCodeNotificationUnavailable, "Notification channel unavailable", err, true)
}

func NewRecognizerUnavailableError(err error) *StandardError {
	return newError(ErrCodeRecognizerUnavailable, "Recognizer runtime unavailable", err, true)
}

// NewMalformedWorkItemError is permanent; the queue message is discarded.
func NewMalformedWorkItemError(details string) *StandardError {
	err := newError(ErrCodeMalformedWorkItem, "Malformed work item", nil, false)
	err.Details = details
	return err
}

// ==========================
// 4. Inspection helpers
// ==========================

// CodeOf returns the code of the first StandardError in err's chain.
func CodeOf(err error) ErrorCode {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err carries the given code.
func IsCode(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// IsRetryable reports whether err is a retryable StandardError.
func IsRetryable(err error) bool {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr.Retryable
	}
	return false
}

// ==========================
// 5. Error Conversion to BPMN
// ==========================

// GetRetryCount returns the recommended job retry count for a code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeQueueUnavailable,
		ErrCodeSearchUnavailable,
		ErrCodeNotificationUnavailable:
		return 3
	case ErrCodeRecognizerUnavailable:
		return 1
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Zeebe.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "INTENT") || strings.Contains(codeStr, "TURN") || strings.Contains(codeStr, "VALIDATION"):
		return "DIALOG"
	case strings.Contains(codeStr, "QUEUE") || strings.Contains(codeStr, "WORK_ITEM"):
		return "QUEUE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "RECOGNIZER"):
		return "RECOGNIZER"
	default:
		return "OTHER"
	}
}
