package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructors(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")

	tests := []struct {
		name      string
		err       *StandardError
		code      ErrorCode
		retryable bool
		category  string
	}{
		{"queue", NewQueueUnavailableError(cause), ErrCodeQueueUnavailable, true, "QUEUE"},
		{"search", NewSearchUnavailableError(cause), ErrCodeSearchUnavailable, true, "SEARCH"},
		{"notification", NewNotificationUnavailableError(cause), ErrCodeNotificationUnavailable, true, "NOTIFICATION"},
		{"recognizer", NewRecognizerUnavailableError(cause), ErrCodeRecognizerUnavailable, true, "RECOGNIZER"},
		{"malformed", NewMalformedWorkItemError("missing attributes: Cuisine"), ErrCodeMalformedWorkItem, false, "QUEUE"},
		{"intent", NewUnsupportedIntentError("OrderPizza"), ErrCodeUnsupportedIntent, false, "DIALOG"},
		{"turn", NewInvalidTurnError("(root): currentIntent is required"), ErrCodeInvalidTurn, false, "DIALOG"},
		{"violation", NewValidationViolationError("Cuisine", "We do not have x"), ErrCodeValidationViolation, false, "DIALOG"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.retryable, tt.err.Retryable)
			assert.Equal(t, tt.retryable, IsRetryable(tt.err))
			assert.Equal(t, tt.category, GetErrorCategory(tt.err.Code))
			assert.False(t, tt.err.Timestamp.IsZero())
		})
	}
}

func TestStandardError_Chain(t *testing.T) {
	cause := stderrors.New("Throttling")
	err := fmt.Errorf("run: %w", NewNotificationUnavailableError(cause))

	assert.True(t, IsCode(err, ErrCodeNotificationUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, &StandardError{Code: ErrCodeNotificationUnavailable})
	assert.NotErrorIs(t, err, &StandardError{Code: ErrCodeSearchUnavailable})
	assert.Contains(t, err.Error(), "Throttling")

	assert.Equal(t, ErrCodeInternal, CodeOf(stderrors.New("plain")))
	assert.False(t, IsCode(nil, ErrCodeInternal))
}

func TestConvertToBPMNError(t *testing.T) {
	retryable := ConvertToBPMNError(NewSearchUnavailableError(stderrors.New("503")))
	assert.Equal(t, "SEARCH_UNAVAILABLE", retryable.Code)
	assert.Equal(t, 3, retryable.Retries)
	assert.True(t, retryable.Retryable)

	vars := retryable.ToErrorVariables()
	assert.Equal(t, "SEARCH_UNAVAILABLE", vars["errorCode"])
	assert.Equal(t, "SEARCH_UNAVAILABLE", vars["originalErrorCode"])
	assert.Equal(t, true, vars["retryable"])

	permanent := ConvertToBPMNError(NewMalformedWorkItemError("bad"))
	assert.Zero(t, permanent.Retries)
	assert.False(t, permanent.Retryable)
}

func TestNormalizeError(t *testing.T) {
	std := NewQueueUnavailableError(nil)
	assert.Same(t, std, normalizeError(fmt.Errorf("wrapped: %w", std)))

	plain := normalizeError(stderrors.New("boom"))
	require.NotNil(t, plain)
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.Equal(t, "boom", plain.Details)
	assert.False(t, plain.Retryable)
}

func TestRetriesLeft(t *testing.T) {
	job := func(retries int32) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Retries: retries}}
	}

	assert.Equal(t, int32(2), retriesLeft(job(3), 3))
	assert.Equal(t, int32(3), retriesLeft(job(10), 3), "never exceeds the code's budget")
	assert.Equal(t, int32(0), retriesLeft(job(1), 3))
	assert.Equal(t, int32(1), retriesLeft(job(0), 1))
}
