package dispatchsuggestions

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dining-concierge/internal/common/errors"
)

func TestDecodeRequest(t *testing.T) {
	t.Run("complete item", func(t *testing.T) {
		req, err := DecodeRequest(scenarioAttributes(), time.UTC)
		require.NoError(t, err)
		assert.Equal(t, "italian", req.Cuisine)
		assert.Equal(t, "New York", req.Location)
		assert.Equal(t, "19:00", req.DiningTime)
		assert.Equal(t, 4, req.NumberOfPeople)
		assert.Equal(t, "a@b.com", req.Email)
		require.NotNil(t, req.DiningDate)
		assert.Equal(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), *req.DiningDate)
	})

	t.Run("legacy lower-case names", func(t *testing.T) {
		req, err := DecodeRequest(map[string]string{
			"cuisine":  "thai",
			"location": "brooklyn",
			"time":     "20:15",
			"people":   "6",
		}, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, "thai", req.Cuisine)
		assert.Equal(t, "brooklyn", req.Location)
		assert.Equal(t, "20:15", req.DiningTime)
		assert.Equal(t, 6, req.NumberOfPeople)
		assert.Nil(t, req.DiningDate)
		assert.Empty(t, req.Email)
	})

	t.Run("case insensitive names", func(t *testing.T) {
		attrs := map[string]string{
			"CUISINE":        "thai",
			"location":       "brooklyn",
			"diningtime":     "20:15",
			"numberofpeople": "2",
		}
		req, err := DecodeRequest(attrs, time.UTC)
		require.NoError(t, err)
		assert.Equal(t, 2, req.NumberOfPeople)
	})

	t.Run("missing fields are listed", func(t *testing.T) {
		_, err := DecodeRequest(map[string]string{"Cuisine": "thai"}, time.UTC)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMalformedWorkItem))

		var stdErr *apperrors.StandardError
		require.True(t, errors.As(err, &stdErr))
		assert.Contains(t, stdErr.Details, "Location")
		assert.Contains(t, stdErr.Details, "DiningTime")
		assert.Contains(t, stdErr.Details, "NumberOfPeople")
		assert.False(t, stdErr.Retryable)
	})

	t.Run("blank value counts as missing", func(t *testing.T) {
		attrs := scenarioAttributes()
		attrs["Cuisine"] = "  "
		_, err := DecodeRequest(attrs, time.UTC)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMalformedWorkItem))
	})

	t.Run("non integer people", func(t *testing.T) {
		attrs := scenarioAttributes()
		attrs["NumberOfPeople"] = "4.5"
		_, err := DecodeRequest(attrs, time.UTC)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeMalformedWorkItem))
	})
}

func TestResult_Output(t *testing.T) {
	delivered := (&Result{Outcome: OutcomeDelivered, MessageID: "m1", Hits: 3, Entries: 2}).Output()
	assert.Equal(t, &Output{Outcome: "Delivered", MessageID: "m1", Hits: 3, Entries: 2}, delivered)

	rejected := (&Result{
		Outcome: OutcomeRejected,
		Err:     apperrors.NewMalformedWorkItemError("missing attributes: Cuisine"),
	}).Output()
	assert.Equal(t, "Rejected", rejected.Outcome)
	assert.Equal(t, "MALFORMED_WORK_ITEM", rejected.ErrorCode)
}
