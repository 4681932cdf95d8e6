package dispatchsuggestions

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "dining-concierge/internal/common/errors"
)

func createTestHandler(t *testing.T, p *testPipeline) *Handler {
	return NewHandler(createTestConfig(), p.worker, createTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(p *testPipeline)
		expectError   bool
		errorCode     apperrors.ErrorCode
		expectOutcome string
	}{
		{
			name: "delivered",
			setup: func(p *testPipeline) {
				p.index.ids = []string{"b1"}
				p.addRestaurant("b1", "Carbone", "181 Thompson St")
				p.sqs.Enqueue(scenarioAttributes())
			},
			expectOutcome: "Delivered",
		},
		{
			name:          "idle",
			setup:         func(p *testPipeline) {},
			expectOutcome: "Idle",
		},
		{
			name: "rejected completes the job",
			setup: func(p *testPipeline) {
				p.sqs.Enqueue(map[string]string{"Cuisine": "italian"})
			},
			expectOutcome: "Rejected",
		},
		{
			name: "queue outage fails the job",
			setup: func(p *testPipeline) {
				p.sqs.RecvErr = errors.New("connection refused")
			},
			expectError: true,
			errorCode:   apperrors.ErrCodeQueueUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestPipeline(t)
			tt.setup(p)
			handler := createTestHandler(t, p)

			output, err := handler.Execute(context.Background())

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, output)
				assert.True(t, apperrors.IsCode(err, tt.errorCode))
				assert.True(t, apperrors.IsRetryable(err))
				return
			}

			require.NoError(t, err)
			require.NotNil(t, output)
			assert.Equal(t, tt.expectOutcome, output.Outcome)
		})
	}
}

func TestHandler_Execute_DeliveredOutput(t *testing.T) {
	p := newTestPipeline(t)
	p.index.ids = []string{"b1", "b2"}
	p.addRestaurant("b1", "Carbone", "181 Thompson St")
	id := p.sqs.Enqueue(scenarioAttributes())

	output, err := createTestHandler(t, p).Execute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Output{Outcome: "Delivered", MessageID: id, Hits: 2, Entries: 1}, output)
}
