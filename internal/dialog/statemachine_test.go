package dialog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
)

type recordingEnqueuer struct {
	calls     []models.SlotSet
	EnqueueFn func(ctx context.Context, slots models.SlotSet) (*models.WorkItem, error)
}

func (r *recordingEnqueuer) Enqueue(ctx context.Context, slots models.SlotSet) (*models.WorkItem, error) {
	r.calls = append(r.calls, slots)
	if r.EnqueueFn != nil {
		return r.EnqueueFn(ctx, slots)
	}
	item := models.WorkItemFromSlots(slots)
	return &item, nil
}

func createTestMachine(t *testing.T, enq Enqueuer) *StateMachine {
	return NewStateMachine(createTestValidator(t), enq, logger.NewTestLogger(t))
}

func TestStateMachine_DialogCodeHook_ElicitsViolatedSlot(t *testing.T) {
	enq := &recordingEnqueuer{}
	m := createTestMachine(t, enq)

	slots := withSlot(models.SlotCuisine, models.StringPtr("thai"))
	turn := &models.TurnContext{
		IntentName:       "DiningSuggestionsIntent",
		Slots:            slots,
		InvocationSource: models.SourceDialogCodeHook,
	}

	action := m.DiningSuggestions(context.Background(), turn)

	elicit, ok := action.(models.ElicitSlot)
	require.True(t, ok, "got %T", action)
	assert.Equal(t, models.SlotCuisine, elicit.SlotToElicit)
	assert.Equal(t, "DiningSuggestionsIntent", elicit.IntentName)
	assert.Nil(t, elicit.Slots[models.SlotCuisine])
	assert.Contains(t, elicit.Slots, models.SlotCuisine)
	assert.Equal(t, "New York", *elicit.Slots[models.SlotLocation])
	assert.Equal(t, "thai", *turn.Slots[models.SlotCuisine], "input slot set is not mutated")
	assert.Empty(t, enq.calls)
}

func TestStateMachine_DialogCodeHook_DelegatesWhenValid(t *testing.T) {
	enq := &recordingEnqueuer{}
	m := createTestMachine(t, enq)

	slots := models.SlotSet{
		models.SlotLocation: models.StringPtr("new york"),
		models.SlotCuisine:  nil,
	}
	action := m.DiningSuggestions(context.Background(), &models.TurnContext{
		Slots:            slots,
		InvocationSource: models.SourceDialogCodeHook,
	})

	delegate, ok := action.(models.Delegate)
	require.True(t, ok, "got %T", action)
	assert.Equal(t, slots, delegate.Slots)
	assert.Empty(t, enq.calls)
}

func TestStateMachine_Fulfillment_EnqueuesOnceAndCloses(t *testing.T) {
	enq := &recordingEnqueuer{}
	m := createTestMachine(t, enq)

	action := m.DiningSuggestions(context.Background(), &models.TurnContext{
		Slots:            validSlots(),
		InvocationSource: models.SourceFulfillmentCodeHook,
	})

	require.Len(t, enq.calls, 1)
	assert.Equal(t, validSlots(), enq.calls[0])

	closeAction, ok := action.(models.Close)
	require.True(t, ok, "got %T", action)
	assert.Equal(t, models.FulfillmentFulfilled, closeAction.FulfillmentState)
	assert.Equal(t, msgConfirmation, closeAction.Message.Content)
}

func TestStateMachine_Fulfillment_UnknownSourceCommits(t *testing.T) {
	enq := &recordingEnqueuer{}
	m := createTestMachine(t, enq)

	action := m.DiningSuggestions(context.Background(), &models.TurnContext{
		Slots:            validSlots(),
		InvocationSource: "SomethingElse",
	})

	assert.Len(t, enq.calls, 1)
	assert.Equal(t, models.ActionClose, action.ActionType())
}

func TestStateMachine_Fulfillment_EnqueueFailureClosesFailed(t *testing.T) {
	enq := &recordingEnqueuer{
		EnqueueFn: func(context.Context, models.SlotSet) (*models.WorkItem, error) {
			return nil, errors.New("queue down")
		},
	}
	m := createTestMachine(t, enq)

	action := m.DiningSuggestions(context.Background(), &models.TurnContext{
		Slots:            validSlots(),
		InvocationSource: models.SourceFulfillmentCodeHook,
	})

	closeAction, ok := action.(models.Close)
	require.True(t, ok)
	assert.Equal(t, models.FulfillmentFailed, closeAction.FulfillmentState)
	assert.Equal(t, msgEnqueueFailed, closeAction.Message.Content)
}

func TestStateMachine_FixedReplies(t *testing.T) {
	m := createTestMachine(t, &recordingEnqueuer{})

	greeting := m.Greeting().(models.Close)
	assert.Equal(t, models.FulfillmentFulfilled, greeting.FulfillmentState)
	assert.Equal(t, "Hi there, how can I help you?", greeting.Message.Content)

	thanks := m.ThankYou().(models.Close)
	assert.Equal(t, models.FulfillmentFulfilled, thanks.FulfillmentState)
	assert.Equal(t, "You are welcome!", thanks.Message.Content)
}

type MockEnqueuer struct {
	mock.Mock
}

func (m *MockEnqueuer) Enqueue(ctx context.Context, slots models.SlotSet) (*models.WorkItem, error) {
	args := m.Called(ctx, slots)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WorkItem), args.Error(1)
}

func TestStateMachine_Fulfillment_EnqueuesTurnSlotsOnce(t *testing.T) {
	slots := validSlots()
	item := models.WorkItemFromSlots(slots)

	enq := new(MockEnqueuer)
	enq.On("Enqueue", mock.Anything, slots).Return(&item, nil).Once()
	m := createTestMachine(t, enq)

	action := m.DiningSuggestions(context.Background(), &models.TurnContext{
		IntentName:       "DiningSuggestionsIntent",
		Slots:            slots,
		InvocationSource: models.SourceFulfillmentCodeHook,
	})

	closeAction, ok := action.(models.Close)
	require.True(t, ok, "got %T", action)
	assert.Equal(t, models.FulfillmentFulfilled, closeAction.FulfillmentState)
	enq.AssertExpectations(t)
}

func TestStateMachine_Fulfillment_QueueOutageClosesFailed(t *testing.T) {
	enq := new(MockEnqueuer)
	enq.On("Enqueue", mock.Anything, mock.Anything).Return(nil, errors.New("queue unreachable"))
	m := createTestMachine(t, enq)

	action := m.DiningSuggestions(context.Background(), &models.TurnContext{
		IntentName:       "DiningSuggestionsIntent",
		Slots:            validSlots(),
		InvocationSource: models.SourceFulfillmentCodeHook,
	})

	closeAction, ok := action.(models.Close)
	require.True(t, ok, "got %T", action)
	assert.Equal(t, models.FulfillmentFailed, closeAction.FulfillmentState)
	enq.AssertNumberOfCalls(t, "Enqueue", 1)
}
