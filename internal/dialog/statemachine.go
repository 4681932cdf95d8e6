package dialog

import (
	"context"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
)

const (
	msgGreeting      = "Hi there, how can I help you?"
	msgThankYou      = "You are welcome!"
	msgConfirmation  = "Thank you for the information. We are generating our recommendations and will send them to your email when ready."
	msgEnqueueFailed = "Sorry, we could not submit your request right now. Please try again in a few minutes."
)

// Enqueuer submits a fulfilled slot set for asynchronous processing.
type Enqueuer interface {
	Enqueue(ctx context.Context, slots models.SlotSet) (*models.WorkItem, error)
}

// StateMachine decides the dialog action for one turn.
type StateMachine struct {
	validator *Validator
	enqueuer  Enqueuer
	logger    logger.Logger
}

func NewStateMachine(validator *Validator, enqueuer Enqueuer, log logger.Logger) *StateMachine {
	return &StateMachine{
		validator: validator,
		enqueuer:  enqueuer,
		logger:    log,
	}
}

// DiningSuggestions validates mid-dialog turns and commits fulfillment turns.
// Any source other than DialogCodeHook commits.
func (m *StateMachine) DiningSuggestions(ctx context.Context, turn *models.TurnContext) models.DialogAction {
	if turn.InvocationSource == models.SourceDialogCodeHook {
		return m.validate(turn)
	}
	return m.fulfill(ctx, turn)
}

func (m *StateMachine) validate(turn *models.TurnContext) models.DialogAction {
	result := m.validator.Validate(turn.Slots)
	if result.IsValid {
		return models.Delegate{Slots: turn.Slots}
	}

	slots := turn.Slots.Clone()
	slots.Clear(result.ViolatedSlot)

	m.logger.Debug("slot rejected", map[string]interface{}{
		"slot":   result.ViolatedSlot,
		"userId": turn.UserID,
	})

	return models.ElicitSlot{
		IntentName:   turn.IntentName,
		Slots:        slots,
		SlotToElicit: result.ViolatedSlot,
		Message:      result.Message,
	}
}

func (m *StateMachine) fulfill(ctx context.Context, turn *models.TurnContext) models.DialogAction {
	item, err := m.enqueuer.Enqueue(ctx, turn.Slots)
	if err != nil {
		m.logger.Error("failed to enqueue dining request", map[string]interface{}{
			"userId": turn.UserID,
			"error":  err,
		})
		return models.Close{
			FulfillmentState: models.FulfillmentFailed,
			Message:          models.PlainText(msgEnqueueFailed),
		}
	}

	m.logger.Info("dining request enqueued", map[string]interface{}{
		"userId":   turn.UserID,
		"cuisine":  item.Cuisine,
		"location": item.Location,
	})

	return models.Close{
		FulfillmentState: models.FulfillmentFulfilled,
		Message:          models.PlainText(msgConfirmation),
	}
}

func (m *StateMachine) Greeting() models.DialogAction {
	return models.Close{
		FulfillmentState: models.FulfillmentFulfilled,
		Message:          models.PlainText(msgGreeting),
	}
}

func (m *StateMachine) ThankYou() models.DialogAction {
	return models.Close{
		FulfillmentState: models.FulfillmentFulfilled,
		Message:          models.PlainText(msgThankYou),
	}
}
