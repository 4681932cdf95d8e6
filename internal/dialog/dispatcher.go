package dialog

import (
	"context"

	"dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/models"
)

// Intent is the closed set of intents this hook serves.
type Intent int

const (
	IntentUnknown Intent = iota
	IntentGreeting
	IntentThankYou
	IntentDiningSuggestions
)

var intentNames = map[string]Intent{
	"GreetingIntent":          IntentGreeting,
	"ThankYouIntent":          IntentThankYou,
	"DiningSuggestionsIntent": IntentDiningSuggestions,
}

func ParseIntent(name string) Intent {
	if intent, ok := intentNames[name]; ok {
		return intent
	}
	return IntentUnknown
}

func (i Intent) String() string {
	switch i {
	case IntentGreeting:
		return "GreetingIntent"
	case IntentThankYou:
		return "ThankYouIntent"
	case IntentDiningSuggestions:
		return "DiningSuggestionsIntent"
	default:
		return "Unknown"
	}
}

// Dispatcher routes a turn to the handler for its intent.
type Dispatcher struct {
	machine *StateMachine
	logger  logger.Logger
}

func NewDispatcher(machine *StateMachine, log logger.Logger) *Dispatcher {
	return &Dispatcher{machine: machine, logger: log}
}

// Dispatch returns exactly one dialog action, or an UNSUPPORTED_INTENT error.
func (d *Dispatcher) Dispatch(ctx context.Context, turn *models.TurnContext) (models.DialogAction, error) {
	d.logger.Debug("dispatch", map[string]interface{}{
		"userId":     turn.UserID,
		"intentName": turn.IntentName,
		"source":     turn.InvocationSource,
	})

	intent := ParseIntent(turn.IntentName)

	var action models.DialogAction
	switch intent {
	case IntentGreeting:
		action = d.machine.Greeting()
	case IntentThankYou:
		action = d.machine.ThankYou()
	case IntentDiningSuggestions:
		action = d.machine.DiningSuggestions(ctx, turn)
	default:
		return nil, errors.NewUnsupportedIntentError(turn.IntentName)
	}

	metrics.DialogTurns.WithLabelValues(intent.String(), action.ActionType()).Inc()
	return action, nil
}
