// internal/models/dialog.go
package models

// Invocation sources sent by the recognizer.
const (
	SourceDialogCodeHook      = "DialogCodeHook"
	SourceFulfillmentCodeHook = "FulfillmentCodeHook"
)

// Fulfillment states carried by a Close action.
const (
	FulfillmentFulfilled = "Fulfilled"
	FulfillmentFailed    = "Failed"
)

// Dialog action type tags, as the recognizer expects them.
const (
	ActionElicitSlot = "ElicitSlot"
	ActionDelegate   = "Delegate"
	ActionClose      = "Close"
)

const ContentTypePlainText = "PlainText"

// Message is a user-facing text.
type Message struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

// PlainText builds a plain-text message.
func PlainText(content string) *Message {
	return &Message{ContentType: ContentTypePlainText, Content: content}
}

// TurnContext is one normalized recognizer turn.
type TurnContext struct {
	IntentName        string
	Slots             SlotSet
	InvocationSource  string
	SessionAttributes map[string]string
	UserID            string
}

// DialogAction is exactly one of ElicitSlot, Delegate or Close.
type DialogAction interface {
	ActionType() string
	dialogAction()
}

// ElicitSlot asks the front-end to re-prompt for a single slot.
type ElicitSlot struct {
	IntentName   string
	Slots        SlotSet
	SlotToElicit string
	Message      *Message
}

// Delegate hands control back to the recognizer.
type Delegate struct {
	Slots SlotSet
}

// Close ends the conversation for this intent.
type Close struct {
	FulfillmentState string
	Message          *Message
}

func (ElicitSlot) ActionType() string { return ActionElicitSlot }
func (Delegate) ActionType() string   { return ActionDelegate }
func (Close) ActionType() string      { return ActionClose }

func (ElicitSlot) dialogAction() {}
func (Delegate) dialogAction()   {}
func (Close) dialogAction()      {}
