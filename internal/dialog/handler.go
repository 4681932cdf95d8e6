package dialog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/metrics"
	"dining-concierge/internal/common/validation"
	"dining-concierge/internal/models"
)

const (
	maxBodyBytes   = 1 << 20
	msgTurnFailure = "Sorry, I could not process that request. Please try again."
)

// CodeHookEvent is the recognizer's code-hook request.
type CodeHookEvent struct {
	CurrentIntent struct {
		Name  string         `json:"name"`
		Slots models.SlotSet `json:"slots"`
	} `json:"currentIntent"`
	InvocationSource  string            `json:"invocationSource"`
	UserID            string            `json:"userId"`
	SessionAttributes map[string]string `json:"sessionAttributes"`
	Bot               struct {
		Name string `json:"name"`
	} `json:"bot"`
}

func (e *CodeHookEvent) Turn() *models.TurnContext {
	slots := e.CurrentIntent.Slots
	if slots == nil {
		slots = models.SlotSet{}
	}
	return &models.TurnContext{
		IntentName:        e.CurrentIntent.Name,
		Slots:             slots,
		InvocationSource:  e.InvocationSource,
		SessionAttributes: e.SessionAttributes,
		UserID:            e.UserID,
	}
}

// CodeHookResponse is the envelope returned to the recognizer.
type CodeHookResponse struct {
	SessionAttributes map[string]string      `json:"sessionAttributes"`
	DialogAction      map[string]interface{} `json:"dialogAction"`
}

// HookHandler serves the recognizer code hook over HTTP. Every request gets a
// 200 with a well-formed dialog action, failures included.
type HookHandler struct {
	dispatcher *Dispatcher
	logger     logger.Logger
}

func NewHookHandler(dispatcher *Dispatcher, log logger.Logger) *HookHandler {
	return &HookHandler{
		dispatcher: dispatcher,
		logger:     log.WithFields(map[string]interface{}{"component": "code-hook"}),
	}
}

func (h *HookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		h.logger.Warn("failed to read request body", map[string]interface{}{"error": err})
		body = nil
	}

	writeJSON(w, h.HandleEvent(r.Context(), body))
}

// HandleEvent turns one raw event into a response envelope.
func (h *HookHandler) HandleEvent(ctx context.Context, body []byte) *CodeHookResponse {
	if result := validation.CodeHookEventSchema.ValidateBytes(body); !result.Valid {
		err := errors.NewInvalidTurnError(strings.Join(result.GetErrorMessages(), "; "))
		return h.failure(nil, err)
	}

	var event CodeHookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return h.failure(nil, errors.NewInvalidTurnError(err.Error()))
	}

	h.logger.Debug("code hook event", map[string]interface{}{
		"bot":        event.Bot.Name,
		"userId":     event.UserID,
		"intentName": event.CurrentIntent.Name,
	})

	turn := event.Turn()
	action, err := h.dispatcher.Dispatch(ctx, turn)
	if err != nil {
		return h.failure(turn.SessionAttributes, err)
	}

	session := turn.SessionAttributes
	if _, ok := action.(models.Delegate); ok && session == nil {
		session = map[string]string{}
	}

	return &CodeHookResponse{
		SessionAttributes: session,
		DialogAction:      EncodeAction(action),
	}
}

func (h *HookHandler) failure(session map[string]string, err error) *CodeHookResponse {
	code := errors.CodeOf(err)
	metrics.DialogErrors.WithLabelValues(string(code)).Inc()
	h.logger.Error("turn failed", map[string]interface{}{
		"errorCode": code,
		"error":     err,
	})

	return &CodeHookResponse{
		SessionAttributes: session,
		DialogAction: EncodeAction(models.Close{
			FulfillmentState: models.FulfillmentFailed,
			Message:          models.PlainText(msgTurnFailure),
		}),
	}
}

// EncodeAction renders a dialog action in the recognizer's wire shape.
func EncodeAction(action models.DialogAction) map[string]interface{} {
	switch a := action.(type) {
	case models.ElicitSlot:
		return map[string]interface{}{
			"type":         a.ActionType(),
			"intentName":   a.IntentName,
			"slots":        a.Slots,
			"slotToElicit": a.SlotToElicit,
			"message":      a.Message,
		}
	case models.Delegate:
		return map[string]interface{}{
			"type":  a.ActionType(),
			"slots": a.Slots,
		}
	case models.Close:
		return map[string]interface{}{
			"type":             a.ActionType(),
			"fulfillmentState": a.FulfillmentState,
			"message":          a.Message,
		}
	default:
		return map[string]interface{}{
			"type":             models.ActionClose,
			"fulfillmentState": models.FulfillmentFailed,
			"message":          models.PlainText(msgTurnFailure),
		}
	}
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(v)
}
