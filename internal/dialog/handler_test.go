package dialog

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/models"
)

func createTestHookHandler(t *testing.T, enq Enqueuer) *HookHandler {
	return NewHookHandler(createTestDispatcher(t, enq), logger.NewTestLogger(t))
}

func postEvent(t *testing.T, h http.Handler, body string) map[string]interface{} {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/lex/code-hook", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func dialogAction(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	action, ok := resp["dialogAction"].(map[string]interface{})
	require.True(t, ok, "dialogAction missing: %v", resp)
	return action
}

func TestHookHandler_ElicitSlotEnvelope(t *testing.T) {
	h := createTestHookHandler(t, &recordingEnqueuer{})

	resp := postEvent(t, h, `{
		"currentIntent": {"name": "DiningSuggestionsIntent", "slots": {
			"Location": "New York", "Cuisine": "italian", "DiningDate": null,
			"DiningTime": "08:00", "NumberOfPeople": null, "Email": null}},
		"invocationSource": "DialogCodeHook",
		"userId": "user-1",
		"sessionAttributes": {"k": "v"},
		"bot": {"name": "DiningConcierge"}
	}`)

	assert.Equal(t, map[string]interface{}{"k": "v"}, resp["sessionAttributes"])
	action := dialogAction(t, resp)
	assert.Equal(t, "ElicitSlot", action["type"])
	assert.Equal(t, "DiningSuggestionsIntent", action["intentName"])
	assert.Equal(t, "DiningTime", action["slotToElicit"])

	slots := action["slots"].(map[string]interface{})
	assert.Contains(t, slots, "DiningTime")
	assert.Nil(t, slots["DiningTime"])
	assert.Equal(t, "italian", slots["Cuisine"])

	message := action["message"].(map[string]interface{})
	assert.Equal(t, "PlainText", message["contentType"])
	assert.Equal(t, msgOutsideHours, message["content"])
}

func TestHookHandler_DelegateDefaultsSessionAttributes(t *testing.T) {
	h := createTestHookHandler(t, &recordingEnqueuer{})

	resp := postEvent(t, h, `{
		"currentIntent": {"name": "DiningSuggestionsIntent", "slots": {"Location": "new york"}},
		"invocationSource": "DialogCodeHook",
		"sessionAttributes": null
	}`)

	assert.Equal(t, map[string]interface{}{}, resp["sessionAttributes"])
	action := dialogAction(t, resp)
	assert.Equal(t, "Delegate", action["type"])
	assert.Equal(t, map[string]interface{}{"Location": "new york"}, action["slots"])
}

func TestHookHandler_FulfillmentEndToEnd(t *testing.T) {
	enq := &recordingEnqueuer{}
	h := createTestHookHandler(t, enq)

	resp := postEvent(t, h, `{
		"currentIntent": {"name": "DiningSuggestionsIntent", "slots": {
			"Location": "New York", "Cuisine": "italian", "DiningDate": "2030-01-01",
			"DiningTime": "19:00", "NumberOfPeople": "4", "Email": "a@b.com"}},
		"invocationSource": "FulfillmentCodeHook"
	}`)

	require.Len(t, enq.calls, 1)
	item := models.WorkItemFromSlots(enq.calls[0])
	assert.Equal(t, models.WorkItem{
		Location:       "New York",
		Cuisine:        "italian",
		DiningDate:     "2030-01-01",
		DiningTime:     "19:00",
		NumberOfPeople: "4",
		Email:          "a@b.com",
	}, item)

	action := dialogAction(t, resp)
	assert.Equal(t, "Close", action["type"])
	assert.Equal(t, "Fulfilled", action["fulfillmentState"])
	assert.Equal(t, msgConfirmation, action["message"].(map[string]interface{})["content"])
}

func TestHookHandler_FailuresResolveToClose(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "unknown intent",
			body: `{"currentIntent":{"name":"UnknownIntent"},"invocationSource":"FulfillmentCodeHook"}`,
		},
		{
			name: "schema violation",
			body: `{"currentIntent":{"slots":{}},"invocationSource":"DialogCodeHook"}`,
		},
		{
			name: "not json",
			body: `<xml/>`,
		},
		{
			name: "empty body",
			body: ``,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enq := &recordingEnqueuer{}
			h := createTestHookHandler(t, enq)

			action := dialogAction(t, postEvent(t, h, tt.body))
			assert.Equal(t, "Close", action["type"])
			assert.Equal(t, "Failed", action["fulfillmentState"])
			assert.Equal(t, msgTurnFailure, action["message"].(map[string]interface{})["content"])
			assert.Empty(t, enq.calls)
		})
	}
}

func TestHookHandler_RejectsNonPost(t *testing.T) {
	h := createTestHookHandler(t, &recordingEnqueuer{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/lex/code-hook", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHookHandler_HandleEventKeepsSessionOnFailure(t *testing.T) {
	h := createTestHookHandler(t, &recordingEnqueuer{})

	resp := h.HandleEvent(context.Background(), []byte(
		`{"currentIntent":{"name":"Nope"},"invocationSource":"DialogCodeHook","sessionAttributes":{"a":"1"}}`))

	assert.Equal(t, map[string]string{"a": "1"}, resp.SessionAttributes)
	assert.Equal(t, models.FulfillmentFailed, resp.DialogAction["fulfillmentState"])
}
