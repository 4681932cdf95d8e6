package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeHookEventSchema(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		valid bool
		field string
	}{
		{
			name:  "full event with null slots",
			doc:   `{"currentIntent":{"name":"DiningSuggestionsIntent","slots":{"Location":"new york","Cuisine":null}},"invocationSource":"DialogCodeHook","userId":"u1","sessionAttributes":{}}`,
			valid: true,
		},
		{
			name:  "null session attributes",
			doc:   `{"currentIntent":{"name":"GreetingIntent"},"invocationSource":"FulfillmentCodeHook","sessionAttributes":null}`,
			valid: true,
		},
		{
			name:  "missing intent",
			doc:   `{"invocationSource":"DialogCodeHook"}`,
			field: "(root)",
		},
		{
			name:  "numeric slot value",
			doc:   `{"currentIntent":{"name":"DiningSuggestionsIntent","slots":{"NumberOfPeople":4}},"invocationSource":"DialogCodeHook"}`,
			field: "currentIntent.slots.NumberOfPeople",
		},
		{
			name:  "not json",
			doc:   `{"currentIntent":`,
			field: "(root)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CodeHookEventSchema.ValidateBytes([]byte(tt.doc))
			require.NotNil(t, result)
			assert.Equal(t, tt.valid, result.Valid, result.GetErrorMessages())
			if !tt.valid {
				assert.True(t, result.HasErrors(tt.field), result.GetErrorMessages())
			}
		})
	}
}

func TestChatRequestSchema(t *testing.T) {
	ok := ChatRequestSchema.ValidateBytes([]byte(`{"messages":[{"type":"unstructured","unstructured":{"text":"hi"}}]}`))
	assert.True(t, ok.Valid)

	empty := ChatRequestSchema.ValidateBytes([]byte(`{"messages":[]}`))
	assert.False(t, empty.Valid)
	assert.NotEmpty(t, empty.GetErrorMessages())
}
