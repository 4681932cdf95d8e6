package validation

// CodeHookEventSchema describes the recognizer's code-hook event. Slot values
// may be null; unknown top-level keys are allowed.
var CodeHookEventSchema = MustCompile("code-hook-event", `{
  "type": "object",
  "required": ["currentIntent", "invocationSource"],
  "properties": {
    "currentIntent": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "name": {"type": "string", "minLength": 1},
        "slots": {
          "type": ["object", "null"],
          "additionalProperties": {"type": ["string", "null"]}
        }
      }
    },
    "invocationSource": {"type": "string", "minLength": 1},
    "userId": {"type": "string"},
    "sessionAttributes": {
      "type": ["object", "null"],
      "additionalProperties": {"type": "string"}
    }
  }
}`)

// ChatRequestSchema describes a message sent by the chat UI.
var ChatRequestSchema = MustCompile("chat-request", `{
  "type": "object",
  "required": ["messages"],
  "properties": {
    "messages": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["unstructured"],
        "properties": {
          "type": {"type": "string"},
          "unstructured": {
            "type": "object",
            "required": ["text"],
            "properties": {
              "text": {"type": "string", "minLength": 1},
              "id": {"type": "string"}
            }
          }
        }
      }
    }
  }
}`)
