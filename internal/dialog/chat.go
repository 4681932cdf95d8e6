package dialog

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimev2"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimev2/types"
	"github.com/google/uuid"

	"dining-concierge/internal/common/config"
	"dining-concierge/internal/common/errors"
	"dining-concierge/internal/common/logger"
	"dining-concierge/internal/common/validation"
)

const (
	sessionHeader    = "X-Session-Id"
	msgNotUnderstood = "I'm sorry, I couldn't understand that."
	msgChatFailure   = "Sorry, something went wrong on our side. Please try again."
	unstructuredType = "unstructured"
)

// LexAPI is the recognizer runtime call the chat proxy needs.
type LexAPI interface {
	RecognizeText(ctx context.Context, params *lexruntimev2.RecognizeTextInput, optFns ...func(*lexruntimev2.Options)) (*lexruntimev2.RecognizeTextOutput, error)
}

type ChatMessage struct {
	Type         string       `json:"type"`
	Unstructured Unstructured `json:"unstructured"`
}

type Unstructured struct {
	ID        string `json:"id,omitempty"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp,omitempty"`
}

type ChatRequest struct {
	Messages  []ChatMessage `json:"messages"`
	SessionID string        `json:"sessionId,omitempty"`
}

type ChatResponse struct {
	Messages  []ChatMessage `json:"messages"`
	SessionID string        `json:"sessionId"`
}

// ChatProxy forwards chat UI messages to the recognizer. Each conversation
// gets its own recognizer session: the id comes from the request or is
// generated and handed back to the caller.
type ChatProxy struct {
	client LexAPI
	cfg    config.RecognizerConfig
	logger logger.Logger
	now    func() time.Time
}

func NewChatProxy(client LexAPI, cfg config.RecognizerConfig, log logger.Logger) *ChatProxy {
	return &ChatProxy{
		client: client,
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "chat"}),
		now:    time.Now,
	}
}

func (p *ChatProxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+sessionHeader)
	w.Header().Set("Access-Control-Allow-Methods", "OPTIONS,POST")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}

	if result := validation.ChatRequestSchema.ValidateBytes(body); !result.Valid {
		p.logger.Warn("invalid chat request", map[string]interface{}{
			"errors": result.GetErrorMessages(),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"errors": result.Errors})
		return
	}

	var req ChatRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = r.Header.Get(sessionHeader)
	}

	writeJSON(w, p.Reply(r.Context(), &req))
}

// Reply sends the first message's text to the recognizer and wraps its first
// plain-text answer. Recognizer failures still yield a chat message.
func (p *ChatProxy) Reply(ctx context.Context, req *ChatRequest) *ChatResponse {
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	text, err := p.recognize(ctx, sessionID, req.Messages[0].Unstructured.Text)
	if err != nil {
		p.logger.Error("recognizer call failed", map[string]interface{}{
			"sessionId": sessionID,
			"error":     err,
		})
		text = msgChatFailure
	}

	return &ChatResponse{
		Messages: []ChatMessage{{
			Type: unstructuredType,
			Unstructured: Unstructured{
				ID:        uuid.NewString(),
				Text:      text,
				Timestamp: p.now().UTC().Format(time.RFC3339),
			},
		}},
		SessionID: sessionID,
	}
}

func (p *ChatProxy) recognize(ctx context.Context, sessionID, text string) (string, error) {
	out, err := p.client.RecognizeText(ctx, &lexruntimev2.RecognizeTextInput{
		BotId:      aws.String(p.cfg.BotID),
		BotAliasId: aws.String(p.cfg.BotAliasID),
		LocaleId:   aws.String(p.cfg.LocaleID),
		SessionId:  aws.String(sessionID),
		Text:       aws.String(strings.TrimSpace(text)),
	})
	if err != nil {
		return "", errors.NewRecognizerUnavailableError(err)
	}

	for _, msg := range out.Messages {
		if msg.ContentType == types.MessageContentTypePlainText && aws.ToString(msg.Content) != "" {
			return aws.ToString(msg.Content), nil
		}
	}
	return msgNotUnderstood, nil
}
