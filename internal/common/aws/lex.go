// internal/common/aws/lex.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lexruntimev2"
)

// LexClient talks to the recognizer runtime used by the chat proxy.
type LexClient struct {
	client *lexruntimev2.Client
}

func NewLexClient(cfg aws.Config) *LexClient {
	return &LexClient{client: lexruntimev2.NewFromConfig(cfg)}
}

func (l *LexClient) RecognizeText(ctx context.Context, input *lexruntimev2.RecognizeTextInput, optFns ...func(*lexruntimev2.Options)) (*lexruntimev2.RecognizeTextOutput, error) {
	return l.client.RecognizeText(ctx, input, optFns...)
}
