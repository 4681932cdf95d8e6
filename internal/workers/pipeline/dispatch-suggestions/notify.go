// internal/workers/pipeline/dispatch-suggestions/notify.go
package dispatchsuggestions

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	apperrors "dining-concierge/internal/common/errors"
)

var ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// Notifier delivers the composed suggestions for one request.
type Notifier interface {
	Notify(ctx context.Context, req *SuggestionRequest, subject, body string) error
}

// SNSNotifier publishes to a preconfigured topic.
type SNSNotifier struct {
	client   SNSService
	topicARN string
}

func NewSNSNotifier(client SNSService, topicARN string) *SNSNotifier {
	return &SNSNotifier{client: client, topicARN: topicARN}
}

func (n *SNSNotifier) Notify(ctx context.Context, _ *SuggestionRequest, subject, body string) error {
	_, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("%w: sns publish: %v", ErrNotificationSendFailed, err)
	}
	return nil
}

// SESNotifier e-mails the address captured in the request.
type SESNotifier struct {
	client SESService
	from   string
}

func NewSESNotifier(client SESService, fromEmail string) *SESNotifier {
	return &SESNotifier{client: client, from: fromEmail}
}

func (n *SESNotifier) Notify(ctx context.Context, req *SuggestionRequest, subject, body string) error {
	if req.Email == "" {
		return apperrors.NewMalformedWorkItemError("Email is required for e-mail delivery")
	}

	_, err := n.client.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{req.Email},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(n.from),
	})
	if err != nil {
		return fmt.Errorf("%w: ses send: %v", ErrNotificationSendFailed, err)
	}
	return nil
}
