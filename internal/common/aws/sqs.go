// internal/common/aws/sqs.go
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"dining-concierge/internal/common/config"
)

const stringDataType = "String"

// SQSAPI is the subset of the SQS client the work queue uses.
type SQSAPI interface {
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

func NewSQSClient(cfg aws.Config) *sqs.Client {
	return sqs.NewFromConfig(cfg)
}

// QueueMessage is one claimed message with its string attributes flattened.
type QueueMessage struct {
	ID            string
	ReceiptHandle string
	Body          string
	Attributes    map[string]string
}

// WorkQueue sends and claims work items on a single SQS queue.
type WorkQueue struct {
	client            SQSAPI
	name              string
	url               string
	waitTimeSeconds   int32
	visibilityTimeout int32
}

func NewWorkQueue(client SQSAPI, cfg config.QueueConfig) *WorkQueue {
	return &WorkQueue{
		client:            client,
		name:              cfg.Name,
		url:               cfg.URL,
		waitTimeSeconds:   cfg.WaitTimeSeconds,
		visibilityTimeout: cfg.VisibilityTimeout,
	}
}

// Endpoint returns the queue URL, resolving it by name when no URL is set.
func (q *WorkQueue) Endpoint(ctx context.Context) (string, error) {
	if q.url != "" {
		return q.url, nil
	}
	out, err := q.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(q.name)})
	if err != nil {
		return "", fmt.Errorf("resolve queue %s: %w", q.name, err)
	}
	if out.QueueUrl == nil {
		return "", fmt.Errorf("resolve queue %s: empty url", q.name)
	}
	return *out.QueueUrl, nil
}

// Send submits one message whose attributes are all typed as String.
func (q *WorkQueue) Send(ctx context.Context, body string, attributes map[string]string) (string, error) {
	url, err := q.Endpoint(ctx)
	if err != nil {
		return "", err
	}

	attrs := make(map[string]types.MessageAttributeValue, len(attributes))
	for name, value := range attributes {
		attrs[name] = types.MessageAttributeValue{
			DataType:    aws.String(stringDataType),
			StringValue: aws.String(value),
		}
	}

	out, err := q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:          aws.String(url),
		MessageBody:       aws.String(body),
		MessageAttributes: attrs,
	})
	if err != nil {
		return "", fmt.Errorf("send message: %w", err)
	}
	return aws.ToString(out.MessageId), nil
}

// ReceiveOne claims at most one message. It returns nil, nil when the queue
// has nothing to deliver.
func (q *WorkQueue) ReceiveOne(ctx context.Context) (*QueueMessage, error) {
	url, err := q.Endpoint(ctx)
	if err != nil {
		return nil, err
	}

	out, err := q.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
		QueueUrl:              aws.String(url),
		MaxNumberOfMessages:   1,
		MessageAttributeNames: []string{"All"},
		WaitTimeSeconds:       q.waitTimeSeconds,
		VisibilityTimeout:     q.visibilityTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("receive message: %w", err)
	}
	if len(out.Messages) == 0 {
		return nil, nil
	}

	msg := out.Messages[0]
	attrs := make(map[string]string, len(msg.MessageAttributes))
	for name, value := range msg.MessageAttributes {
		if value.StringValue != nil {
			attrs[name] = *value.StringValue
		}
	}

	return &QueueMessage{
		ID:            aws.ToString(msg.MessageId),
		ReceiptHandle: aws.ToString(msg.ReceiptHandle),
		Body:          aws.ToString(msg.Body),
		Attributes:    attrs,
	}, nil
}

// Delete removes a claimed message.
func (q *WorkQueue) Delete(ctx context.Context, receiptHandle string) error {
	url, err := q.Endpoint(ctx)
	if err != nil {
		return err
	}
	_, err = q.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(url),
		ReceiptHandle: aws.String(receiptHandle),
	})
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}
