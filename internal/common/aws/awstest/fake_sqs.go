// Package awstest provides in-memory stand-ins for AWS clients in tests.
package awstest

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
)

// FakeSQS is a single-queue, in-memory SQS. Received messages stay stored
// until deleted; a received message is hidden from later receives until
// Redeliver is called, which models the visibility timeout expiring.
type FakeSQS struct {
	mu        sync.Mutex
	QueueURL  string
	messages  []*fakeMessage
	nextID    int
	Sent      []*sqs.SendMessageInput
	Deleted   []string
	Resolves  int
	SendErr   error
	RecvErr   error
	DeleteErr error
}

type fakeMessage struct {
	msg      types.Message
	inFlight bool
}

func NewFakeSQS(queueURL string) *FakeSQS {
	return &FakeSQS{QueueURL: queueURL}
}

func (f *FakeSQS) GetQueueUrl(_ context.Context, params *sqs.GetQueueUrlInput, _ ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Resolves++
	return &sqs.GetQueueUrlOutput{QueueUrl: aws.String(f.QueueURL)}, nil
}

func (f *FakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SendErr != nil {
		return nil, f.SendErr
	}
	f.Sent = append(f.Sent, params)
	f.nextID++
	id := fmt.Sprintf("msg-%d", f.nextID)
	f.messages = append(f.messages, &fakeMessage{msg: types.Message{
		MessageId:         aws.String(id),
		ReceiptHandle:     aws.String("rh-" + id),
		Body:              params.MessageBody,
		MessageAttributes: params.MessageAttributes,
	}})
	return &sqs.SendMessageOutput{MessageId: aws.String(id)}, nil
}

func (f *FakeSQS) ReceiveMessage(_ context.Context, params *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.RecvErr != nil {
		return nil, f.RecvErr
	}
	for _, m := range f.messages {
		if !m.inFlight {
			m.inFlight = true
			return &sqs.ReceiveMessageOutput{Messages: []types.Message{m.msg}}, nil
		}
	}
	return &sqs.ReceiveMessageOutput{}, nil
}

func (f *FakeSQS) DeleteMessage(_ context.Context, params *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DeleteErr != nil {
		return nil, f.DeleteErr
	}
	handle := aws.ToString(params.ReceiptHandle)
	for i, m := range f.messages {
		if aws.ToString(m.msg.ReceiptHandle) == handle {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			f.Deleted = append(f.Deleted, handle)
			return &sqs.DeleteMessageOutput{}, nil
		}
	}
	return nil, fmt.Errorf("receipt handle %s not found", handle)
}

// Enqueue stores a message directly, bypassing SendMessage bookkeeping.
func (f *FakeSQS) Enqueue(attributes map[string]string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	id := fmt.Sprintf("msg-%d", f.nextID)
	attrs := make(map[string]types.MessageAttributeValue, len(attributes))
	for k, v := range attributes {
		attrs[k] = types.MessageAttributeValue{DataType: aws.String("String"), StringValue: aws.String(v)}
	}
	f.messages = append(f.messages, &fakeMessage{msg: types.Message{
		MessageId:         aws.String(id),
		ReceiptHandle:     aws.String("rh-" + id),
		Body:              aws.String("test"),
		MessageAttributes: attrs,
	}})
	return id
}

// Redeliver makes every in-flight message visible again.
func (f *FakeSQS) Redeliver() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		m.inFlight = false
	}
}

// Len returns the number of messages still stored, in flight or not.
func (f *FakeSQS) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.messages)
}
