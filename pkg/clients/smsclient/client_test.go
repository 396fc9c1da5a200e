package smsclient

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPublisher struct {
	inputs []*sns.PublishInput
	err    error
}

func (m *mockPublisher) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.inputs = append(m.inputs, params)
	if m.err != nil {
		return nil, m.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSendSMS_PublishesTransactionalMessage(t *testing.T) {
	publisher := &mockPublisher{}
	client := NewClientWithPublisher(publisher, "AGRIGOV")

	err := client.SendSMS(context.Background(), " +919876543210 ", "Your application APP-1 is received.")
	require.NoError(t, err)

	require.Len(t, publisher.inputs, 1)
	input := publisher.inputs[0]
	assert.Equal(t, "+919876543210", aws.ToString(input.PhoneNumber))
	assert.Equal(t, "Your application APP-1 is received.", aws.ToString(input.Message))
	assert.Equal(t, "Transactional", aws.ToString(input.MessageAttributes["AWS.SNS.SMS.SMSType"].StringValue))
	assert.Equal(t, "AGRIGOV", aws.ToString(input.MessageAttributes["AWS.SNS.SMS.SenderID"].StringValue))
}

func TestSendSMS_NoSenderID(t *testing.T) {
	publisher := &mockPublisher{}
	client := NewClientWithPublisher(publisher, "")

	require.NoError(t, client.SendSMS(context.Background(), "+919876543210", "hello"))

	_, hasSender := publisher.inputs[0].MessageAttributes["AWS.SNS.SMS.SenderID"]
	assert.False(t, hasSender)
}

func TestSendSMS_EmptyPhoneNumber(t *testing.T) {
	publisher := &mockPublisher{}
	client := NewClientWithPublisher(publisher, "")

	err := client.SendSMS(context.Background(), "  ", "hello")
	assert.Error(t, err)
	assert.Empty(t, publisher.inputs)
}

func TestSendSMS_PublishError(t *testing.T) {
	publisher := &mockPublisher{err: errors.New("throttled")}
	client := NewClientWithPublisher(publisher, "")

	err := client.SendSMS(context.Background(), "+919876543210", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}
