package smsclient

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Publisher is the part of the SNS API the client uses
type Publisher interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Client sends transactional text messages through AWS SNS
type Client struct {
	publisher Publisher
	senderID  string
}

// NewClient creates an SNS-backed client using the default AWS credential chain
func NewClient(ctx context.Context, region, senderID string) (*Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return NewClientWithPublisher(sns.NewFromConfig(awsCfg), senderID), nil
}

// NewClientWithPublisher creates a client around an existing publisher
func NewClientWithPublisher(publisher Publisher, senderID string) *Client {
	return &Client{
		publisher: publisher,
		senderID:  senderID,
	}
}

// SendSMS publishes a single message to a phone number
func (c *Client) SendSMS(ctx context.Context, phoneNumber, message string) error {
	phoneNumber = strings.TrimSpace(phoneNumber)
	if phoneNumber == "" {
		return fmt.Errorf("failed to send sms: empty phone number")
	}

	input := &sns.PublishInput{
		PhoneNumber: aws.String(phoneNumber),
		Message:     aws.String(message),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	}
	if c.senderID != "" {
		input.MessageAttributes["AWS.SNS.SMS.SenderID"] = types.MessageAttributeValue{
			DataType:    aws.String("String"),
			StringValue: aws.String(c.senderID),
		}
	}

	if _, err := c.publisher.Publish(ctx, input); err != nil {
		return fmt.Errorf("failed to send sms: %w", err)
	}

	return nil
}
