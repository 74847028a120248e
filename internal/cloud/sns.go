package cloud

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// SNSClient publishes fleet alerts to the configured topic.
type SNSClient struct {
	svc      *sns.Client
	topicArn string
}

func NewSNSClient(ctx context.Context, region, topicArn string) (*SNSClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}
	return &SNSClient{svc: sns.NewFromConfig(cfg), topicArn: topicArn}, nil
}

// SendAlert publishes one notification.
func (c *SNSClient) SendAlert(ctx context.Context, subject, message string) error {
	_, err := c.svc.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(c.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(message),
	})
	if err != nil {
		return fmt.Errorf("failed to publish to SNS: %w", err)
	}
	return nil
}

// SendDirtAlert notifies operations that a day's dirty panel count crossed
// the cleaning threshold.
func (c *SNSClient) SendDirtAlert(ctx context.Context, date string, dirtyCount, threshold int) error {
	subject := fmt.Sprintf("Solar Fleet Alert: %d dirty panels on %s", dirtyCount, date)
	message := fmt.Sprintf(
		"Panel Cleaning Alert\n\n"+
			"Date: %s\n"+
			"Dirty panels: %d\n"+
			"Alert threshold: %d\n\n"+
			"Schedule a cleaning crew for the affected arrays.",
		date,
		dirtyCount,
		threshold,
	)
	return c.SendAlert(ctx, subject, message)
}
