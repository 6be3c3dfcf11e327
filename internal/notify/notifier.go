// Package notify delivers operational alerts when a submission needs a
// human. Delivery is gated by the explicit consent config value and
// failures are logged, never surfaced to the pipeline.
package notify

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/config"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/errors"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/common/logger"
	"github.com/bilalmachraa82/alojamento-insight-analyzer/internal/models"
)

// SESService and SNSService mirror the AWS clients for mocking.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier publishes manual-review alerts over SNS and optionally SES.
type Notifier struct {
	cfg    config.NotificationConfig
	ses    SESService
	sns    SNSService
	logger logger.Logger
}

// New builds a Notifier from config. With consent disabled no AWS
// clients are constructed and every alert is a no-op.
func New(ctx context.Context, cfg config.NotificationConfig, log logger.Logger) (*Notifier, error) {
	n := &Notifier{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
	if !cfg.Enabled {
		return n, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	n.ses = ses.NewFromConfig(awsCfg)
	n.sns = sns.NewFromConfig(awsCfg)
	return n, nil
}

// NewWithClients wires explicit clients, used by tests.
func NewWithClients(cfg config.NotificationConfig, sesClient SESService, snsClient SNSService, log logger.Logger) *Notifier {
	return &Notifier{
		cfg:    cfg,
		ses:    sesClient,
		sns:    snsClient,
		logger: log.WithFields(map[string]interface{}{"component": "notifier"}),
	}
}

// ManualReviewAlert notifies operations that a submission left automated
// processing. Never returns an error: alerting is best effort.
func (n *Notifier) ManualReviewAlert(ctx context.Context, sub *models.Submission, reason models.ReviewReason, message string) {
	if !n.cfg.Enabled {
		return
	}

	subject := fmt.Sprintf("Manual review needed: submission %s (%s)", sub.ID, reason)
	body := fmt.Sprintf(
		"Submission %s for %s (%s) needs manual review.\n\nReason: %s\nDetail: %s\nURL: %s\n",
		sub.ID, sub.Name, sub.Platform, reason, message, sub.PropertyURL,
	)

	n.publishSNS(ctx, subject, body, sub.ID)
	n.sendEmail(ctx, subject, body, sub.ID)
}

func (n *Notifier) publishSNS(ctx context.Context, subject, body, submissionID string) {
	if n.sns == nil || n.cfg.SNSTopicARN == "" {
		return
	}
	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.cfg.SNSTopicARN),
		Subject:  aws.String(subject),
		Message:  aws.String(body),
	})
	if err != nil {
		pe := errors.NewNotificationError("sns", err)
		n.logger.Error("SNS publish failed", map[string]interface{}{
			"submissionId": submissionID,
			"code":         pe.Code,
			"error":        pe.Details,
		})
		return
	}
	n.logger.Info("manual-review alert published", map[string]interface{}{
		"submissionId": submissionID,
	})
}

func (n *Notifier) sendEmail(ctx context.Context, subject, body, submissionID string) {
	if n.ses == nil || n.cfg.EmailFrom == "" || n.cfg.EmailTo == "" {
		return
	}
	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.cfg.EmailFrom),
		Destination: &types.Destination{
			ToAddresses: []string{n.cfg.EmailTo},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		pe := errors.NewNotificationError("ses", err)
		n.logger.Error("SES send failed", map[string]interface{}{
			"submissionId": submissionID,
			"code":         pe.Code,
			"error":        pe.Details,
		})
		return
	}
	n.logger.Info("manual-review email sent", map[string]interface{}{
		"submissionId": submissionID,
	})
}
