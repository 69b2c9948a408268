// Package ses provides claim decision notification emails via AWS SES
package ses

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"go.uber.org/zap"

	appConfig "healthcare-claims-engine/internal/config"
	"healthcare-claims-engine/internal/models"
	"healthcare-claims-engine/internal/utils"
)

// Service handles SES email operations
type Service struct {
	client    *ses.Client
	fromEmail string
}

// EmailParams represents parameters for sending an email
type EmailParams struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// DecisionNotification contains the data for a claim decision email
type DecisionNotification struct {
	PatientName string
	ToEmail     string
	ClaimID     string
	Status      models.ClaimStatus
	Amount      float64
	Provider    string
}

// SendEmailResult contains the result of sending an email
type SendEmailResult struct {
	MessageID string
	SentAt    time.Time
}

// NewService creates a new SES service
func NewService(ctx context.Context) (*Service, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	appCfg, err := appConfig.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load app config: %w", err)
	}

	return &Service{
		client:    ses.NewFromConfig(cfg),
		fromEmail: appCfg.SESSenderEmail,
	}, nil
}

// SendEmail sends a basic email
func (s *Service) SendEmail(ctx context.Context, params EmailParams) (*SendEmailResult, error) {
	input := &ses.SendEmailInput{
		Source: aws.String(s.fromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{params.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(params.Subject),
				Charset: aws.String("UTF-8"),
			},
			Body: &types.Body{},
		},
	}

	if params.HTMLBody != "" {
		input.Message.Body.Html = &types.Content{
			Data:    aws.String(params.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if params.TextBody != "" {
		input.Message.Body.Text = &types.Content{
			Data:    aws.String(params.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}

	output, err := s.client.SendEmail(ctx, input)
	if err != nil {
		utils.GetLogger().Error("Failed to send email",
			zap.String("to", params.To),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to send email: %w", err)
	}

	return &SendEmailResult{
		MessageID: aws.ToString(output.MessageId),
		SentAt:    time.Now().UTC(),
	}, nil
}

// SendClaimDecision emails a patient about an approval or denial.
func (s *Service) SendClaimDecision(ctx context.Context, n DecisionNotification) (*SendEmailResult, error) {
	verdict := "approved"
	if n.Status == models.ClaimStatusDenied {
		verdict = "denied"
	}

	name := n.PatientName
	if strings.TrimSpace(name) == "" {
		name = "there"
	}

	subject := fmt.Sprintf("Your insurance claim has been %s", verdict)
	text := fmt.Sprintf(
		"Hi %s,\n\nYour claim %s for $%.2f with %s has been %s.\n\nYou can review the details from your dashboard.\n\nMediBots Claims Team",
		name, n.ClaimID, n.Amount, n.Provider, strings.ToUpper(verdict),
	)
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>Your claim <strong>%s</strong> for <strong>$%.2f</strong> with %s has been <strong>%s</strong>.</p><p>You can review the details from your dashboard.</p><p>MediBots Claims Team</p>",
		name, n.ClaimID, n.Amount, n.Provider, strings.ToUpper(verdict),
	)

	return s.SendEmail(ctx, EmailParams{
		To:       n.ToEmail,
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	})
}
