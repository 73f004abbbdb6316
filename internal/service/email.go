package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mailgun/mailgun-go/v4"
)

// DeliveryError reports a provider-side failure (non-2xx) from the
// transactional email provider.
type DeliveryError struct {
	StatusCode int
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email delivery failed with status code %d", e.StatusCode)
}

// EmailService sends transactional email through Mailgun. Every send is a
// single outbound call with no retry; callers decide whether a failure is
// fatal. Sends are not idempotent, so each logical event must send at most
// once.
type EmailService struct {
	mg      *mailgun.MailgunImpl
	from    string
	appURL  string
	appName string
	isDev   bool
}

func NewEmailService(domain, apiKey, apiBase, from, appURL, appName string, isDev bool) *EmailService {
	var mg *mailgun.MailgunImpl
	if apiKey != "" && !isDev {
		mg = mailgun.NewMailgun(domain, apiKey)
		if apiBase != "" {
			mg.SetAPIBase(apiBase)
		}
	}

	return &EmailService{
		mg:      mg,
		from:    from,
		appURL:  appURL,
		appName: appName,
		isDev:   isDev,
	}
}

// Send delivers one email. In development the send is logged instead of
// delivered. A provider-reported failure is returned as *DeliveryError.
func (s *EmailService) Send(ctx context.Context, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "to", to, "subject", subject)
		return nil
	}

	if s.mg == nil {
		return fmt.Errorf("email service not configured (missing MAILGUN_API_KEY)")
	}

	message := mailgun.NewMessage(s.from, subject, body, to)

	_, _, err := s.mg.Send(ctx, message)
	if err != nil {
		var unexpected *mailgun.UnexpectedResponseError
		if errors.As(err, &unexpected) {
			return &DeliveryError{StatusCode: unexpected.Actual}
		}
		return err
	}

	slog.Info("email sent", "to", to, "subject", subject)
	return nil
}

// SendRegistrationEmail asks a new user to confirm their address.
func (s *EmailService) SendRegistrationEmail(ctx context.Context, to, confirmationURL string) error {
	subject, body := registrationEmailTemplate(to, confirmationURL, s.appName)
	return s.Send(ctx, to, subject, body)
}

// SendImageFailedEmail tells the post owner that image generation failed.
// The message is deliberately generic; provider details stay in the logs.
func (s *EmailService) SendImageFailedEmail(ctx context.Context, to string) error {
	subject, body := imageFailedEmailTemplate(to, s.appName)
	return s.Send(ctx, to, subject, body)
}

// SendImageReadyEmail tells the post owner their image is attached, with a
// link back to the post.
func (s *EmailService) SendImageReadyEmail(ctx context.Context, to, postURL string) error {
	subject, body := imageReadyEmailTemplate(to, postURL, s.appName)
	return s.Send(ctx, to, subject, body)
}
