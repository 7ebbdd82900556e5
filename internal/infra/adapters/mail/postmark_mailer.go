package mail

import (
	"context"
	"errors"
	"fmt"

	"github.com/mrz1836/postmark"

	"biolink-saas/internal/config"
	"biolink-saas/internal/domain/ports/adapter"
)

var ErrSendFailed = errors.New("failed to send email")

var _ adapter.Mailer = (*PostmarkMailer)(nil)

type emailSender interface {
	SendEmail(ctx context.Context, email postmark.Email) (postmark.EmailResponse, error)
}

// PostmarkMailer sends transactional mail through Postmark.
type PostmarkMailer struct {
	client emailSender
	from   string
}

func NewPostmarkMailer(cfg config.MailConfig) (*PostmarkMailer, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, errors.New("postmark server token is required")
	}
	if cfg.From == "" {
		return nil, errors.New("mail sender address is required")
	}
	return &PostmarkMailer{
		client: postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken),
		from:   cfg.From,
	}, nil
}

func (m *PostmarkMailer) Send(ctx context.Context, e adapter.Email) error {
	if e.To == "" || e.Subject == "" {
		return fmt.Errorf("%w: recipient and subject are required", ErrSendFailed)
	}
	resp, err := m.client.SendEmail(ctx, postmark.Email{
		From:       m.from,
		To:         e.To,
		Subject:    e.Subject,
		Tag:        e.Tag,
		HTMLBody:   e.HTMLBody,
		TextBody:   e.TextBody,
		TrackOpens: true,
	})
	if err != nil {
		return errors.Join(ErrSendFailed, err)
	}
	if resp.ErrorCode > 0 {
		return errors.Join(ErrSendFailed, fmt.Errorf("postmark error: %d - %s", resp.ErrorCode, resp.Message))
	}
	return nil
}
