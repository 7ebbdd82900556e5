package mail

import (
	"context"

	"github.com/rs/zerolog"

	"biolink-saas/internal/domain/ports/adapter"
	"biolink-saas/internal/infra/logging"
)

var _ adapter.Mailer = (*LogMailer)(nil)

// LogMailer writes emails to the log instead of sending them. Used when no
// Postmark token is configured.
type LogMailer struct {
	log *zerolog.Logger
}

func NewLogMailer(logger *zerolog.Logger) *LogMailer {
	l := logger.With().Str("component", "mailer").Logger()
	return &LogMailer{log: &l}
}

func (m *LogMailer) Send(ctx context.Context, e adapter.Email) error {
	logging.With(ctx, m.log).Info().
		Str("to", logging.Redact(e.To, false)).
		Str("subject", e.Subject).
		Str("tag", e.Tag).
		Msg("email not sent (log mailer)")
	return nil
}
