package adapter

import "context"

type Email struct {
	To       string
	Subject  string
	HTMLBody string
	TextBody string
	Tag      string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, e Email) error
}
