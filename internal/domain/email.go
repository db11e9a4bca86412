package domain

import "context"

// EmailSender delivers transactional email, such as password reset links.
type EmailSender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
