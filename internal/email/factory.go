package email

import (
	"errors"
	"fmt"

	"github.com/nfrund/authform/internal/config"
	"github.com/nfrund/authform/internal/domain"
)

// ErrMissingAPIKey is returned when a hosted provider is selected without
// credentials.
var ErrMissingAPIKey = errors.New("EMAIL_API_KEY is required for this provider")

// NewEmailService picks the sender named by EMAIL_PROVIDER. The log sender
// needs no credentials and is what development and tests run with.
func NewEmailService(cfg config.Provider) (domain.EmailSender, error) {
	provider := cfg.GetEmailProvider()
	switch provider {
	case config.EmailProviderLog:
		return NewLogSender(cfg.GetEmailSender()), nil
	case config.EmailProviderResend:
		key := cfg.GetEmailAPIKey()
		if key == "" {
			return nil, fmt.Errorf("email provider %q: %w", provider, ErrMissingAPIKey)
		}
		return NewResendSender(key, cfg.GetEmailSender()), nil
	}
	return nil, fmt.Errorf("unknown email provider %q (want %q or %q)",
		provider, config.EmailProviderLog, config.EmailProviderResend)
}
