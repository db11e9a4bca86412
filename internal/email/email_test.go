package email

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nfrund/authform/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResendSender_Send(t *testing.T) {
	var got resendPayload
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewResendSender("key-123", "")
	s.endpoint = srv.URL

	err := s.Send(context.Background(), "valid@example.com", "Reset Your Password", "<p>hi</p>")
	require.NoError(t, err)
	assert.Equal(t, "Bearer key-123", auth)
	assert.Equal(t, "valid@example.com", got.To)
	assert.Equal(t, "Auth <onboarding@resend.dev>", got.From)

	t.Run("API errors are returned", func(t *testing.T) {
		failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer failing.Close()
		s.endpoint = failing.URL

		err := s.Send(context.Background(), "valid@example.com", "s", "b")
		assert.ErrorContains(t, err, "status 422")
	})
}

func TestNewEmailService(t *testing.T) {
	sender, err := NewEmailService(&config.Config{EmailProvider: "log"})
	require.NoError(t, err)
	assert.IsType(t, &LogSender{}, sender)

	_, err = NewEmailService(&config.Config{EmailProvider: "resend"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	sender, err = NewEmailService(&config.Config{EmailProvider: "resend", EmailAPIKey: "key-123"})
	require.NoError(t, err)
	assert.IsType(t, &ResendSender{}, sender)

	_, err = NewEmailService(&config.Config{EmailProvider: "pigeon"})
	assert.ErrorContains(t, err, "unknown email provider")
}
