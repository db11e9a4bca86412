package authsvc

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nfrund/authform/internal/authform"
	"github.com/nfrund/authform/internal/database"
	"github.com/nfrund/authform/internal/domain"
	"github.com/nfrund/authform/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type recordingEmailer struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (r *recordingEmailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, to+"|"+htmlBody)
	return r.err
}

// failingStore fails every call with a connection error.
type failingStore struct{ domain.UserRepository }

func (failingStore) SignIn(ctx context.Context, user *domain.User, password string) (string, error) {
	return "", errors.New("connection refused")
}

func newSeededService(t *testing.T, pub pubsub.Publisher) (*Service, *recordingEmailer) {
	t.Helper()
	store := database.NewMemoryUserStore(database.WithBcryptCost(bcrypt.MinCost))
	ctx := context.Background()
	_, err := store.SignUp(ctx, &domain.User{Email: "valid@example.com"}, "password123")
	require.NoError(t, err)
	_, err = store.SignUp(ctx, &domain.User{Email: "existing@example.com"}, "password123")
	require.NoError(t, err)

	emailer := &recordingEmailer{}
	return New(store, emailer, pub, "http://localhost:8080"), emailer
}

func TestService_Authenticate(t *testing.T) {
	svc, _ := newSeededService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name    string
		creds   authform.Credentials
		outcome authform.Outcome
	}{
		{"login ok", authform.Credentials{Email: "valid@example.com", Password: "password123", Mode: authform.ModeLogin}, authform.OutcomeLoginOK},
		{"login bad password", authform.Credentials{Email: "valid@example.com", Password: "wrongpassword", Mode: authform.ModeLogin}, authform.OutcomeLoginFail},
		{"login unknown user", authform.Credentials{Email: "invalid@example.com", Password: "wrongpassword", Mode: authform.ModeLogin}, authform.OutcomeLoginFail},
		{"signup fresh", authform.Credentials{Email: "newuser@example.com", Password: "newpassword", Mode: authform.ModeSignup}, authform.OutcomeSignupOK},
		{"signup duplicate", authform.Credentials{Email: "existing@example.com", Password: "password123", Mode: authform.ModeSignup}, authform.OutcomeSignupFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Authenticate(ctx, tt.creds)
			require.NoError(t, err)
			assert.Equal(t, tt.outcome, res.Outcome)
			if tt.outcome == authform.OutcomeLoginOK {
				assert.NotEmpty(t, res.Token)
			} else {
				assert.Empty(t, res.Token)
			}
		})
	}
}

func TestService_AuthenticateStoreFailure(t *testing.T) {
	svc := New(failingStore{}, nil, nil, "")

	_, err := svc.Authenticate(context.Background(), authform.Credentials{Email: "a@b.c", Password: "x"})
	assert.ErrorContains(t, err, "connection refused")
}

func TestService_PublishesAttempts(t *testing.T) {
	bus := pubsub.NewWatermillBridge()
	t.Cleanup(func() { _ = bus.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	events := make(chan AttemptEvent, 4)
	require.NoError(t, Attempts.Subscribe(ctx, bus, func(ctx context.Context, ev AttemptEvent) error {
		events <- ev
		return nil
	}))

	svc, _ := newSeededService(t, bus)
	_, err := svc.Authenticate(ctx, authform.Credentials{Email: "invalid@example.com", Password: "wrongpassword"})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, "invalid@example.com", ev.Email)
		assert.Equal(t, "login", ev.Mode)
		assert.Equal(t, "login_fail", ev.Outcome)
	case <-time.After(2 * time.Second):
		t.Fatal("no attempt event published")
	}
}

func TestStartAudit(t *testing.T) {
	bus := pubsub.NewWatermillBridge()
	t.Cleanup(func() { _ = bus.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var buf safeBuffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	require.NoError(t, StartAudit(ctx, bus, logger))
	counter := attemptsTotal.WithLabelValues("login", "login_ok")
	before := testutil.ToFloat64(counter)

	require.NoError(t, Attempts.Publish(ctx, bus, "valid@example.com", AttemptEvent{
		Email: "valid@example.com", Mode: "login", Outcome: "login_ok",
	}))

	assert.Eventually(t, func() bool {
		return strings.Contains(buf.String(), "outcome=login_ok")
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestService_RequestPasswordReset(t *testing.T) {
	ctx := context.Background()

	t.Run("known email gets a link", func(t *testing.T) {
		svc, emailer := newSeededService(t, nil)
		require.NoError(t, svc.RequestPasswordReset(ctx, "valid@example.com"))

		require.Len(t, emailer.sent, 1)
		assert.Contains(t, emailer.sent[0], "valid@example.com|")
		assert.Contains(t, emailer.sent[0], "http://localhost:8080/reset-password?token=")
	})

	t.Run("unknown email is hidden", func(t *testing.T) {
		svc, emailer := newSeededService(t, nil)
		require.NoError(t, svc.RequestPasswordReset(ctx, "nobody@example.com"))
		assert.Empty(t, emailer.sent)
	})

	t.Run("delivery failure is reported", func(t *testing.T) {
		svc, emailer := newSeededService(t, nil)
		emailer.err = errors.New("smtp down")
		assert.ErrorContains(t, svc.RequestPasswordReset(ctx, "valid@example.com"), "smtp down")
	})
}

type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}
