package authsvc

import (
	"context"
	"log/slog"
	"time"

	"github.com/nfrund/authform/internal/pubsub"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AttemptEvent describes one resolved login or signup submission.
type AttemptEvent struct {
	Email   string    `json:"email"`
	Mode    string    `json:"mode"`
	Outcome string    `json:"outcome"`
	At      time.Time `json:"at"`
}

// Attempts is the topic every resolved submission is published on.
var Attempts = pubsub.NewEvent[AttemptEvent]("auth.attempts")

var attemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "authform_auth_attempts_total",
	Help: "Resolved login and signup submissions.",
}, []string{"mode", "outcome"})

// StartAudit counts and logs every auth attempt until ctx is done.
func StartAudit(ctx context.Context, sub pubsub.Subscriber, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "auth_audit")

	return Attempts.Subscribe(ctx, sub, func(ctx context.Context, ev AttemptEvent) error {
		attemptsTotal.WithLabelValues(ev.Mode, ev.Outcome).Inc()
		logger.InfoContext(ctx, "Auth attempt",
			"email", ev.Email,
			"mode", ev.Mode,
			"outcome", ev.Outcome,
			"at", ev.At,
		)
		return nil
	})
}
