package database

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/nfrund/authform/internal/config"
	"github.com/surrealdb/surrealdb.go"
)

// Dial opens a SurrealDB connection scoped to the configured namespace and
// database. It does not sign in.
func Dial(ctx context.Context, cfg config.Provider) (*surrealdb.DB, error) {
	db, err := surrealdb.FromEndpointURLString(ctx, cfg.GetDBURL())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to surrealdb at %s: %w", redactDBURL(cfg.GetDBURL()), err)
	}
	if err = db.Use(ctx, cfg.GetDBNs(), cfg.GetDBDb()); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to use namespace/db: %w", err)
	}
	return db, nil
}

// NewDB creates a root-authenticated SurrealDB connection.
func NewDB(ctx context.Context, cfg config.Provider) (*surrealdb.DB, error) {
	db, err := Dial(ctx, cfg)
	if err != nil {
		return nil, err
	}

	authData := &surrealdb.Auth{
		Username: cfg.GetDBUser(),
		Password: cfg.GetDBPass(),
	}
	if _, err = db.SignIn(ctx, authData); err != nil {
		db.Close(ctx)
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	slog.InfoContext(ctx, "Successfully signed in to SurrealDB", "db_url", redactDBURL(cfg.GetDBURL()))
	return db, nil
}

// redactDBURL returns the URL with any password replaced, for logging.
func redactDBURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}
	return parsedURL.Redacted()
}
