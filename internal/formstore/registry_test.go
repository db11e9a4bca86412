package formstore

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/authform/internal/authform"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry() (*Registry, *time.Time) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	svc := authform.AuthenticatorFunc(func(ctx context.Context, creds authform.Credentials) (authform.Result, error) {
		return authform.Result{Outcome: authform.OutcomeLoginFail}, nil
	})
	r := NewRegistry(func(nav authform.Navigator) *authform.Form {
		return authform.New(svc, nav)
	})
	r.now = func() time.Time { return now }
	return r, &now
}

func TestRegistry_MountAndGet(t *testing.T) {
	r, _ := newTestRegistry()

	e := r.Mount()
	require.NotEmpty(t, e.ID)
	require.NotNil(t, e.Form)

	got, ok := r.Get(e.ID)
	require.True(t, ok)
	assert.Same(t, e, got)

	t.Run("navigation reaches the entry recorder", func(t *testing.T) {
		require.NoError(t, e.Form.ForgotPassword())
		route, ok := e.Nav.Take()
		assert.True(t, ok)
		assert.Equal(t, authform.RouteForgotPassword, route)
	})
}

func TestRegistry_GetOrMount(t *testing.T) {
	r, _ := newTestRegistry()

	first, mounted := r.GetOrMount("")
	assert.True(t, mounted)

	again, mounted := r.GetOrMount(first.ID)
	assert.False(t, mounted)
	assert.Same(t, first, again)

	_, mounted = r.GetOrMount("unknown-id")
	assert.True(t, mounted)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_Unmount(t *testing.T) {
	r, _ := newTestRegistry()
	e := r.Mount()

	r.Unmount(e.ID)

	_, ok := r.Get(e.ID)
	assert.False(t, ok)
	assert.False(t, e.Form.Mounted())
	r.Unmount(e.ID)
}

func TestRegistry_Sweep(t *testing.T) {
	r, now := newTestRegistry()
	old := r.Mount()

	*now = now.Add(20 * time.Minute)
	fresh := r.Mount()

	*now = now.Add(15 * time.Minute)
	removed := r.Sweep(30 * time.Minute)

	assert.Equal(t, 1, removed)
	assert.False(t, old.Form.Mounted())
	assert.True(t, fresh.Form.Mounted())
	_, ok := r.Get(fresh.ID)
	assert.True(t, ok)
}

func TestRegistry_RunUnmountsOnShutdown(t *testing.T) {
	r, _ := newTestRegistry()
	e := r.Mount()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.Run(ctx, time.Hour, time.Hour)
		close(done)
	}()
	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.False(t, e.Form.Mounted())
	assert.Zero(t, r.Len())
}

func TestEntry_SubmitAndSettle(t *testing.T) {
	release := make(chan struct{})
	svc := authform.AuthenticatorFunc(func(ctx context.Context, creds authform.Credentials) (authform.Result, error) {
		<-release
		return authform.Result{Outcome: authform.OutcomeLoginOK, Token: "tok"}, nil
	})
	r := NewRegistry(func(nav authform.Navigator) *authform.Form {
		return authform.New(svc, nav)
	})
	e := r.Mount()
	t.Cleanup(func() { r.Unmount(e.ID) })

	e.Form.SetEmail("valid@example.com")
	e.Form.SetPassword("password123")
	_, err := e.Submit()
	require.NoError(t, err)

	snap := e.Settle(context.Background())
	assert.True(t, snap.Submitting(), "settle must not block while the request is in flight")

	_, err = e.Submit()
	assert.ErrorIs(t, err, authform.ErrSubmitInFlight)

	close(release)
	require.Eventually(t, func() bool {
		return !e.Form.Snapshot().Submitting()
	}, 2*time.Second, 5*time.Millisecond)

	snap = e.Settle(context.Background())
	assert.Equal(t, authform.StatusSuccess, snap.Status)
	route, ok := e.Nav.Take()
	assert.True(t, ok)
	assert.Equal(t, authform.RouteMain, route)
}

func TestEntry_SettleRacingSubmit(t *testing.T) {
	svc := authform.AuthenticatorFunc(func(ctx context.Context, creds authform.Credentials) (authform.Result, error) {
		return authform.Result{Outcome: authform.OutcomeLoginOK, Token: "tok"}, nil
	})
	r := NewRegistry(func(nav authform.Navigator) *authform.Form {
		return authform.New(svc, nav)
	})

	for i := 0; i < 200; i++ {
		e := r.Mount()
		e.Form.SetEmail("valid@example.com")
		e.Form.SetPassword("password123")

		submitted := make(chan error, 1)
		go func() {
			_, err := e.Submit()
			submitted <- err
		}()

		// A poll that sees the login resolved must also see its navigation.
		deadline := time.Now().Add(2 * time.Second)
		for {
			snap := e.Settle(context.Background())
			if snap.Status == authform.StatusSuccess {
				require.Equal(t, 1, e.Nav.Count(), "iteration %d", i)
				break
			}
			require.True(t, time.Now().Before(deadline), "iteration %d never resolved", i)
		}
		require.NoError(t, <-submitted)
		r.Unmount(e.ID)
	}
}
