package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	signInToken  *Token
	signInErr    error
	refreshToken *Token
	refreshErr   error
	signOutErr   error

	signOutCalls int

	// refreshStarted/refreshRelease let a test hold a refresh in flight.
	refreshStarted chan struct{}
	refreshRelease chan struct{}
}

func (f *fakeAuth) SignIn(ctx context.Context, email, password string) (*Token, error) {
	return f.signInToken, f.signInErr
}

func (f *fakeAuth) SignUp(ctx context.Context, email, password string, data map[string]any) error {
	return nil
}

func (f *fakeAuth) Refresh(ctx context.Context, refreshToken string) (*Token, error) {
	if f.refreshStarted != nil {
		close(f.refreshStarted)
		<-f.refreshRelease
	}
	return f.refreshToken, f.refreshErr
}

func (f *fakeAuth) SignOut(ctx context.Context, accessToken string) error {
	f.signOutCalls++
	return f.signOutErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitWithoutSession(t *testing.T) {
	t.Parallel()

	store := New(&fakeAuth{}, testLogger())
	assert.Equal(t, StateInitializing, store.State())

	store.Init(context.Background(), "")

	assert.Equal(t, StateUnauthenticated, store.State())
}

func TestInitWithInvalidRefreshToken(t *testing.T) {
	t.Parallel()

	store := New(&fakeAuth{refreshErr: errors.New("invalid grant")}, testLogger())
	store.Init(context.Background(), "stale-token")

	// A failed lookup still reaches a terminal state.
	assert.Equal(t, StateUnauthenticated, store.State())
}

func TestSignInTransitionsAndNotifies(t *testing.T) {
	t.Parallel()

	uid := uuid.New()
	auth := &fakeAuth{signInToken: &Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		UserID:       uid,
		Email:        "budi@kampus.ac.id",
	}}
	store := New(auth, testLogger())
	store.Init(context.Background(), "")

	var seen []Snapshot
	unsubscribe := store.Subscribe(func(s Snapshot) { seen = append(seen, s) })
	defer unsubscribe()

	err := store.SignIn(context.Background(), "budi@kampus.ac.id", "secret")
	require.NoError(t, err)

	snap := store.Snapshot()
	assert.Equal(t, StateAuthenticated, snap.State)
	assert.Equal(t, uid, snap.UserID)
	assert.Equal(t, "access", snap.AccessToken)

	require.Len(t, seen, 1)
	assert.Equal(t, StateAuthenticated, seen[0].State)
}

func TestSignInFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	store := New(&fakeAuth{signInErr: errors.New("Invalid login credentials")}, testLogger())
	store.Init(context.Background(), "")

	err := store.SignIn(context.Background(), "budi@kampus.ac.id", "wrong")
	require.Error(t, err)
	assert.Equal(t, StateUnauthenticated, store.State())
}

func TestSignOutClearsSession(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{signInToken: &Token{AccessToken: "access", UserID: uuid.New()}}
	store := New(auth, testLogger())
	store.Init(context.Background(), "")
	require.NoError(t, store.SignIn(context.Background(), "a@b.c", "pw"))

	require.NoError(t, store.SignOut(context.Background()))

	assert.Equal(t, StateUnauthenticated, store.State())
	assert.Equal(t, 1, auth.signOutCalls)
	assert.Empty(t, store.Snapshot().AccessToken)
}

func TestUnsubscribeStopsNotifications(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{signInToken: &Token{AccessToken: "access", UserID: uuid.New()}}
	store := New(auth, testLogger())
	store.Init(context.Background(), "")

	calls := 0
	unsubscribe := store.Subscribe(func(Snapshot) { calls++ })
	unsubscribe()

	require.NoError(t, store.SignIn(context.Background(), "a@b.c", "pw"))
	assert.Zero(t, calls)
}

// A refresh that was issued before a sign-out but resolves after it must not
// resurrect the signed-out session.
func TestStaleRefreshDoesNotOverwriteSignOut(t *testing.T) {
	t.Parallel()

	auth := &fakeAuth{
		signInToken:    &Token{AccessToken: "access", RefreshToken: "refresh", UserID: uuid.New()},
		refreshToken:   &Token{AccessToken: "fresh-access", RefreshToken: "fresh-refresh", UserID: uuid.New()},
		refreshStarted: make(chan struct{}),
		refreshRelease: make(chan struct{}),
	}
	store := New(auth, testLogger())
	store.Init(context.Background(), "")
	require.NoError(t, store.SignIn(context.Background(), "a@b.c", "pw"))

	done := make(chan error, 1)
	go func() { done <- store.Refresh(context.Background()) }()

	<-auth.refreshStarted
	require.NoError(t, store.SignOut(context.Background()))
	close(auth.refreshRelease)
	require.NoError(t, <-done)

	assert.Equal(t, StateUnauthenticated, store.State())
	assert.Empty(t, store.Snapshot().AccessToken)
}
