// Package session owns the process-wide "who is signed in" state. Every
// consumer reads it through Snapshot or a subscription; every mutation funnels
// through SignIn/SignUp/SignOut/Refresh so local state can never diverge from
// what the auth backend reports.
package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// State is the lifecycle position of the store.
type State int

const (
	// StateInitializing means the existing-session lookup has not finished.
	StateInitializing State = iota
	// StateUnauthenticated means no valid session exists.
	StateUnauthenticated
	// StateAuthenticated means a session and user are present.
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateInitializing:
		return "initializing"
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Token is the session material handed back by the auth backend.
type Token struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	UserID       uuid.UUID
	Email        string
}

// AuthClient is the narrow auth surface the store drives. The production
// implementation wraps gotrue; tests substitute fakes.
type AuthClient interface {
	SignIn(ctx context.Context, email, password string) (*Token, error)
	SignUp(ctx context.Context, email, password string, data map[string]any) error
	Refresh(ctx context.Context, refreshToken string) (*Token, error)
	SignOut(ctx context.Context, accessToken string) error
}

// Snapshot is an immutable view of the store handed to readers and listeners.
type Snapshot struct {
	State        State
	UserID       uuid.UUID
	Email        string
	AccessToken  string
	RefreshToken string
}

// Store is the single source of truth for the current identity. All
// transitions are serialized under one mutex and tagged with a generation so a
// slow backend response resolving after a newer operation cannot overwrite the
// newer state.
type Store struct {
	auth   AuthClient
	logger *slog.Logger

	mu       sync.Mutex
	state    State
	snap     Snapshot
	lastGen  uint64
	genSeq   uint64
	subs     map[int]func(Snapshot)
	nextSub  int
	closed   bool
}

// New returns a store in StateInitializing. Call Init to reach a terminal
// state.
func New(auth AuthClient, logger *slog.Logger) *Store {
	return &Store{
		auth:   auth,
		logger: logger,
		state:  StateInitializing,
		snap:   Snapshot{State: StateInitializing},
		subs:   make(map[int]func(Snapshot)),
	}
}

// Subscribe registers a listener for session changes and returns its release
// func. Listeners must be released when their owning scope goes away, otherwise
// stale handlers pile up across remounts.
func (s *Store) Subscribe(fn func(Snapshot)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Snapshot returns the current view of the session.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// State returns the current lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Init resolves any existing session. With no refresh token the store lands in
// StateUnauthenticated immediately; with one, the token is exchanged and a
// failed exchange also lands in StateUnauthenticated. The store always reaches
// a terminal state.
func (s *Store) Init(ctx context.Context, refreshToken string) {
	gen := s.begin()
	if refreshToken == "" {
		s.apply(gen, Snapshot{State: StateUnauthenticated})
		return
	}

	tok, err := s.auth.Refresh(ctx, refreshToken)
	if err != nil {
		s.logger.Info("no existing session", "error", err)
		s.apply(gen, Snapshot{State: StateUnauthenticated})
		return
	}
	s.apply(gen, snapshotFor(tok))
}

// SignIn exchanges credentials for a session. On failure the error is returned
// for display and the state is left untouched.
func (s *Store) SignIn(ctx context.Context, email, password string) error {
	gen := s.begin()
	tok, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	s.apply(gen, snapshotFor(tok))
	return nil
}

// SignUp registers a new account. Supabase only hands out a session once the
// email is confirmed, so a successful sign-up does not transition the store;
// the caller signs in afterwards.
func (s *Store) SignUp(ctx context.Context, email, password string, data map[string]any) error {
	return s.auth.SignUp(ctx, email, password, data)
}

// SignOut revokes the session with the backend and clears local state. Local
// state is cleared even when revocation fails, since the caller is done with
// this identity either way.
func (s *Store) SignOut(ctx context.Context) error {
	s.mu.Lock()
	accessToken := s.snap.AccessToken
	s.mu.Unlock()

	gen := s.begin()
	var err error
	if accessToken != "" {
		err = s.auth.SignOut(ctx, accessToken)
		if err != nil {
			s.logger.Info("sign-out revocation failed", "error", err)
		}
	}
	s.apply(gen, Snapshot{State: StateUnauthenticated})
	return err
}

// Refresh exchanges the current refresh token for a fresh session. A refresh
// that resolves after a later operation (e.g. sign-out) is dropped by the
// generation check inside apply.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	refreshToken := s.snap.RefreshToken
	s.mu.Unlock()

	gen := s.begin()
	tok, err := s.auth.Refresh(ctx, refreshToken)
	if err != nil {
		return err
	}
	s.apply(gen, snapshotFor(tok))
	return nil
}

// Close releases all listeners. Further notifications stop; state reads keep
// working.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.subs = make(map[int]func(Snapshot))
	s.mu.Unlock()
}

// begin allocates the generation for an operation at the moment it is issued.
func (s *Store) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.genSeq++
	return s.genSeq
}

// apply installs a snapshot unless a later-issued operation already completed.
func (s *Store) apply(gen uint64, snap Snapshot) {
	s.mu.Lock()
	if gen <= s.lastGen {
		s.mu.Unlock()
		s.logger.Debug("dropping stale session transition", "generation", gen)
		return
	}
	s.lastGen = gen
	s.state = snap.State
	s.snap = snap

	listeners := make([]func(Snapshot), 0, len(s.subs))
	if !s.closed {
		for _, fn := range s.subs {
			listeners = append(listeners, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
}

func snapshotFor(tok *Token) Snapshot {
	return Snapshot{
		State:        StateAuthenticated,
		UserID:       tok.UserID,
		Email:        tok.Email,
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
	}
}
