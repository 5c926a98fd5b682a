// Package session holds client-side authentication state for the conference
// frontend: the current user, the startup bootstrap flag, and the last
// authentication error. It is the single source of truth consulted by the
// route guard and by views.
package session

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// User is the authenticated account as reported by the server.
type User struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
}

// RegisterInput carries the fields of the public registration form.
type RegisterInput struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Affiliation string `json:"affiliation"`
	Password    string `json:"password"`
}

// AuthAPI is the remote authentication surface the store talks to. The
// credential tying requests to a server session is ambient (a cookie held by
// the HTTP client); the store never sees it.
type AuthAPI interface {
	Me(ctx context.Context) (*User, error)
	Login(ctx context.Context, email, password string) (*User, error)
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Logout(ctx context.Context) error
}

// Snapshot is an immutable view of the session at one point in time.
type Snapshot struct {
	// User is the current authenticated user, nil when not authenticated.
	User *User
	// Bootstrapping is true only from store creation until the first
	// Bootstrap call resolves. While true, an absent User means "not yet
	// known", not "logged out".
	Bootstrapping bool
	// Loading is true while a login or register call is in flight.
	Loading bool
	// LastError is the message from the most recent failed login or
	// register attempt, cleared when a new attempt starts.
	LastError string
}

const (
	loginFallbackMessage    = "Login failed"
	registerFallbackMessage = "Registration failed"
)

// Store is an injectable session container. Construct one per process (or
// per test), subscribe views to it, and mutate it only through its four
// operations.
type Store struct {
	api AuthAPI
	log zerolog.Logger

	mu            sync.Mutex
	user          *User
	bootstrapping bool
	loading       bool
	lastError     string
	subs          map[int]func(Snapshot)
	nextSub       int
}

// NewStore creates a Store in its initial state: no user, bootstrapping.
func NewStore(api AuthAPI, log zerolog.Logger) *Store {
	return &Store{
		api:           api,
		log:           log,
		bootstrapping: true,
		subs:          make(map[int]func(Snapshot)),
	}
}

// Snapshot returns the current session state. The returned user is a copy.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Subscribe registers fn to be called after every state change. The returned
// function cancels the subscription.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
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

// Bootstrap resolves the ambient credential into a user via the "who am I"
// endpoint. Any failure, including "not authenticated", leaves the user
// absent without recording an error: no session is an expected outcome at
// startup, not a fault. Bootstrapping is cleared as the final step and never
// set again; calling Bootstrap more than once is tolerated.
func (s *Store) Bootstrap(ctx context.Context) {
	user, err := s.api.Me(ctx)

	s.mu.Lock()
	if err != nil {
		s.log.Debug().Err(err).Msg("session bootstrap resolved without a user")
		s.user = nil
	} else {
		s.user = user
	}
	s.bootstrapping = false
	s.unlockAndNotify()
}

// Login authenticates with the given credentials. On success the user is
// stored and returned with ok=true. On failure the error message is retained
// in LastError and ok=false is returned; no error escapes to the caller, so
// form views can keep the failed input visible for correction.
func (s *Store) Login(ctx context.Context, email, password string) (*User, bool) {
	s.beginAttempt()

	user, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.failAttempt(err, loginFallbackMessage)
		return nil, false
	}

	s.completeAttempt(user)
	return user, true
}

// Register creates an account and, like Login, establishes a session on
// success.
func (s *Store) Register(ctx context.Context, in RegisterInput) (*User, bool) {
	s.beginAttempt()

	user, err := s.api.Register(ctx, in)
	if err != nil {
		s.failAttempt(err, registerFallbackMessage)
		return nil, false
	}

	s.completeAttempt(user)
	return user, true
}

// Logout revokes the server session best-effort and unconditionally clears
// the local user, so the client never believes it is logged in after the
// user asked to leave.
func (s *Store) Logout(ctx context.Context) {
	if err := s.api.Logout(ctx); err != nil {
		s.log.Warn().Err(err).Msg("logout request failed, clearing local session anyway")
	}

	s.mu.Lock()
	s.user = nil
	s.lastError = ""
	s.loading = false
	s.unlockAndNotify()
}

func (s *Store) beginAttempt() {
	s.mu.Lock()
	s.lastError = ""
	s.loading = true
	s.unlockAndNotify()
}

func (s *Store) failAttempt(err error, fallback string) {
	s.mu.Lock()
	s.lastError = errorMessage(err, fallback)
	s.loading = false
	s.unlockAndNotify()
}

func (s *Store) completeAttempt(user *User) {
	s.mu.Lock()
	s.user = user
	s.loading = false
	s.unlockAndNotify()
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Bootstrapping: s.bootstrapping,
		Loading:       s.loading,
		LastError:     s.lastError,
	}
	if s.user != nil {
		u := *s.user
		snap.User = &u
	}
	return snap
}

// unlockAndNotify releases the lock before invoking subscribers so a
// subscriber may call back into the store.
func (s *Store) unlockAndNotify() {
	snap := s.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}
