// Package state owns the client-side session state: identity, point
// balance, reward catalog, active-study marker, and the single most
// recent user-facing status message. All mutation goes through Store
// operations; the TUI layer only reads immutable snapshots and
// dispatches operations.
package state

import (
	"context"
	"errors"
	"sync"
	"time"

	"studypoints/pkg/client"
	"studypoints/pkg/domain"
)

var (
	// ErrNoSession is returned when an operation requires an
	// authenticated session and none exists.
	ErrNoSession = errors.New("no active session")

	// ErrInsufficientPoints is returned by the local affordability
	// pre-check before a purchase ever reaches the server.
	ErrInsufficientPoints = errors.New("insufficient points")

	// ErrBusy is returned when the same operation kind is already in
	// flight; the duplicate submit is dropped without touching state.
	ErrBusy = errors.New("operation already in flight")
)

// Fallback status messages, used when the server gave no reason of its own.
const (
	signupFallback     = "sign-up failed"
	loginFallback      = "login failed"
	pointsFallback     = "could not fetch your point balance"
	rewardsFallback    = "could not load the reward store"
	noSessionMsg       = "you are not logged in"
	studyStartFallback = "could not start the study session — one may already be in progress"
	studyEndFallback   = "could not end the study session — no session may be running"
	purchaseFallback   = "purchase failed"
)

// Operation kinds for the in-flight guard.
const (
	opSignup     = "signup"
	opLogin      = "login"
	opStudyStart = "study-start"
	opStudyStop  = "study-stop"
	opPurchase   = "purchase"
)

// Status is the single most recent user-facing outcome message.
// It is overwritten by every operation's outcome, never appended to.
type Status struct {
	Text  string
	IsErr bool
}

// Snapshot is an immutable copy of the store handed to the render layer.
type Snapshot struct {
	LoggedIn       bool
	Username       string
	Points         int
	Rewards        []domain.Reward
	Studying       bool
	StudyStartedAt time.Time
	Status         Status
	Hydrated       bool // post-login points+rewards fetch has completed
}

// Store holds all client-side session state behind one mutex.
// Only Store (and the controllers in this package, through Store's
// own operations) may mutate it.
type Store struct {
	api *client.Client

	mu       sync.Mutex
	session  *domain.Session
	points   int
	rewards  []domain.Reward
	study    *domain.StudySession
	status   Status
	hydrated bool
	inflight map[string]bool
}

// NewStore creates an empty, unauthenticated store over the given gateway.
func NewStore(api *client.Client) *Store {
	return &Store{
		api:      api,
		rewards:  []domain.Reward{},
		inflight: make(map[string]bool),
	}
}

// Snapshot returns a copy of the current state for rendering.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Points:   s.points,
		Rewards:  make([]domain.Reward, len(s.rewards)),
		Status:   s.status,
		Hydrated: s.hydrated,
	}
	copy(snap.Rewards, s.rewards)
	if s.session != nil {
		snap.LoggedIn = true
		snap.Username = s.session.Username
	}
	if s.study != nil {
		snap.Studying = true
		snap.StudyStartedAt = s.study.StartedAt
	}
	return snap
}

// Signup registers a new account. The session is never changed: a fresh
// account still has to log in explicitly.
func (s *Store) Signup(ctx context.Context, creds domain.Credentials) error {
	if !s.begin(opSignup) {
		return ErrBusy
	}
	defer s.end(opSignup)

	msg, err := s.api.Signup(ctx, creds)
	if err != nil {
		s.setStatus(client.Reason(err, signupFallback), true)
		return err
	}
	if msg == "" {
		msg = "account created — log in to continue"
	}
	s.setStatus(msg, false)
	return nil
}

// Login authenticates and, on success, installs the session, clears the
// status, and re-fetches points and rewards as a parallel join. On any
// failure (including a malformed success payload) the session stays
// absent and an auth-failure status is set.
func (s *Store) Login(ctx context.Context, creds domain.Credentials) error {
	if !s.begin(opLogin) {
		return ErrBusy
	}
	defer s.end(opLogin)

	sess, err := s.api.Login(ctx, creds)
	if err != nil {
		s.setStatus(client.Reason(err, loginFallback), true)
		return err
	}

	s.mu.Lock()
	s.session = sess
	s.status = Status{}
	s.hydrated = false
	s.mu.Unlock()
	s.api.SetToken(sess.Token)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.RefreshPoints(ctx) //nolint:errcheck // failure is already surfaced as status
	}()
	go func() {
		defer wg.Done()
		s.RefreshRewards(ctx) //nolint:errcheck // failure is already surfaced as status
	}()
	wg.Wait()

	s.mu.Lock()
	s.hydrated = true
	s.mu.Unlock()
	return nil
}

// Logout returns the store to its initial unauthenticated state.
// Idempotent: calling it on a logged-out store is a no-op.
func (s *Store) Logout() {
	s.api.SetToken("")
	s.mu.Lock()
	s.session = nil
	s.points = 0
	s.rewards = []domain.Reward{}
	s.study = nil
	s.status = Status{}
	s.hydrated = false
	s.mu.Unlock()
}

// RefreshPoints overwrites the cached balance with the server's value.
// Fails loudly when no session exists. A fetch failure keeps the stale
// balance — stale-but-available beats a blanked value.
func (s *Store) RefreshPoints(ctx context.Context) error {
	username, ok := s.currentUsername()
	if !ok {
		s.setStatus(noSessionMsg, true)
		return ErrNoSession
	}

	points, err := s.api.FetchPoints(ctx, username)
	if err != nil {
		s.setStatus(client.Reason(err, pointsFallback), true)
		return err
	}

	s.mu.Lock()
	s.points = points
	s.mu.Unlock()
	return nil
}

// RefreshRewards overwrites the catalog snapshot. Non-array payloads are
// already normalized to an empty catalog by the gateway; only transport
// and server errors surface here, keeping the previous catalog.
func (s *Store) RefreshRewards(ctx context.Context) error {
	rewards, err := s.api.FetchRewards(ctx)
	if err != nil {
		s.setStatus(client.Reason(err, rewardsFallback), true)
		return err
	}

	s.mu.Lock()
	s.rewards = rewards
	s.mu.Unlock()
	return nil
}

// ClearStatus wipes the status message. The error screen's recovery
// action ends up here.
func (s *Store) ClearStatus() {
	s.mu.Lock()
	s.status = Status{}
	s.mu.Unlock()
}

func (s *Store) setStatus(text string, isErr bool) {
	s.mu.Lock()
	s.status = Status{Text: text, IsErr: isErr}
	s.mu.Unlock()
}

func (s *Store) currentUsername() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session == nil {
		return "", false
	}
	return s.session.Username, true
}

func (s *Store) cachedPoints() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.points
}

// markStudyActive records the active-study marker with a display-only
// start instant.
func (s *Store) markStudyActive(start time.Time) {
	s.mu.Lock()
	s.study = &domain.StudySession{StartedAt: start}
	s.mu.Unlock()
}

// clearStudy drops the active-study marker and returns the display-only
// elapsed time, or false when no marker was set.
func (s *Store) clearStudy(now time.Time) (time.Duration, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.study == nil {
		return 0, false
	}
	elapsed := s.study.Elapsed(now)
	s.study = nil
	return elapsed, true
}

// begin claims the in-flight slot for an operation kind. Returns false
// when the same kind is already running, in which case the caller must
// drop the duplicate submit.
func (s *Store) begin(op string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[op] {
		return false
	}
	s.inflight[op] = true
	return true
}

func (s *Store) end(op string) {
	s.mu.Lock()
	delete(s.inflight, op)
	s.mu.Unlock()
}
