package auth

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/subhankar021/ShopHub/internal/profile"
	"github.com/subhankar021/ShopHub/internal/snapshot"
)

// SnapshotName is the durable storage namespace for auth state, independent
// of the cart's namespace.
const SnapshotName = "auth-storage"

const (
	profileFetchAttempts = 5
	profileFetchBackoff  = 200 * time.Millisecond
)

// ProfileService is the slice of the profiles repository the store needs.
type ProfileService interface {
	Get(ctx context.Context, id string) (*profile.Profile, error)
	Update(ctx context.Context, id string, fields profile.Fields) error
}

// State is one signed-in session together with its mirrored profile.
type State struct {
	Session *Session  `json:"session"`
	User    *Identity `json:"user"`
}

// Store holds the authenticated identities for active sessions, keyed by
// access token, and persists them so sessions survive a restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*State

	provider Provider
	profiles ProfileService
	snaps    *snapshot.Store
	log      *logrus.Logger

	retryAttempts int
	retryBackoff  time.Duration
}

func NewStore(provider Provider, profiles ProfileService, snaps *snapshot.Store, log *logrus.Logger) *Store {
	return &Store{
		sessions:      make(map[string]*State),
		provider:      provider,
		profiles:      profiles,
		snaps:         snaps,
		log:           log,
		retryAttempts: profileFetchAttempts,
		retryBackoff:  profileFetchBackoff,
	}
}

// Restore loads previously established sessions at startup. Absence or
// failure leaves the store empty.
func (s *Store) Restore() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sessions := make(map[string]*State)
	err := s.snaps.Load(SnapshotName, &sessions)
	if err == snapshot.ErrNotFound {
		return nil
	}
	if err != nil {
		return err
	}
	s.sessions = sessions
	return nil
}

// SignIn exchanges credentials with the provider and mirrors the profile
// row locally. Any failure, including the profile fetch, is reported as
// ErrInvalidCredentials; the detail is logged, not shown.
func (s *Store) SignIn(ctx context.Context, email, password string) (*State, error) {
	session, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		s.log.Warnf("sign in failed for %s: %v", email, err)
		return nil, ErrInvalidCredentials
	}

	p, err := s.profiles.Get(ctx, session.UserID)
	if err != nil {
		s.log.Errorf("profile fetch failed for %s: %v", session.UserID, err)
		return nil, ErrInvalidCredentials
	}

	return s.admit(session, p), nil
}

// SignUp registers a new credential, then fetches the asynchronously
// provisioned profile row with bounded retries.
func (s *Store) SignUp(ctx context.Context, email, password, fullName string) (*State, error) {
	session, err := s.provider.SignUp(ctx, email, password, fullName)
	if err != nil {
		s.log.Warnf("sign up failed for %s: %v", email, err)
		return nil, ErrRegistrationFailed
	}

	p, err := s.fetchProfile(ctx, session.UserID)
	if err != nil {
		s.log.Errorf("profile not provisioned for %s: %v", session.UserID, err)
		return nil, ErrRegistrationFailed
	}

	return s.admit(session, p), nil
}

// SignOut invalidates the remote session and clears the local state. The
// local state is kept when the remote call fails, matching sign-in's
// pessimism about partial state.
func (s *Store) SignOut(ctx context.Context, accessToken string) error {
	if err := s.provider.SignOut(ctx, accessToken); err != nil {
		s.log.Warnf("sign out failed: %v", err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, accessToken)
	s.persist()
	return nil
}

// Identity returns the mirrored identity for the session token, if any.
func (s *Store) Identity(accessToken string) (*Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.sessions[accessToken]
	if !ok {
		return nil, false
	}
	user := *state.User
	return &user, true
}

// UpdateProfile writes the given fields remotely, then merges them into the
// local identity on success.
func (s *Store) UpdateProfile(ctx context.Context, accessToken string, fields profile.Fields) error {
	s.mu.RLock()
	state, ok := s.sessions[accessToken]
	s.mu.RUnlock()
	if !ok {
		return ErrInvalidCredentials
	}

	if err := s.profiles.Update(ctx, state.User.ID, fields); err != nil {
		s.log.Errorf("profile update failed for %s: %v", state.User.ID, err)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for column, value := range fields {
		switch column {
		case "full_name":
			state.User.FullName = value
		case "address":
			state.User.Address = value
		case "phone":
			state.User.Phone = value
		}
	}
	s.persist()
	return nil
}

// MergeAddress updates only the local mirror after an out-of-band profile
// write (the checkout flow writes the row itself).
func (s *Store) MergeAddress(accessToken, address string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := s.sessions[accessToken]; ok {
		state.User.Address = address
		s.persist()
	}
}

func (s *Store) admit(session *Session, p *profile.Profile) *State {
	state := &State{
		Session: session,
		User: &Identity{
			ID:       p.ID,
			Email:    p.Email,
			FullName: p.FullName,
			Address:  p.Address,
			Phone:    p.Phone,
		},
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.AccessToken] = state
	s.persist()
	return state
}

// fetchProfile polls for the profile row the provider provisions out of
// band. Backoff doubles per attempt; the overall budget is bounded.
func (s *Store) fetchProfile(ctx context.Context, userID string) (*profile.Profile, error) {
	backoff := s.retryBackoff

	var lastErr error
	for attempt := 0; attempt < s.retryAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}

		p, err := s.profiles.Get(ctx, userID)
		if err == nil {
			return p, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// persist writes the full snapshot. Caller holds the write lock.
func (s *Store) persist() {
	if err := s.snaps.Save(SnapshotName, s.sessions); err != nil {
		s.log.Errorf("persist auth snapshot: %v", err)
	}
}
