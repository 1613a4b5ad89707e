package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// ProvisionFunc creates the server-side profile row for a newly registered
// identity. The dev provider invokes it after ProvisionDelay to imitate the
// hosted service's asynchronous trigger.
type ProvisionFunc func(ctx context.Context, id, email, fullName string) error

// DevProvider is an in-process Provider for local runs and tests: bcrypt
// password hashes, uuid access tokens, no network.
type DevProvider struct {
	mu       sync.Mutex
	users    map[string]*devUser // keyed by email
	sessions map[string]string   // access token -> user id

	provision      ProvisionFunc
	ProvisionDelay time.Duration
}

type devUser struct {
	id           string
	email        string
	fullName     string
	passwordHash []byte
}

func NewDevProvider(provision ProvisionFunc) *DevProvider {
	return &DevProvider{
		users:     make(map[string]*devUser),
		sessions:  make(map[string]string),
		provision: provision,
	}
}

func (p *DevProvider) SignIn(ctx context.Context, email, password string) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	user, ok := p.users[email]
	if !ok {
		return nil, errors.New("unknown email")
	}
	if err := bcrypt.CompareHashAndPassword(user.passwordHash, []byte(password)); err != nil {
		return nil, errors.New("password mismatch")
	}

	return p.newSession(user), nil
}

func (p *DevProvider) SignUp(ctx context.Context, email, password, fullName string) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.users[email]; exists {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &devUser{
		id:           uuid.NewString(),
		email:        email,
		fullName:     fullName,
		passwordHash: hash,
	}
	p.users[email] = user

	// The hosted service provisions the profile row out of band; imitate
	// that so the signup retry path gets exercised.
	if p.provision != nil {
		delay := p.ProvisionDelay
		go func() {
			if delay > 0 {
				time.Sleep(delay)
			}
			_ = p.provision(context.Background(), user.id, user.email, user.fullName)
		}()
	}

	return p.newSession(user), nil
}

func (p *DevProvider) SignOut(ctx context.Context, accessToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.sessions[accessToken]; !ok {
		return errors.New("unknown session")
	}
	delete(p.sessions, accessToken)
	return nil
}

// newSession issues a fresh token. Caller holds the lock.
func (p *DevProvider) newSession(user *devUser) *Session {
	token := uuid.NewString()
	p.sessions[token] = user.id
	return &Session{
		AccessToken: token,
		UserID:      user.id,
		Email:       user.email,
		ExpiresAt:   time.Now().Add(24 * time.Hour),
	}
}
