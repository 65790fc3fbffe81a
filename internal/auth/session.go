package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"
)

// The single admin account accepted by the development backend.
const (
	AdminEmail    = "admin@victoriakids.com"
	AdminPassword = "admin123"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// Credentials is the login payload
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// User is the identity attached to a session
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

var adminUser = User{ID: "1", Name: "Admin User", Email: AdminEmail, Role: "admin"}

// Authenticate checks creds against the admin account.
func Authenticate(creds Credentials) (*User, error) {
	emailOK := subtle.ConstantTimeCompare([]byte(creds.Email), []byte(AdminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(creds.Password), []byte(AdminPassword)) == 1
	if !emailOK || !passOK {
		return nil, ErrInvalidCredentials
	}
	u := adminUser
	return &u, nil
}

// Session holds the authentication state of one caller. The caller owns
// its lifecycle: create it, Login, Logout.
type Session struct {
	mu   sync.RWMutex
	user *User
}

func NewSession() *Session {
	return &Session{}
}

// SessionFor returns a session already signed in as u, e.g. after a bearer
// token was verified.
func SessionFor(u User) *Session {
	return &Session{user: &u}
}

// Login replaces the session user on success. A failed attempt leaves the
// previous state as it was.
func (s *Session) Login(creds Credentials) (*User, error) {
	u, err := Authenticate(creds)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()

	out := *u
	return &out, nil
}

// Logout always clears the session.
func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
}

func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// CurrentUser returns a copy of the signed-in user, or nil.
func (s *Session) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

type sessionKey struct{}

// WithSession attaches s to ctx.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session carried by ctx, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok && s != nil
}
