package apiclient

import (
	"encoding/json"
	"strings"
	"sync"
)

// StoredSession is the client-side auth state persisted between requests.
type StoredSession struct {
	Token        string          `json:"token"`
	RefreshToken string          `json:"refreshToken"`
	User         json.RawMessage `json:"user,omitempty"`
}

// TokenStore persists StoredSession. Clear drops all three fields together.
type TokenStore interface {
	Load() StoredSession
	Save(StoredSession)
	Clear()
}

// MemoryTokenStore is a TokenStore for CLIs and tests.
type MemoryTokenStore struct {
	mu sync.RWMutex
	s  StoredSession
}

func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (m *MemoryTokenStore) Load() StoredSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.s
}

func (m *MemoryTokenStore) Save(s StoredSession) {
	m.mu.Lock()
	m.s = s
	m.mu.Unlock()
}

func (m *MemoryTokenStore) Clear() {
	m.mu.Lock()
	m.s = StoredSession{}
	m.mu.Unlock()
}

// LevelError is the level passed to Policy.Notify.
const LevelError = "error"

const (
	msgSessionExpired = "Your session has expired. Please log in again."
	msgServerError    = "Server error. Please try again later."
)

// Policy receives the side effects of response interception. Every field
// is optional.
type Policy struct {
	// CurrentLocation reports where the caller is, e.g. "/admin/products".
	// When nil the request path is used instead.
	CurrentLocation func() string
	// OnSessionExpired is called after a 401 with the login route to go to.
	OnSessionExpired func(loginRoute string)
	// Notify surfaces a user-visible message.
	Notify func(level, message string)
}

func (p Policy) notify(level, message string) {
	if p.Notify != nil {
		p.Notify(level, message)
	}
}

// LoginRoute picks the admin or storefront login page for a location.
func LoginRoute(location string) string {
	if location == "/admin" || strings.HasPrefix(location, "/admin/") {
		return "/admin/login"
	}
	return "/login"
}

func isLoginPage(location string) bool {
	return location == "/login" || location == "/admin/login"
}

// publicAuthPaths never carry a bearer token.
var publicAuthPaths = map[string]bool{
	"/auth/login":           true,
	"/auth/admin/login":     true,
	"/auth/register":        true,
	"/auth/forgot-password": true,
	"/auth/reset-password":  true,
}

const verifyEmailPrefix = "/auth/verify-email/"

// IsPublicAuthPath reports whether path is one of the unauthenticated
// auth endpoints.
func IsPublicAuthPath(path string) bool {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	return publicAuthPaths[path] || strings.HasPrefix(path, verifyEmailPrefix)
}
