package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/apiclient"
	"github.com/GDA-Developers-Hub/victoria-kids-sub001/internal/auth"
)

// LoginResponse is returned by both login endpoints
type LoginResponse struct {
	Token        string    `json:"token"`
	RefreshToken string    `json:"refreshToken,omitempty"`
	User         auth.User `json:"user"`
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthService struct {
	t      Transport
	tokens apiclient.TokenStore
}

// Login signs a storefront user in and stores the returned session.
func (s *AuthService) Login(ctx context.Context, creds auth.Credentials) (*LoginResponse, error) {
	return s.login(ctx, "/auth/login", creds)
}

// AdminLogin signs an administrator in and stores the returned session.
func (s *AuthService) AdminLogin(ctx context.Context, creds auth.Credentials) (*LoginResponse, error) {
	return s.login(ctx, "/auth/admin/login", creds)
}

func (s *AuthService) login(ctx context.Context, path string, creds auth.Credentials) (*LoginResponse, error) {
	res, err := call[LoginResponse](ctx, s.t, http.MethodPost, path, creds, nil)
	if err != nil {
		return nil, err
	}
	if s.tokens != nil {
		user, err := json.Marshal(res.User)
		if err != nil {
			return nil, fmt.Errorf("encode user: %w", err)
		}
		s.tokens.Save(apiclient.StoredSession{Token: res.Token, RefreshToken: res.RefreshToken, User: user})
	}
	return res, nil
}

// Logout drops the stored session. There is no server call.
func (s *AuthService) Logout() {
	if s.tokens != nil {
		s.tokens.Clear()
	}
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodPost, "/auth/register", req, nil)
}

func (s *AuthService) ForgotPassword(ctx context.Context, email string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodPost, "/auth/forgot-password", map[string]string{"email": email}, nil)
}

func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) (json.RawMessage, error) {
	body := map[string]string{"token": token, "newPassword": newPassword}
	return raw(ctx, s.t, http.MethodPost, "/auth/reset-password", body, nil)
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) (json.RawMessage, error) {
	return raw(ctx, s.t, http.MethodGet, "/auth/verify-email/"+seg(token), nil, nil)
}

func (s *AuthService) Profile(ctx context.Context) (*auth.User, error) {
	return call[auth.User](ctx, s.t, http.MethodGet, "/auth/profile", nil, nil)
}

func (s *AuthService) UpdateProfile(ctx context.Context, profile interface{}) (*auth.User, error) {
	return call[auth.User](ctx, s.t, http.MethodPut, "/auth/profile", profile, nil)
}
