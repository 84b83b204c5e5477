package auth

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/chalani/chalani/internal/backend"
	"github.com/chalani/chalani/internal/shared"
)

// Backend is the subset of the backend client used for authentication.
type Backend interface {
	PostJSON(ctx context.Context, path string, payload any, dest any) error
	GetJSON(ctx context.Context, path string, query url.Values, dest any) error
}

// Service exchanges credentials for tokens and resolves the current user.
type Service struct {
	backend Backend
}

// NewService constructs a new Service.
func NewService(b Backend) *Service {
	return &Service{backend: b}
}

// Login exchanges username and password for a bearer token.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	var resp loginResponse
	err := s.backend.PostJSON(ctx, "/api/auth/login/", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		if errors.Is(err, backend.ErrValidation) || errors.Is(err, backend.ErrUnauthorized) {
			return "", shared.ErrInvalidCredentials
		}
		return "", err
	}
	token := resp.Access
	if token == "" {
		token = resp.Token
	}
	if token == "" {
		return "", shared.ErrInvalidCredentials
	}
	return token, nil
}

// Me returns the user owning the token carried by ctx.
func (s *Service) Me(ctx context.Context) (shared.CurrentUser, error) {
	var resp meResponse
	if err := s.backend.GetJSON(ctx, "/api/auth/me/", nil, &resp); err != nil {
		return shared.CurrentUser{}, err
	}
	user := resp.CurrentUser
	if resp.Data != nil {
		user = *resp.Data
	}
	if user.ID == 0 && user.Username == "" {
		return shared.CurrentUser{}, shared.ErrUnauthenticated
	}
	user.Role = normalizeRole(user.Role)
	return user, nil
}

// normalizeRole maps unknown roles onto the least privileged one.
func normalizeRole(role string) string {
	role = strings.ToLower(strings.TrimSpace(role))
	switch role {
	case shared.RoleAdmin, shared.RoleStaff, shared.RoleViewer:
		return role
	}
	return shared.RoleViewer
}
