package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Bidon15/piedpiper/internal/auth"
	"github.com/Bidon15/piedpiper/internal/models"
	apierrors "github.com/Bidon15/piedpiper/internal/pkg/errors"
	"github.com/Bidon15/piedpiper/internal/repository"
)

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// AuthService handles registration, login and logout.
type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*models.User, error)
	Login(ctx context.Context, rc RequestContext, req LoginRequest) (*LoginResult, error)
	Logout(ctx context.Context, token string) (int64, error)
}

// RegisterRequest is the request for creating an account.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Password2 string `json:"password2" validate:"omitempty,eqfield=Password"`
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
}

// LoginRequest is the request for logging in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult is returned to the client after a successful login.
type LoginResult struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	Theme   string `json:"theme"`
}

type authService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	hasher   auth.PasswordHasher
	signer   auth.TokenSigner
}

// NewAuthService creates a new auth service.
func NewAuthService(
	users repository.UserRepository,
	sessions repository.SessionRepository,
	hasher auth.PasswordHasher,
	signer auth.TokenSigner,
) AuthService {
	return &authService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		signer:   signer,
	}
}

// Register stores a new user with a hashed password.
func (s *authService) Register(ctx context.Context, req RegisterRequest) (*models.User, error) {
	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if existing != nil {
		return nil, apierrors.ErrDuplicateEmail
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return nil, apierrors.NewValidationError("password", "Password must be at most 72 bytes")
		}
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierrors.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Login verifies credentials, issues a token and binds it to the caller's
// IP and user agent with a new session.
func (s *authService) Login(ctx context.Context, rc RequestContext, req LoginRequest) (*LoginResult, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, apierrors.ErrEmailNotFound
	}

	if err := s.hasher.Verify(req.Password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apierrors.ErrPasswordIncorrect
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	token, expiresAt, err := s.signer.Sign(user.ID.String(), user.DisplayName())
	if err != nil {
		return nil, err
	}

	session := &models.Session{
		Token:     token,
		Email:     user.Email,
		IP:        rc.IP,
		UserAgent: rc.UserAgent,
		Valid:     true,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Image:     user.Image,
		WhatTheme: user.WhatTheme,
		ExpiresAt: expiresAt,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &LoginResult{
		Success: true,
		Token:   BearerPrefix + token,
		Theme:   user.WhatTheme,
	}, nil
}

// Logout deletes the session for token. Unknown or empty tokens are a
// no-op.
func (s *authService) Logout(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, nil
	}
	n, err := s.sessions.Delete(ctx, token)
	if err != nil {
		return 0, fmt.Errorf("failed to delete session: %w", err)
	}
	return n, nil
}
