package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jackc/pgx/v5"

	"github.com/Bidon15/piedpiper/internal/models"
	apierrors "github.com/Bidon15/piedpiper/internal/pkg/errors"
	"github.com/Bidon15/piedpiper/internal/pkg/ulid"
	"github.com/Bidon15/piedpiper/internal/repository"
	"github.com/Bidon15/piedpiper/internal/storage"
)

// ProfileService reads and edits the caller's profile.
type ProfileService interface {
	GetProfile(ctx context.Context, session *models.Session) (*models.ProfileFields, error)
	SaveProfile(ctx context.Context, token string, fields models.ProfileFields) (*models.ProfileFields, error)
	UploadImage(ctx context.Context, filename string, body io.Reader, size int64, contentType string) (string, error)
}

// SaveProfileRequest is the request for editing the profile.
type SaveProfileRequest struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Image     string `json:"image" validate:"max=1024"`
	WhatTheme string `json:"whatTheme" validate:"max=32"`
}

// Fields converts the request to profile fields.
func (r SaveProfileRequest) Fields() models.ProfileFields {
	return models.ProfileFields{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Image:     r.Image,
		WhatTheme: r.WhatTheme,
	}
}

type profileService struct {
	tx       Transactor
	users    repository.UserRepository
	sessions repository.SessionRepository
	images   storage.ImageStore
}

// NewProfileService creates a new profile service.
func NewProfileService(
	tx Transactor,
	users repository.UserRepository,
	sessions repository.SessionRepository,
	images storage.ImageStore,
) ProfileService {
	return &profileService{
		tx:       tx,
		users:    users,
		sessions: sessions,
		images:   images,
	}
}

// GetProfile reads the canonical user record behind the session.
func (s *profileService) GetProfile(ctx context.Context, session *models.Session) (*models.ProfileFields, error) {
	user, err := s.users.GetByEmail(ctx, session.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, apierrors.NewNotFoundError("User")
	}
	profile := user.Profile()
	return &profile, nil
}

// SaveProfile updates the session's cached profile, re-reads the session,
// then writes the same values to the user found by the session's email.
// All three steps share one transaction.
func (s *profileService) SaveProfile(ctx context.Context, token string, fields models.ProfileFields) (*models.ProfileFields, error) {
	var updated *models.User

	err := s.tx.InTx(ctx, func(tx pgx.Tx) error {
		sessions := s.sessions.WithTx(tx)
		users := s.users.WithTx(tx)

		session, err := sessions.UpdateProfile(ctx, token, fields)
		if err != nil {
			return fmt.Errorf("failed to update session profile: %w", err)
		}
		if session == nil {
			return apierrors.NewNotFoundError("Session")
		}

		session, err = sessions.GetByToken(ctx, token)
		if err != nil {
			return fmt.Errorf("failed to reload session: %w", err)
		}
		if session == nil {
			return apierrors.NewNotFoundError("Session")
		}

		user, err := users.UpdateProfileByEmail(ctx, session.Email, session.Profile())
		if err != nil {
			return fmt.Errorf("failed to update user profile: %w", err)
		}
		if user == nil {
			return apierrors.NewNotFoundError("User")
		}
		updated = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	profile := updated.Profile()
	return &profile, nil
}

// UploadImage stores the image under filename, or a generated name when
// filename is empty.
func (s *profileService) UploadImage(ctx context.Context, filename string, body io.Reader, size int64, contentType string) (string, error) {
	if filename == "" {
		filename = ulid.New()
	}
	stored, err := s.images.Put(ctx, filename, body, size, contentType)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			return "", apierrors.NewValidationError("filename", "Filename is invalid")
		}
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return stored, nil
}
