package service

import (
	"context"
	"fmt"

	"github.com/Bidon15/piedpiper/internal/auth"
	"github.com/Bidon15/piedpiper/internal/models"
	apierrors "github.com/Bidon15/piedpiper/internal/pkg/errors"
	"github.com/Bidon15/piedpiper/internal/repository"
)

// Gate decides whether a privileged request may proceed.
type Gate interface {
	// Authorize returns the caller's session, or ErrUnauthenticated,
	// ErrSessionNotFound or ErrSessionMismatch. It never writes.
	Authorize(ctx context.Context, rc RequestContext) (*models.Session, error)
}

type gate struct {
	signer   auth.TokenSigner
	sessions repository.SessionRepository
}

// NewGate creates the auth gate.
func NewGate(signer auth.TokenSigner, sessions repository.SessionRepository) Gate {
	return &gate{signer: signer, sessions: sessions}
}

func (g *gate) Authorize(ctx context.Context, rc RequestContext) (*models.Session, error) {
	if rc.Token == "" {
		return nil, apierrors.ErrUnauthenticated
	}
	if _, err := g.signer.Verify(rc.Token); err != nil {
		return nil, apierrors.ErrUnauthenticated
	}

	session, err := g.sessions.GetByToken(ctx, rc.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return nil, apierrors.ErrSessionNotFound
	}

	if !session.Matches(rc.IP, rc.UserAgent) {
		return nil, apierrors.ErrSessionMismatch
	}
	return session, nil
}
