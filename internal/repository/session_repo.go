package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/Bidon15/piedpiper/internal/models"
)

// SessionRepository is the registry of token bindings.
type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	UpdateProfile(ctx context.Context, token string, fields models.ProfileFields) (*models.Session, error)
	Delete(ctx context.Context, token string) (int64, error)
	List(ctx context.Context) ([]*models.Session, error)
	WithTx(tx pgx.Tx) SessionRepository
}

type sessionRepo struct {
	db DBTX
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db DBTX) SessionRepository {
	return &sessionRepo{db: db}
}

// hashToken keys sessions by digest so stored rows are not usable bearer
// tokens.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

const sessionColumns = `email, ip, user_agent, valid, first_name, last_name, image, what_theme, expires_at, created_at`

func scanSession(row pgx.Row) (*models.Session, error) {
	var s models.Session
	err := row.Scan(
		&s.Email,
		&s.IP,
		&s.UserAgent,
		&s.Valid,
		&s.FirstName,
		&s.LastName,
		&s.Image,
		&s.WhatTheme,
		&s.ExpiresAt,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts one session row. Existing sessions for the same email are
// left alone.
func (r *sessionRepo) Create(ctx context.Context, session *models.Session) error {
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO sessions (token_hash, `+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		hashToken(session.Token),
		session.Email,
		session.IP,
		session.UserAgent,
		session.Valid,
		session.FirstName,
		session.LastName,
		session.Image,
		session.WhatTheme,
		session.ExpiresAt,
		session.CreatedAt,
	)
	return err
}

// GetByToken returns nil, nil when no session exists for token.
func (r *sessionRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	s, err := scanSession(r.db.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token_hash = $1`, hashToken(token)))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Token = token
	return s, nil
}

// UpdateProfile overwrites the cached profile fields only. Returns nil, nil
// when no session exists for token.
func (r *sessionRepo) UpdateProfile(ctx context.Context, token string, fields models.ProfileFields) (*models.Session, error) {
	s, err := scanSession(r.db.QueryRow(ctx, `
		UPDATE sessions
		SET first_name = $2, last_name = $3, image = $4, what_theme = $5
		WHERE token_hash = $1
		RETURNING `+sessionColumns,
		hashToken(token),
		fields.FirstName,
		fields.LastName,
		fields.Image,
		fields.WhatTheme,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.Token = token
	return s, nil
}

// Delete hard-deletes the session and reports how many rows went away.
// Deleting an unknown token is not an error.
func (r *sessionRepo) Delete(ctx context.Context, token string) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token_hash = $1`, hashToken(token))
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// List returns every live session, newest first.
func (r *sessionRepo) List(ctx context.Context) ([]*models.Session, error) {
	rows, err := r.db.Query(ctx, `SELECT `+sessionColumns+` FROM sessions ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []*models.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}

// WithTx returns a repository bound to tx.
func (r *sessionRepo) WithTx(tx pgx.Tx) SessionRepository {
	return &sessionRepo{db: tx}
}
