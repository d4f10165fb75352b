package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Bidon15/piedpiper/internal/models"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateProfileByEmail(ctx context.Context, email string, fields models.ProfileFields) (*models.User, error)
	List(ctx context.Context) ([]*models.User, error)
	WithTx(tx pgx.Tx) UserRepository
}

type userRepo struct {
	db DBTX
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

const userColumns = `id, email, password_hash, first_name, last_name, image, what_theme, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.FirstName,
		&u.LastName,
		&u.Image,
		&u.WhatTheme,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a new user. A duplicate email surfaces as a unique
// violation, see IsUniqueViolation.
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.Image,
		user.WhatTheme,
		user.CreatedAt,
		user.UpdatedAt,
	)
	return err
}

// GetByEmail returns nil, nil when no user has the email.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// UpdateProfileByEmail overwrites the four profile fields and returns the
// updated row, or nil, nil when no user has the email.
func (r *userRepo) UpdateProfileByEmail(ctx context.Context, email string, fields models.ProfileFields) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, image = $4, what_theme = $5, updated_at = NOW()
		WHERE email = $1
		RETURNING `+userColumns,
		email,
		fields.FirstName,
		fields.LastName,
		fields.Image,
		fields.WhatTheme,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

// List returns every user, newest first.
func (r *userRepo) List(ctx context.Context) ([]*models.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// WithTx returns a repository bound to tx.
func (r *userRepo) WithTx(tx pgx.Tx) UserRepository {
	return &userRepo{db: tx}
}
