package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Bidon15/piedpiper/internal/models"
)

// ClientRepository defines the interface for client data operations.
type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByIdentifier(ctx context.Context, identifier string) (*models.Client, error)
	List(ctx context.Context) ([]*models.Client, error)
}

type clientRepo struct {
	db DBTX
}

// NewClientRepository creates a new client repository.
func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepo{db: db}
}

const clientColumns = `id, identifier, name, telephone, contact, direct_telephone, email, created_at, updated_at`

func scanClient(row pgx.Row) (*models.Client, error) {
	var c models.Client
	err := row.Scan(
		&c.ID,
		&c.Identifier,
		&c.Name,
		&c.Telephone,
		&c.Contact,
		&c.DirectTelephone,
		&c.Email,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts a new client.
func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	now := time.Now()
	client.CreatedAt = now
	client.UpdatedAt = now

	_, err := r.db.Exec(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		client.ID,
		client.Identifier,
		client.Name,
		client.Telephone,
		client.Contact,
		client.DirectTelephone,
		client.Email,
		client.CreatedAt,
		client.UpdatedAt,
	)
	return err
}

// GetByIdentifier returns nil, nil when no client has the identifier.
func (r *clientRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE identifier = $1`, identifier))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

// List returns all clients ordered by name.
func (r *clientRepo) List(ctx context.Context) ([]*models.Client, error) {
	rows, err := r.db.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := []*models.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}
