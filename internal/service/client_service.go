package service

import (
	"context"
	"fmt"

	"github.com/Bidon15/piedpiper/internal/models"
	apierrors "github.com/Bidon15/piedpiper/internal/pkg/errors"
	"github.com/Bidon15/piedpiper/internal/repository"
)

// ClientService manages client records.
type ClientService interface {
	List(ctx context.Context) ([]*models.Client, error)
	Create(ctx context.Context, req CreateClientRequest) (*models.Client, error)
}

// CreateClientRequest is the request for adding a client.
type CreateClientRequest struct {
	Identifier      string `json:"identifier" validate:"required,max=64"`
	Name            string `json:"name" validate:"required,max=200"`
	Telephone       string `json:"telephone" validate:"max=32"`
	Contact         string `json:"contact" validate:"max=200"`
	DirectTelephone string `json:"directTelephone" validate:"max=32"`
	Email           string `json:"email" validate:"omitempty,email"`
}

type clientService struct {
	clients repository.ClientRepository
}

// NewClientService creates a new client service.
func NewClientService(clients repository.ClientRepository) ClientService {
	return &clientService{clients: clients}
}

func (s *clientService) List(ctx context.Context) ([]*models.Client, error) {
	clients, err := s.clients.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// Create adds a client. A taken identifier yields ErrDuplicateIdentifier
// whether it is seen by the lookup or by the unique index.
func (s *clientService) Create(ctx context.Context, req CreateClientRequest) (*models.Client, error) {
	existing, err := s.clients.GetByIdentifier(ctx, req.Identifier)
	if err != nil {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}
	if existing != nil {
		return nil, apierrors.ErrDuplicateIdentifier
	}

	client := &models.Client{
		Identifier:      req.Identifier,
		Name:            req.Name,
		Telephone:       req.Telephone,
		Contact:         req.Contact,
		DirectTelephone: req.DirectTelephone,
		Email:           req.Email,
	}
	if err := s.clients.Create(ctx, client); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apierrors.ErrDuplicateIdentifier
		}
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}
