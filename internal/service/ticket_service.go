package service

import (
	"context"

	"github.com/Bidon15/piedpiper/internal/models"
	"github.com/Bidon15/piedpiper/internal/pkg/ulid"
)

// TicketService composes support ticket messages. Tickets are not stored.
type TicketService interface {
	Create(ctx context.Context, req CreateTicketRequest) *models.TicketMessage
}

// CreateTicketRequest is the request for opening a ticket.
type CreateTicketRequest struct {
	To      string `json:"to" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required"`
}

type ticketService struct {
	from string
}

// NewTicketService creates a ticket service sending from the given address.
func NewTicketService(from string) TicketService {
	return &ticketService{from: from}
}

func (s *ticketService) Create(ctx context.Context, req CreateTicketRequest) *models.TicketMessage {
	return &models.TicketMessage{
		ID:      ulid.New(),
		To:      req.To,
		From:    s.from,
		Subject: req.Subject,
		HTML:    req.Message,
	}
}
