package models

import (
	"time"

	"github.com/google/uuid"
)

// Client is a customer record managed from the dashboard.
type Client struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Identifier      string    `json:"identifier" db:"identifier"`
	Name            string    `json:"name" db:"name"`
	Telephone       string    `json:"telephone" db:"telephone"`
	Contact         string    `json:"contact" db:"contact"`
	DirectTelephone string    `json:"directTelephone" db:"direct_telephone"`
	Email           string    `json:"email" db:"email"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}
