// Package service provides business logic implementations.
package service

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// RequestContext carries the caller attributes the auth gate and login
// flow need, detached from the live *http.Request.
type RequestContext struct {
	Token     string
	IP        string
	UserAgent string
}

// Transactor runs fn inside one database transaction.
type Transactor interface {
	InTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}
