package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Bidon15/piedpiper/internal/models"
	"github.com/Bidon15/piedpiper/internal/repository"
)

// CountRows pairs a row set with its size.
type CountRows[T any] struct {
	Count int `json:"count"`
	Rows  []T `json:"rows"`
}

// SessionSummary is the stats view of a live session. The IP and user
// agent a session is bound to stay out of it.
type SessionSummary struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// Stats is the dashboard summary.
type Stats struct {
	NumberOfUsers  CountRows[*models.User]   `json:"numberOfUsers"`
	NumberLoggedIn CountRows[SessionSummary] `json:"numberLoggedIn"`
}

// StatsService reports registered users and live sessions.
type StatsService interface {
	Stats(ctx context.Context) (*Stats, error)
}

type statsService struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
}

// NewStatsService creates a new stats service.
func NewStatsService(users repository.UserRepository, sessions repository.SessionRepository) StatsService {
	return &statsService{users: users, sessions: sessions}
}

func (s *statsService) Stats(ctx context.Context) (*Stats, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	sessions, err := s.sessions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]SessionSummary, len(sessions))
	for i, sess := range sessions {
		summaries[i] = SessionSummary{Email: sess.Email, CreatedAt: sess.CreatedAt}
	}

	return &Stats{
		NumberOfUsers:  CountRows[*models.User]{Count: len(users), Rows: users},
		NumberLoggedIn: CountRows[SessionSummary]{Count: len(summaries), Rows: summaries},
	}, nil
}
