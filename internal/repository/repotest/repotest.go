// Package repotest provides in-memory repositories for tests. They mirror
// the Postgres repositories: lookups of missing rows return nil, nil and
// duplicate keys return a unique violation.
package repotest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Bidon15/piedpiper/internal/models"
	"github.com/Bidon15/piedpiper/internal/repository"
)

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

// UserRepo is an in-memory repository.UserRepository.
type UserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User

	// FailUpdate, when set, is returned by UpdateProfileByEmail.
	FailUpdate error
	// RaceCreate makes the next Create report a unique violation, as if a
	// concurrent insert won.
	RaceCreate bool
}

// NewUserRepo creates an empty repository.
func NewUserRepo() *UserRepo {
	return &UserRepo{users: make(map[string]*models.User)}
}

func (m *UserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RaceCreate {
		m.RaceCreate = false
		return uniqueViolation()
	}
	if _, ok := m.users[user.Email]; ok {
		return uniqueViolation()
	}
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	cp := *user
	m.users[user.Email] = &cp
	return nil
}

func (m *UserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *UserRepo) UpdateProfileByEmail(ctx context.Context, email string, f models.ProfileFields) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailUpdate != nil {
		return nil, m.FailUpdate
	}
	u, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	u.FirstName, u.LastName, u.Image, u.WhatTheme = f.FirstName, f.LastName, f.Image, f.WhatTheme
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (m *UserRepo) List(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

func (m *UserRepo) WithTx(tx pgx.Tx) repository.UserRepository { return m }

// SessionRepo is an in-memory repository.SessionRepository.
type SessionRepo struct {
	mu       sync.Mutex
	sessions map[string]*models.Session

	// FailCreate, when set, is returned by Create.
	FailCreate error
}

// NewSessionRepo creates an empty repository.
func NewSessionRepo() *SessionRepo {
	return &SessionRepo{sessions: make(map[string]*models.Session)}
}

func (m *SessionRepo) Create(ctx context.Context, s *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailCreate != nil {
		return m.FailCreate
	}
	if _, ok := m.sessions[s.Token]; ok {
		return uniqueViolation()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now()
	}
	cp := *s
	m.sessions[s.Token] = &cp
	return nil
}

func (m *SessionRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (m *SessionRepo) UpdateProfile(ctx context.Context, token string, f models.ProfileFields) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[token]
	if !ok {
		return nil, nil
	}
	s.FirstName, s.LastName, s.Image, s.WhatTheme = f.FirstName, f.LastName, f.Image, f.WhatTheme
	cp := *s
	return &cp, nil
}

func (m *SessionRepo) Delete(ctx context.Context, token string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[token]; !ok {
		return 0, nil
	}
	delete(m.sessions, token)
	return 1, nil
}

func (m *SessionRepo) List(ctx context.Context) ([]*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		cp := *s
		cp.Token = ""
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *SessionRepo) WithTx(tx pgx.Tx) repository.SessionRepository { return m }

// Len returns the number of stored sessions.
func (m *SessionRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ClientRepo is an in-memory repository.ClientRepository.
type ClientRepo struct {
	mu      sync.Mutex
	clients map[string]*models.Client

	// RaceCreate makes the next Create report a unique violation.
	RaceCreate bool
}

// NewClientRepo creates an empty repository.
func NewClientRepo() *ClientRepo {
	return &ClientRepo{clients: make(map[string]*models.Client)}
}

func (m *ClientRepo) Create(ctx context.Context, c *models.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RaceCreate {
		m.RaceCreate = false
		return uniqueViolation()
	}
	if _, ok := m.clients[c.Identifier]; ok {
		return uniqueViolation()
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	m.clients[c.Identifier] = &cp
	return nil
}

func (m *ClientRepo) GetByIdentifier(ctx context.Context, identifier string) (*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.clients[identifier]
	if !ok {
		return nil, nil
	}
	cp := *c
	return &cp, nil
}

func (m *ClientRepo) List(ctx context.Context) ([]*models.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Client, 0, len(m.clients))
	for _, c := range m.clients {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Len returns the number of stored clients.
func (m *ClientRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Tx emulates a transaction over a UserRepo and SessionRepo: when fn
// fails, both are restored to their state before InTx.
type Tx struct {
	Users    *UserRepo
	Sessions *SessionRepo
}

func (t *Tx) InTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	users := t.Users.snapshot()
	sessions := t.Sessions.snapshot()

	if err := fn(nil); err != nil {
		t.Users.restore(users)
		t.Sessions.restore(sessions)
		return err
	}
	return nil
}

func (m *UserRepo) snapshot() map[string]models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]models.User, len(m.users))
	for k, v := range m.users {
		out[k] = *v
	}
	return out
}

func (m *UserRepo) restore(snap map[string]models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users = make(map[string]*models.User, len(snap))
	for k, v := range snap {
		v := v
		m.users[k] = &v
	}
}

func (m *SessionRepo) snapshot() map[string]models.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]models.Session, len(m.sessions))
	for k, v := range m.sessions {
		out[k] = *v
	}
	return out
}

func (m *SessionRepo) restore(snap map[string]models.Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = make(map[string]*models.Session, len(snap))
	for k, v := range snap {
		v := v
		m.sessions[k] = &v
	}
}
