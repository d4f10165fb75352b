package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Bidon15/piedpiper/internal/auth"
	apierrors "github.com/Bidon15/piedpiper/internal/pkg/errors"
	"github.com/Bidon15/piedpiper/internal/repository/repotest"
)

type authFixture struct {
	users    *repotest.UserRepo
	sessions *repotest.SessionRepo
	signer   *auth.JWTSigner
	svc      AuthService
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		users:    repotest.NewUserRepo(),
		sessions: repotest.NewSessionRepo(),
		signer:   auth.NewJWTSigner("secret", 24*time.Hour),
	}
	f.svc = NewAuthService(f.users, f.sessions, auth.NewBcryptHasher(bcrypt.MinCost), f.signer)
	return f
}

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	user, err := f.svc.Register(ctx, RegisterRequest{Email: "bob@example.com", Password: "secret", FirstName: "Bob"})
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", user.Email)

	stored, err := f.users.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.NotEqual(t, "secret", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret")))
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	_, err := f.svc.Register(ctx, RegisterRequest{Email: "bob@example.com", Password: "secret"})
	require.NoError(t, err)

	_, err = f.svc.Register(ctx, RegisterRequest{Email: "bob@example.com", Password: "other"})
	assert.Same(t, apierrors.ErrDuplicateEmail, err)
}

func TestAuthService_Register_ConcurrentDuplicate(t *testing.T) {
	f := newAuthFixture()
	f.users.RaceCreate = true

	_, err := f.svc.Register(context.Background(), RegisterRequest{Email: "bob@example.com", Password: "secret"})
	assert.Same(t, apierrors.ErrDuplicateEmail, err)
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	_, err := f.svc.Register(ctx, RegisterRequest{Email: "bob@example.com", Password: "secret"})
	require.NoError(t, err)

	rc := RequestContext{IP: "10.0.0.1", UserAgent: "Mozilla/5.0"}
	res, err := f.svc.Login(ctx, rc, LoginRequest{Email: "bob@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.True(t, strings.HasPrefix(res.Token, "Bearer "))

	raw := strings.TrimPrefix(res.Token, "Bearer ")
	_, err = f.signer.Verify(raw)
	require.NoError(t, err)

	assert.Equal(t, 1, f.sessions.Len())
	session, err := f.sessions.GetByToken(ctx, raw)
	require.NoError(t, err)
	require.NotNil(t, session)
	assert.Equal(t, "10.0.0.1", session.IP)
	assert.Equal(t, "Mozilla/5.0", session.UserAgent)
	assert.Equal(t, "bob@example.com", session.Email)
	assert.True(t, session.Valid)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), session.ExpiresAt, 5*time.Second)
}

func TestAuthService_Login_EachLoginCreatesSession(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	_, err := f.svc.Register(ctx, RegisterRequest{Email: "bob@example.com", Password: "secret"})
	require.NoError(t, err)

	rc := RequestContext{IP: "10.0.0.1", UserAgent: "Mozilla/5.0"}
	for i := 0; i < 3; i++ {
		_, err := f.svc.Login(ctx, rc, LoginRequest{Email: "bob@example.com", Password: "secret"})
		require.NoError(t, err)
	}
	assert.Equal(t, 3, f.sessions.Len())
}

func TestAuthService_Login_Failures(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	_, err := f.svc.Register(ctx, RegisterRequest{Email: "bob@example.com", Password: "secret"})
	require.NoError(t, err)

	rc := RequestContext{IP: "10.0.0.1", UserAgent: "Mozilla/5.0"}

	_, err = f.svc.Login(ctx, rc, LoginRequest{Email: "alice@example.com", Password: "secret"})
	assert.Same(t, apierrors.ErrEmailNotFound, err)

	_, err = f.svc.Login(ctx, rc, LoginRequest{Email: "bob@example.com", Password: "wrong"})
	assert.Same(t, apierrors.ErrPasswordIncorrect, err)

	assert.Equal(t, 0, f.sessions.Len())
}

func TestAuthService_Login_SessionWriteFails(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	_, err := f.svc.Register(ctx, RegisterRequest{Email: "bob@example.com", Password: "secret"})
	require.NoError(t, err)
	f.sessions.FailCreate = errStore

	res, err := f.svc.Login(ctx, RequestContext{}, LoginRequest{Email: "bob@example.com", Password: "secret"})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, errStore)
}

func TestAuthService_Logout_Idempotent(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	_, err := f.svc.Register(ctx, RegisterRequest{Email: "bob@example.com", Password: "secret"})
	require.NoError(t, err)
	res, err := f.svc.Login(ctx, RequestContext{IP: "1.1.1.1", UserAgent: "ua"}, LoginRequest{Email: "bob@example.com", Password: "secret"})
	require.NoError(t, err)
	raw := strings.TrimPrefix(res.Token, "Bearer ")

	n, err := f.svc.Logout(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = f.svc.Logout(ctx, raw)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	n, err = f.svc.Logout(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	s, err := f.sessions.GetByToken(ctx, raw)
	require.NoError(t, err)
	assert.Nil(t, s)
}
