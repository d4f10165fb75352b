package service

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bidon15/piedpiper/internal/models"
	apierrors "github.com/Bidon15/piedpiper/internal/pkg/errors"
	"github.com/Bidon15/piedpiper/internal/repository/repotest"
	"github.com/Bidon15/piedpiper/internal/storage"
)

type recordingStore struct {
	name string
	body string
	err  error
}

func (s *recordingStore) Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	data, _ := io.ReadAll(body)
	s.name, s.body = name, string(data)
	return "/uploads/" + name + ".jpg", nil
}

type profileFixture struct {
	users    *repotest.UserRepo
	sessions *repotest.SessionRepo
	images   *recordingStore
	svc      ProfileService
}

func newProfileFixture(t *testing.T) *profileFixture {
	t.Helper()
	f := &profileFixture{
		users:    repotest.NewUserRepo(),
		sessions: repotest.NewSessionRepo(),
		images:   &recordingStore{},
	}
	tx := &repotest.Tx{Users: f.users, Sessions: f.sessions}
	f.svc = NewProfileService(tx, f.users, f.sessions, f.images)

	ctx := context.Background()
	require.NoError(t, f.users.Create(ctx, &models.User{Email: "bob@example.com", PasswordHash: "x"}))
	require.NoError(t, f.sessions.Create(ctx, &models.Session{
		Token: "tok", Email: "bob@example.com", IP: "10.0.0.1", UserAgent: "ua", Valid: true,
	}))
	return f
}

func TestProfileService_SaveProfile_Cascades(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	fields := models.ProfileFields{FirstName: "A", LastName: "B", Image: "img.jpg", WhatTheme: "dark"}
	got, err := f.svc.SaveProfile(ctx, "tok", fields)
	require.NoError(t, err)
	assert.Equal(t, fields, *got)

	session, err := f.sessions.GetByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, fields, session.Profile())
	assert.Equal(t, "10.0.0.1", session.IP)
	assert.Equal(t, "ua", session.UserAgent)
	assert.True(t, session.Valid)

	user, err := f.users.GetByEmail(ctx, session.Email)
	require.NoError(t, err)
	assert.Equal(t, fields, user.Profile())
}

func TestProfileService_SaveProfile_UnknownSession(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	_, err := f.svc.SaveProfile(ctx, "missing", models.ProfileFields{WhatTheme: "dark"})
	apiErr := apierrors.AsAPIError(err)
	assert.Equal(t, 404, apiErr.StatusCode)

	user, err := f.users.GetByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Empty(t, user.WhatTheme)
}

func TestProfileService_SaveProfile_UserWriteFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)
	f.users.FailUpdate = errStore

	_, err := f.svc.SaveProfile(ctx, "tok", models.ProfileFields{WhatTheme: "dark"})
	assert.ErrorIs(t, err, errStore)

	session, err := f.sessions.GetByToken(ctx, "tok")
	require.NoError(t, err)
	assert.Empty(t, session.WhatTheme)
}

func TestProfileService_GetProfile(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	session, err := f.sessions.GetByToken(ctx, "tok")
	require.NoError(t, err)

	profile, err := f.svc.GetProfile(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, models.ProfileFields{}, *profile)

	_, err = f.svc.GetProfile(ctx, &models.Session{Email: "ghost@example.com"})
	assert.Equal(t, 404, apierrors.AsAPIError(err).StatusCode)
}

func TestProfileService_UploadImage(t *testing.T) {
	ctx := context.Background()
	f := newProfileFixture(t)

	path, err := f.svc.UploadImage(ctx, "bob", strings.NewReader("jpeg"), 4, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/bob.jpg", path)
	assert.Equal(t, "jpeg", f.images.body)

	_, err = f.svc.UploadImage(ctx, "", strings.NewReader("jpeg"), 4, "image/jpeg")
	require.NoError(t, err)
	assert.Len(t, f.images.name, 26)

	f.images.err = storage.ErrInvalidName
	_, err = f.svc.UploadImage(ctx, "..", strings.NewReader("jpeg"), 4, "image/jpeg")
	assert.Equal(t, map[string]string{"filename": "Filename is invalid"}, apierrors.AsAPIError(err).Fields)
}
