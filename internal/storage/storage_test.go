package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bidon15/piedpiper/internal/config"
)

func TestObjectName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "avatar", want: "avatar.jpg"},
		{in: "avatar.jpg", want: "avatar.jpg"},
		{in: "../../etc/passwd", want: "passwd.jpg"},
		{in: `..\..\win`, want: "win.jpg"},
		{in: "my photo!", want: "my_photo.jpg"},
		{in: "", wantErr: true},
		{in: "..", wantErr: true},
		{in: "/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ObjectName(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLocalStore_Put(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root)
	require.NoError(t, err)

	stored, err := store.Put(context.Background(), "bob", strings.NewReader("jpegdata"), 8, "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "bob.jpg"), stored)

	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "jpegdata", string(data))

	// Overwrites in place and leaves no temp files behind.
	_, err = store.Put(context.Background(), "bob", strings.NewReader("v2"), 2, "image/jpeg")
	require.NoError(t, err)
	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLocalStore_CreatesRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewLocalStore(root)
	require.NoError(t, err)
	assert.DirExists(t, root)
}

type fakePutter struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakePutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	f.body, _ = io.ReadAll(params.Body)
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestS3Store_Put(t *testing.T) {
	putter := &fakePutter{}
	store := &S3Store{client: putter, bucket: "avatars"}

	loc, err := store.Put(context.Background(), "bob", bytes.NewReader([]byte("img")), 3, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "s3://avatars/bob.jpg", loc)
	assert.Equal(t, "avatars", *putter.input.Bucket)
	assert.Equal(t, "bob.jpg", *putter.input.Key)
	assert.Equal(t, "image/png", *putter.input.ContentType)
	assert.Equal(t, []byte("img"), putter.body)
	require.NotNil(t, putter.input.ContentLength)
	assert.EqualValues(t, 3, *putter.input.ContentLength)
}

func TestS3Store_PutError(t *testing.T) {
	store := &S3Store{client: &fakePutter{err: errors.New("denied")}, bucket: "avatars"}

	_, err := store.Put(context.Background(), "bob", bytes.NewReader(nil), 0, "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

func TestNew_UnknownDriver(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
