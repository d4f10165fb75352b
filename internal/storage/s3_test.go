package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bidon15/piedpiper/internal/config"
)

// objectServer accepts PutObject requests on a plain-HTTP endpoint, the
// way a local MinIO does.
type objectServer struct {
	mu            sync.Mutex
	method        string
	path          string
	contentLength int64
	contentType   string
	body          []byte
}

func (s *objectServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.method = r.Method
	s.path = r.URL.Path
	s.contentLength = r.ContentLength
	s.contentType = r.Header.Get("Content-Type")
	s.body = body
	s.mu.Unlock()

	w.Header().Set("ETag", `"d41d8cd98f00b204e9800998ecf8427e"`)
	w.WriteHeader(http.StatusOK)
}

func TestS3Store_PutOverPlainHTTP(t *testing.T) {
	objects := &objectServer{}
	srv := httptest.NewServer(objects)
	defer srv.Close()

	store, err := NewS3Store(context.Background(), config.StorageConfig{
		Driver:      "s3",
		S3Bucket:    "avatars",
		S3Region:    "us-east-1",
		S3Endpoint:  srv.URL,
		S3AccessKey: "piedpiper",
		S3SecretKey: "piedpiper-secret",
	})
	require.NoError(t, err)

	// Uploads reach the store as the multipart temp file.
	data := append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 4096)...)
	path := filepath.Join(t.TempDir(), "upload")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	loc, err := store.Put(context.Background(), "bob", f, int64(len(data)), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "s3://avatars/bob.jpg", loc)

	objects.mu.Lock()
	defer objects.mu.Unlock()
	assert.Equal(t, http.MethodPut, objects.method)
	assert.Equal(t, "/avatars/bob.jpg", objects.path)
	assert.EqualValues(t, len(data), objects.contentLength)
	assert.Equal(t, "image/png", objects.contentType)
	assert.Equal(t, data, objects.body)
}
