package storage

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *LocalStorage {
	s, err := NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)
	return s
}

func TestLocalStorage_UploadDownload(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	path, err := s.Upload(ctx, strings.NewReader("hello"), "justifications/emp-1/note.pdf", "application/pdf")
	require.NoError(t, err)
	assert.Equal(t, "justifications/emp-1/note.pdf", path)

	exists, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.True(t, exists)

	rc, err := s.Download(ctx, path)
	require.NoError(t, err)
	defer rc.Close()
	content, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestLocalStorage_Delete(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	path, err := s.Upload(ctx, strings.NewReader("bye"), "tmp/file.txt", "text/plain")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, path))

	exists, err := s.Exists(ctx, path)
	require.NoError(t, err)
	assert.False(t, exists)

	// deleting a missing file is not an error
	assert.NoError(t, s.Delete(ctx, path))
}

func TestLocalStorage_GetURL(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	url, err := s.GetURL(ctx, "justifications/emp-1/note.pdf", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/justifications/emp-1/note.pdf", url)
}

func TestLocalStorage_RejectsTraversal(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)

	_, err := s.Upload(ctx, strings.NewReader("x"), "../../etc/passwd", "text/plain")
	assert.Error(t, err)

	_, err = s.Download(ctx, "../secret")
	assert.Error(t, err)
}
