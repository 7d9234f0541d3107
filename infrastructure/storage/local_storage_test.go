package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filestore/domain/ports"
)

func newTestLocalStorage(t *testing.T) (ports.StoragePort, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewLocalStorage(LocalStorageConfig{
		BasePath: dir,
		BaseURL:  "http://localhost:8080/files/",
	})
	require.NoError(t, err)
	return store, dir
}

func TestLocalStorage_UploadAndExists(t *testing.T) {
	store, dir := newTestLocalStorage(t)

	err := store.UploadFile(strings.NewReader("hello"), "uploads/a/b.txt", "text/plain", ports.VisibilityPublic)
	require.NoError(t, err)

	exists, err := store.FileExists("uploads/a/b.txt")
	require.NoError(t, err)
	assert.True(t, exists)

	data, err := os.ReadFile(filepath.Join(dir, "uploads", "a", "b.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestLocalStorage_ExistsMissing(t *testing.T) {
	store, _ := newTestLocalStorage(t)

	exists, err := store.FileExists("uploads/nope.txt")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalStorage_DeleteRemovesFileAndEmptyDirs(t *testing.T) {
	store, dir := newTestLocalStorage(t)

	require.NoError(t, store.UploadFile(strings.NewReader("x"), "uploads/deep/nested/file.txt", "text/plain", ports.VisibilityPrivate))
	require.NoError(t, store.DeleteFile("uploads/deep/nested/file.txt"))

	exists, err := store.FileExists("uploads/deep/nested/file.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	// empty parent directories are swept away, basePath stays
	_, err = os.Stat(filepath.Join(dir, "uploads"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(dir)
	assert.NoError(t, err)
}

func TestLocalStorage_DeleteMissingIsNoop(t *testing.T) {
	store, _ := newTestLocalStorage(t)
	assert.NoError(t, store.DeleteFile("uploads/never-existed.txt"))
}

func TestLocalStorage_DeleteKeepsNonEmptyDirs(t *testing.T) {
	store, dir := newTestLocalStorage(t)

	require.NoError(t, store.UploadFile(strings.NewReader("a"), "uploads/keep/a.txt", "text/plain", ports.VisibilityPublic))
	require.NoError(t, store.UploadFile(strings.NewReader("b"), "uploads/keep/b.txt", "text/plain", ports.VisibilityPublic))
	require.NoError(t, store.DeleteFile("uploads/keep/a.txt"))

	_, err := os.Stat(filepath.Join(dir, "uploads", "keep", "b.txt"))
	assert.NoError(t, err)
}

func TestLocalStorage_GetFileURL(t *testing.T) {
	store, _ := newTestLocalStorage(t)

	assert.Equal(t, "http://localhost:8080/files/uploads/pic.png", store.GetFileURL("uploads/pic.png"))
	assert.Equal(t, "http://localhost:8080/files/uploads/pic.png", store.GetFileURL("/uploads/pic.png"))
}

func TestLocalStorage_PresignNotSupported(t *testing.T) {
	store, _ := newTestLocalStorage(t)

	_, err := store.PresignUpload("uploads/pic.png", ports.VisibilityPublic, time.Hour)
	assert.ErrorIs(t, err, ports.ErrNotSupported)

	_, err = store.PresignDownload("uploads/pic.png", true, "pic.png", time.Minute)
	assert.ErrorIs(t, err, ports.ErrNotSupported)
}

func TestLocalStorage_ProviderName(t *testing.T) {
	store, _ := newTestLocalStorage(t)
	assert.Equal(t, "local", store.GetProviderName())
}
