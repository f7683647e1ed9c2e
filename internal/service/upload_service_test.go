package service

import (
	"os"
	"path/filepath"
	"testing"

	"chatspace/internal/apperr"

	"github.com/stretchr/testify/require"
)

func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

func TestStoreUpload(t *testing.T) {
	storage := testStorage(t)
	files := testFileStore(t)
	svc := NewUploadService(storage.Uploads(), files, testLogger())

	upload, err := svc.Store(1, "notes.txt", []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, uint(1), upload.OwnerID)
	require.Equal(t, "notes.txt", upload.StoredName)
	require.Equal(t, "notes.txt", upload.OriginalName)
	require.Equal(t, int64(5), upload.Size)

	_, err = os.Stat(filepath.Join(files.Dir(), upload.StoredName))
	require.NoError(t, err)

	listed, err := svc.List(1)
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestStoreRejectsDisallowedExtension(t *testing.T) {
	storage := testStorage(t)
	files := testFileStore(t)
	svc := NewUploadService(storage.Uploads(), files, testLogger())

	_, err := svc.Store(1, "malware.exe", []byte("MZ"))
	require.True(t, apperr.IsValidation(err))

	// Nothing on disk, nothing in the store.
	require.Empty(t, dirEntries(t, files.Dir()))
	listed, err := svc.List(1)
	require.NoError(t, err)
	require.Empty(t, listed)
}

func TestStoreRejectsMissingFile(t *testing.T) {
	storage := testStorage(t)
	files := testFileStore(t)
	svc := NewUploadService(storage.Uploads(), files, testLogger())

	_, err := svc.Store(1, "", nil)
	require.True(t, apperr.IsValidation(err))

	_, err = svc.Store(1, "empty.txt", nil)
	require.True(t, apperr.IsValidation(err))
}

func TestStoreSanitizesClientName(t *testing.T) {
	storage := testStorage(t)
	files := testFileStore(t)
	svc := NewUploadService(storage.Uploads(), files, testLogger())

	upload, err := svc.Store(1, "../../escape attempt.txt", []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, "escape_attempt.txt", upload.StoredName)
	require.Equal(t, []string{"escape_attempt.txt"}, dirEntries(t, files.Dir()))
}

func TestDeleteUploadOwnerOnly(t *testing.T) {
	storage := testStorage(t)
	files := testFileStore(t)
	svc := NewUploadService(storage.Uploads(), files, testLogger())

	upload, err := svc.Store(1, "notes.txt", []byte("hello"))
	require.NoError(t, err)

	// Someone else cannot delete it, and is not told it exists.
	err = svc.Delete(2, upload.ID)
	require.True(t, apperr.IsNotFound(err))

	require.NoError(t, svc.Delete(1, upload.ID))
	require.Empty(t, dirEntries(t, files.Dir()))

	listed, err := svc.List(1)
	require.NoError(t, err)
	require.Empty(t, listed)
}
