package render

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FileSystemStore {
	t.Helper()
	store, err := NewFileSystemStore(&FileSystemStoreConfig{
		BasePath: t.TempDir(),
		BaseURL:  "/api/v1/invoices/artifacts",
	})
	require.NoError(t, err)
	return store
}

func TestFileSystemStore_StoreAndGet(t *testing.T) {
	store := newTestStore(t)

	result, err := store.Store(t.Context(), &StoreRequest{
		InvoiceNumber: "2026-0042",
		Backend:       BackendPrintPDF,
		Data:          []byte("%PDF-1.4 fake"),
		ContentType:   "application/pdf",
	})
	require.NoError(t, err)

	assert.Contains(t, result.Path, "invoice-2026-0042.pdf")
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/invoices/artifacts/"))
	assert.Equal(t, int64(13), result.Size)

	reader, err := store.Get(t.Context(), result.Path)
	require.NoError(t, err)
	defer reader.Close()
	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4 fake"), data)
}

func TestFileSystemStore_DatePartitionedPath(t *testing.T) {
	store := newTestStore(t)

	result, err := store.Store(t.Context(), &StoreRequest{
		InvoiceNumber: "A1",
		Backend:       BackendRasterPNG,
		Data:          []byte("png-bytes"),
	})
	require.NoError(t, err)

	now := time.Now()
	parts := strings.Split(filepath.ToSlash(result.Path), "/")
	require.Len(t, parts, 3)
	assert.Equal(t, now.Format("2006"), parts[0])
	assert.Equal(t, now.Format("01"), parts[1])
	assert.True(t, strings.HasSuffix(parts[2], ".png"))
}

func TestFileSystemStore_RejectsEmptyData(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Store(t.Context(), &StoreRequest{
		InvoiceNumber: "A1",
		Backend:       BackendPrintPDF,
	})
	require.Error(t, err)
	rerr, ok := err.(*RenderError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeStorageFailed, rerr.Code)
}

func TestFileSystemStore_BlocksPathTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, path := range []string{
		"../outside.pdf",
		"2026/../../etc/passwd",
		"/etc/passwd",
	} {
		_, err := store.Get(t.Context(), path)
		require.Error(t, err, "path %q must be rejected", path)

		err = store.Delete(t.Context(), path)
		require.Error(t, err, "path %q must be rejected", path)
	}
}

func TestFileSystemStore_DeleteIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	result, err := store.Store(t.Context(), &StoreRequest{
		InvoiceNumber: "A1",
		Backend:       BackendPrintPDF,
		Data:          []byte("data"),
	})
	require.NoError(t, err)

	require.NoError(t, store.Delete(t.Context(), result.Path))
	// Deleting again is not an error.
	require.NoError(t, store.Delete(t.Context(), result.Path))

	_, err = store.Get(t.Context(), result.Path)
	require.Error(t, err)
}

func TestFileSystemStore_CleanupOlderThan(t *testing.T) {
	store := newTestStore(t)

	result, err := store.Store(t.Context(), &StoreRequest{
		InvoiceNumber: "OLD",
		Backend:       BackendPrintPDF,
		Data:          []byte("old"),
	})
	require.NoError(t, err)

	// Age the file past the cutoff.
	fullPath := filepath.Join(store.config.BasePath, result.Path)
	old := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(fullPath, old, old))

	deleted, err := store.CleanupOlderThan(t.Context(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)

	_, err = store.Get(t.Context(), result.Path)
	require.Error(t, err)
}
