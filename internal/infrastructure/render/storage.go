package render

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ArtifactStore persists rendered invoice documents
type ArtifactStore interface {
	// Store saves an artifact and returns its storage path/URL
	Store(ctx context.Context, req *StoreRequest) (*StoreResult, error)
	// Get retrieves an artifact by its relative path
	Get(ctx context.Context, path string) (io.ReadCloser, error)
	// Delete removes an artifact
	Delete(ctx context.Context, path string) error
}

// StoreRequest contains the parameters for storing an artifact
type StoreRequest struct {
	InvoiceNumber string
	Backend       Backend
	Data          []byte
	ContentType   string
}

// StoreResult contains the result of storing an artifact
type StoreResult struct {
	// Path is the storage path (relative to base)
	Path string
	// URL is the accessible URL for the artifact
	URL string
	// Size is the file size in bytes
	Size int64
}

// FileSystemStoreConfig contains configuration for file system storage
type FileSystemStoreConfig struct {
	// BasePath is the root directory for artifacts (default: /data/invoices)
	BasePath string
	// BaseURL is the URL prefix for accessing artifacts
	BaseURL string
	// Logger for operations
	Logger *zap.Logger
}

// FileSystemStore stores rendered documents on the local file system
type FileSystemStore struct {
	config *FileSystemStoreConfig
	logger *zap.Logger
}

// NewFileSystemStore creates a new file system artifact store
func NewFileSystemStore(config *FileSystemStoreConfig) (*FileSystemStore, error) {
	if config == nil {
		config = &FileSystemStoreConfig{}
	}
	if config.BasePath == "" {
		config.BasePath = "/data/invoices"
	}
	if config.BaseURL == "" {
		config.BaseURL = "/api/v1/invoices/artifacts"
	}

	if err := os.MkdirAll(config.BasePath, 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed,
			fmt.Sprintf("failed to create storage directory: %s", config.BasePath), err)
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &FileSystemStore{config: config, logger: logger}, nil
}

// Store saves an artifact under {base}/{year}/{month}/{id}-{filename}
func (s *FileSystemStore) Store(ctx context.Context, req *StoreRequest) (*StoreResult, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	if req == nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "store request is nil", nil)
	}
	if len(req.Data) == 0 {
		return nil, NewRenderError(ErrCodeStorageFailed, "artifact data is empty", nil)
	}
	if !req.Backend.IsValid() {
		return nil, NewRenderError(ErrCodeStorageFailed, "unknown backend: "+string(req.Backend), nil)
	}

	now := time.Now()
	dirPath := filepath.Join(
		s.config.BasePath,
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
	)
	if err := os.MkdirAll(dirPath, 0755); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to create directory", err)
	}

	// The suggested filename already sanitizes the invoice number; the
	// uuid prefix keeps repeated renders of one invoice from colliding.
	fileName := uuid.NewString() + "-" + SuggestedFilename(req.InvoiceNumber, req.Backend.Extension())
	filePath := filepath.Join(dirPath, fileName)

	if err := os.WriteFile(filePath, req.Data, 0644); err != nil {
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to write artifact", err)
	}

	relativePath := filepath.Join(
		fmt.Sprintf("%d", now.Year()),
		fmt.Sprintf("%02d", now.Month()),
		fileName,
	)

	s.logger.Info("artifact stored",
		zap.String("path", filePath),
		zap.Int("size", len(req.Data)))

	return &StoreResult{
		Path: relativePath,
		URL:  s.config.BaseURL + "/" + filepath.ToSlash(relativePath),
		Size: int64(len(req.Data)),
	}, nil
}

// Get retrieves an artifact by its relative path
func (s *FileSystemStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NewRenderError(ErrCodeStorageFailed, "artifact not found", err)
		}
		return nil, NewRenderError(ErrCodeStorageFailed, "failed to open artifact", err)
	}
	return file, nil
}

// Delete removes an artifact
func (s *FileSystemStore) Delete(ctx context.Context, path string) error {
	select {
	case <-ctx.Done():
		return NewRenderError(ErrCodeStorageFailed, "operation cancelled", ctx.Err())
	default:
	}

	fullPath, err := s.resolve(path)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return NewRenderError(ErrCodeStorageFailed, "failed to delete artifact", err)
	}
	s.logger.Info("artifact deleted", zap.String("path", path))
	return nil
}

// CleanupOlderThan removes artifacts older than the specified duration
func (s *FileSystemStore) CleanupOlderThan(ctx context.Context, age time.Duration) (int, error) {
	cutoff := time.Now().Add(-age)
	deleted := 0

	err := filepath.Walk(s.config.BasePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if info.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".pdf" && ext != ".png" {
			return nil
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(path); err == nil {
				deleted++
			}
		}
		return nil
	})
	if err != nil && err != context.Canceled && err != context.DeadlineExceeded {
		return deleted, NewRenderError(ErrCodeStorageFailed, "cleanup walk failed", err)
	}

	s.logger.Info("artifact cleanup completed",
		zap.Int("deleted", deleted),
		zap.Duration("age", age))
	return deleted, nil
}

// resolve sanitizes a relative artifact path and verifies it stays under
// the base directory.
func (s *FileSystemStore) resolve(path string) (string, error) {
	cleanPath := filepath.Clean(path)
	if filepath.IsAbs(cleanPath) || containsDotDot(path) { // Check raw path for ".."
		s.logger.Warn("blocked potentially malicious path", zap.String("path", path))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}

	fullPath := filepath.Join(s.config.BasePath, cleanPath)

	absBase, err := filepath.Abs(s.config.BasePath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve base path", err)
	}
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return "", NewRenderError(ErrCodeStorageFailed, "failed to resolve file path", err)
	}
	if !strings.HasPrefix(absPath, absBase+string(filepath.Separator)) && absPath != absBase {
		s.logger.Warn("path escape attempt blocked",
			zap.String("path", path),
			zap.String("absPath", absPath))
		return "", NewRenderError(ErrCodeStorageFailed, "invalid path", nil)
	}
	return fullPath, nil
}

// containsDotDot checks if a path contains ".." components
func containsDotDot(path string) bool {
	parts := strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
	return slices.Contains(parts, "..")
}

// Ensure FileSystemStore implements ArtifactStore
var _ ArtifactStore = (*FileSystemStore)(nil)
