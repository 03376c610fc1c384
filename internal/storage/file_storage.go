// internal/storage/file_storage.go
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FileType represents the type of file being stored
type FileType int

const (
	FileTypeGeneric FileType = iota
	FileTypePDF
)

func (t FileType) String() string {
	switch t {
	case FileTypePDF:
		return "pdf"
	default:
		return "generic"
	}
}

// FileStorage defines the interface for file storage operations
type FileStorage interface {
	// WriteFile writes content to name below the base directory and returns
	// the absolute path. Parent directories are created as needed.
	WriteFile(name string, content []byte, fileType FileType) (string, error)

	// ValidatePath checks path security (no traversal, within base)
	ValidatePath(fullPath string) error
}

// LocalFileStorage implements FileStorage for local filesystem
type LocalFileStorage struct {
	baseDir string
	logger  *zap.Logger
}

// NewLocalFileStorage creates a LocalFileStorage rooted at baseDir, resolved
// to an absolute path once so later changes of working directory do not move
// it.
func NewLocalFileStorage(baseDir string, logger *zap.Logger) (*LocalFileStorage, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve base path: %w", err)
	}
	return &LocalFileStorage{
		baseDir: absBase,
		logger:  logger,
	}, nil
}

// BaseDir returns the absolute base directory
func (s *LocalFileStorage) BaseDir() string {
	return s.baseDir
}

// WriteFile writes content below the base directory, overwriting any
// existing file of the same name
func (s *LocalFileStorage) WriteFile(name string, content []byte, fileType FileType) (string, error) {
	fullPath := filepath.Join(s.baseDir, name)

	// Validate path security
	if err := s.ValidatePath(fullPath); err != nil {
		return "", err
	}

	// Create parent directories
	parentDir := filepath.Dir(fullPath)
	if err := os.MkdirAll(parentDir, 0755); err != nil {
		s.logger.Error("Failed to create parent directories",
			zap.String("path", parentDir),
			zap.Error(err))
		return "", fmt.Errorf("failed to create directories: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		s.logger.Error("Failed to write file",
			zap.String("path", fullPath),
			zap.Error(err))
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	s.logger.Debug("File saved successfully",
		zap.String("path", fullPath),
		zap.Int("size", len(content)),
		zap.Stringer("file_type", fileType))

	return fullPath, nil
}

// ValidatePath checks that the path is safe and within baseDir
func (s *LocalFileStorage) ValidatePath(fullPath string) error {
	absPath, err := filepath.Abs(fullPath)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	// Path must equal base or sit below base + separator, so /data/inv_x
	// does not pass for base /data/inv.
	if !strings.HasPrefix(absPath, s.baseDir+string(filepath.Separator)) && absPath != s.baseDir {
		return fmt.Errorf("%w: %s", ErrPathEscapesBase, fullPath)
	}

	return nil
}
