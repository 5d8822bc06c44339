package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// AttachmentStore persists uploaded photos on disk, one folder per request number.
type AttachmentStore struct {
	baseDir string
}

// NewAttachmentStore ensures the base directory exists and returns a handle.
func NewAttachmentStore(baseDir string) (*AttachmentStore, error) {
	if baseDir == "" {
		baseDir = "./data/attachments"
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create attachments directory: %w", err)
	}
	return &AttachmentStore{baseDir: baseDir}, nil
}

// Save writes photo bytes under the request's folder and returns the relative
// path ("<requestNo>/<file>") callers persist as the photo reference.
func (s *AttachmentStore) Save(requestNo string, data []byte, mimeType string) (string, error) {
	dir := filepath.Join(s.baseDir, requestNo)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("prepare attachment directory: %w", err)
	}
	ext := "jpg"
	if strings.Contains(mimeType, "png") {
		ext = "png"
	}
	fileName := fmt.Sprintf("%s_%s.%s", requestNo, uuid.NewString()[:8], ext)
	if err := os.WriteFile(filepath.Join(dir, fileName), data, 0o644); err != nil {
		return "", fmt.Errorf("write attachment: %w", err)
	}
	return filepath.ToSlash(filepath.Join(requestNo, fileName)), nil
}

// Open returns a read-only handle for a stored attachment.
func (s *AttachmentStore) Open(requestNo, fileName string) (*os.File, error) {
	// Reject path traversal in user-supplied segments.
	if strings.Contains(requestNo, "..") || strings.Contains(fileName, "..") {
		return nil, fmt.Errorf("invalid attachment path")
	}
	file, err := os.Open(filepath.Join(s.baseDir, requestNo, fileName))
	if err != nil {
		return nil, fmt.Errorf("open attachment: %w", err)
	}
	return file, nil
}
