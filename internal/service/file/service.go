package file

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/presencehr/attendance-backend-go/internal/pkg/storage"
)

// justification attachments accepted from employees
var allowedJustificationExts = []string{".jpg", ".jpeg", ".png", ".pdf"}

type FileService interface {
	// UploadJustificationFile stores a supporting document for a lateness or
	// absence justification and returns its public URL.
	UploadJustificationFile(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error)

	DeleteFile(ctx context.Context, path string) error
	GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error)
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadJustificationFile stores the document under justifications/<employee>/
func (s *fileServiceImpl) UploadJustificationFile(ctx context.Context, employeeID string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	isValid := false
	for _, allowed := range allowedJustificationExts {
		if ext == allowed {
			isValid = true
			break
		}
	}
	if !isValid {
		return "", fmt.Errorf("invalid file type: only jpg, jpeg, png, pdf allowed")
	}

	contentType := "application/octet-stream"
	switch ext {
	case ".jpg", ".jpeg":
		contentType = "image/jpeg"
	case ".png":
		contentType = "image/png"
	case ".pdf":
		contentType = "application/pdf"
	}

	newFilename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	path := filepath.Join("justifications", employeeID, newFilename)

	uploadedPath, err := s.storage.Upload(ctx, file, path, contentType)
	if err != nil {
		return "", fmt.Errorf("failed to upload justification file: %w", err)
	}

	url, err := s.storage.GetURL(ctx, uploadedPath, 0)
	if err != nil {
		return "", fmt.Errorf("failed to build file URL: %w", err)
	}

	return url, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, path string) error {
	if err := s.storage.Delete(ctx, path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *fileServiceImpl) GetFileURL(ctx context.Context, path string, expiry time.Duration) (string, error) {
	return s.storage.GetURL(ctx, path, expiry)
}
