package storage

import (
	"context"
	"io"
)

// FileUploader abstracts object storage for room logo files.
type FileUploader interface {
	UploadFile(ctx context.Context, file io.Reader, key string, contentType string) error
	DeleteFile(ctx context.Context, key string) error
	GetPublicURL(key string) string
}
