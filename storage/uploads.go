package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxUploadSize caps a single document upload.
const MaxUploadSize = 10 << 20 // 10MB

// AllowedMimeType reports whether an uploaded document's content type is
// accepted. Only PDF, JPG and PNG documents are.
func AllowedMimeType(mimeType string) bool {
	switch mimeType {
	case "application/pdf", "image/jpeg", "image/jpg", "image/png":
		return true
	}
	return false
}

// BlobStore writes uploaded document blobs to a local directory. Stored names
// are prefixed with a fresh UUID so originals can never collide or traverse
// out of the directory.
type BlobStore struct {
	dir string
}

func NewBlobStore(dir string) (*BlobStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &BlobStore{dir: dir}, nil
}

// Save writes the blob and returns the stored file name and byte count.
func (b *BlobStore) Save(originalName string, r io.Reader) (string, int64, error) {
	name := uuid.NewString() + "-" + sanitizeFileName(originalName)
	f, err := os.Create(filepath.Join(b.dir, name))
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	size, err := io.Copy(f, io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		os.Remove(f.Name())
		return "", 0, err
	}
	if size > MaxUploadSize {
		os.Remove(f.Name())
		return "", 0, fmt.Errorf("file exceeds %d bytes", MaxUploadSize)
	}
	return name, size, nil
}

// sanitizeFileName strips path separators and anything else outside a small
// safe character set.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	var sb strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == '.', r == '-', r == '_':
			sb.WriteRune(r)
		default:
			sb.WriteRune('_')
		}
	}
	if sb.Len() == 0 {
		return "file"
	}
	return sb.String()
}
