package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader stores team logo images. The store itself only ever sees the
// resulting public URL.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// ExtensionFromContentType maps an image content type to a file extension for
// upload keys.
func ExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type %q", contentType)
	}
}
