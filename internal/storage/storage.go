package storage

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrUnsupportedImage = errors.New("unsupported image type")

// ImageStore persists uploaded blog images and returns their public URL.
type ImageStore interface {
	Save(ctx context.Context, key, contentType string, data []byte) (string, error)
	Delete(ctx context.Context, key string) error
}

var imageExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ImageKey sniffs the content type and builds a random object key. The
// client supplied filename only contributes its extension.
func ImageKey(filename string, data []byte) (key, contentType string, err error) {
	contentType = http.DetectContentType(data)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	defExt, ok := imageExtensions[contentType]
	if !ok {
		return "", "", ErrUnsupportedImage
	}

	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
	default:
		ext = defExt
	}
	return "images/" + uuid.NewString() + ext, contentType, nil
}
