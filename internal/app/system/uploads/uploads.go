// internal/app/system/uploads/uploads.go
package uploads

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/google/uuid"
)

// Info contains metadata about a stored upload.
type Info struct {
	Path        string
	FileName    string
	Size        int64
	ContentType string
}

// Save stores a file under a unique path and returns upload info.
// The path is generated as: <area>/YYYY/MM/uuid-filename, where area
// names the feature that owns the file (stories, files, avatars, ...).
func Save(ctx context.Context, store storage.Store, area, filename string, reader io.Reader, size int64, contentType string) (Info, error) {
	now := time.Now().UTC()
	dateDir := fmt.Sprintf("%s/%04d/%02d", area, now.Year(), now.Month())
	uniqueName := fmt.Sprintf("%s-%s", uuid.New().String()[:8], SanitizeFilename(filename))
	path := filepath.ToSlash(filepath.Join(dateDir, uniqueName))

	opts := &storage.PutOptions{
		ContentType: contentType,
	}
	if err := store.Put(ctx, path, reader, opts); err != nil {
		return Info{}, fmt.Errorf("failed to upload file: %w", err)
	}

	return Info{
		Path:        path,
		FileName:    filename,
		Size:        size,
		ContentType: contentType,
	}, nil
}

// Delete removes a stored object. A missing object is not an error worth
// surfacing to callers, so errors are returned for logging only.
func Delete(ctx context.Context, store storage.Store, path string) error {
	if store == nil || path == "" {
		return nil
	}
	return store.Delete(ctx, path)
}

// SanitizeFilename removes or replaces characters that could be problematic in filenames.
func SanitizeFilename(filename string) string {
	// Get just the filename, not any path components
	filename = filepath.Base(filename)
	if filename == "." || filename == ".." || filename == "/" {
		return "file"
	}

	result := make([]byte, 0, len(filename))
	for i := 0; i < len(filename); i++ {
		c := filename[i]
		if isAllowedFilenameChar(c) {
			result = append(result, c)
		} else {
			result = append(result, '_')
		}
	}

	if len(result) == 0 {
		return "file"
	}
	if len(result) > 100 {
		// Truncate but preserve extension if present
		ext := filepath.Ext(string(result))
		if len(ext) > 0 && len(ext) < 10 {
			result = append(result[:100-len(ext)], ext...)
		} else {
			result = result[:100]
		}
	}

	return string(result)
}

func isAllowedFilenameChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '-' || c == '_' || c == '.'
}
