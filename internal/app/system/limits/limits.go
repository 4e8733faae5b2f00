// Package limits holds upload ceilings and type allow-lists, enforced
// before any storage or database write. A rejected upload never reaches
// the network.
package limits

import (
	"errors"
	"fmt"
	"strings"
)

// Upload size ceilings.
const (
	// MaxAttachmentSize applies to community and shared-file uploads.
	MaxAttachmentSize = 10 << 20 // 10 MB

	// MaxAvatarSize applies to profile photo uploads.
	MaxAvatarSize = 5 << 20 // 5 MB

	// MaxStoryImageSize applies to story image uploads.
	MaxStoryImageSize = 10 << 20 // 10 MB

	// MaxFormSize bounds multipart form parsing for upload handlers.
	MaxFormSize = 32 << 20 // 32 MB
)

// ErrTooLarge is returned when an upload exceeds its ceiling.
var ErrTooLarge = errors.New("file exceeds the maximum allowed size")

// ErrNotImage is returned when an image-only upload has a non-image type.
var ErrNotImage = errors.New("only image files are allowed")

// imageTypes is the allow-list for profile and story uploads.
var imageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// CheckAttachment validates a community/file-share upload.
func CheckAttachment(size int64) error {
	return checkSize(size, MaxAttachmentSize)
}

// CheckAvatar validates a profile photo upload: size ceiling plus
// image-only allow-list.
func CheckAvatar(size int64, contentType string) error {
	if err := checkSize(size, MaxAvatarSize); err != nil {
		return err
	}
	return checkImage(contentType)
}

// CheckStoryImage validates a story upload: size ceiling plus image-only
// allow-list.
func CheckStoryImage(size int64, contentType string) error {
	if err := checkSize(size, MaxStoryImageSize); err != nil {
		return err
	}
	return checkImage(contentType)
}

// Classify maps a content type onto the coarse resource classification
// used in listings: image, video, or raw.
func Classify(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "image"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	default:
		return "raw"
	}
}

func checkSize(size, max int64) error {
	if size <= 0 {
		return errors.New("file is empty")
	}
	if size > max {
		return fmt.Errorf("%w (limit %d MB)", ErrTooLarge, max>>20)
	}
	return nil
}

func checkImage(contentType string) error {
	if !imageTypes[strings.ToLower(strings.TrimSpace(contentType))] {
		return ErrNotImage
	}
	return nil
}
