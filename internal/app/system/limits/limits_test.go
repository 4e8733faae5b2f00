package limits_test

import (
	"errors"
	"testing"

	"github.com/blackhatcommit/commithub/internal/app/system/limits"
)

func TestCheckAttachment(t *testing.T) {
	if err := limits.CheckAttachment(limits.MaxAttachmentSize); err != nil {
		t.Errorf("exactly at ceiling should pass: %v", err)
	}
	if err := limits.CheckAttachment(limits.MaxAttachmentSize + 1); !errors.Is(err, limits.ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	if err := limits.CheckAttachment(0); err == nil {
		t.Error("empty file should be rejected")
	}
}

func TestCheckAvatar(t *testing.T) {
	if err := limits.CheckAvatar(1024, "image/png"); err != nil {
		t.Errorf("small png should pass: %v", err)
	}
	if err := limits.CheckAvatar(limits.MaxAvatarSize+1, "image/png"); !errors.Is(err, limits.ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
	if err := limits.CheckAvatar(1024, "application/pdf"); !errors.Is(err, limits.ErrNotImage) {
		t.Errorf("expected ErrNotImage, got %v", err)
	}
	// Size check runs first: an oversized non-image reports the ceiling.
	if err := limits.CheckAvatar(limits.MaxAvatarSize+1, "text/plain"); !errors.Is(err, limits.ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestCheckStoryImage(t *testing.T) {
	if err := limits.CheckStoryImage(limits.MaxStoryImageSize, "image/webp"); err != nil {
		t.Errorf("webp at ceiling should pass: %v", err)
	}
	if err := limits.CheckStoryImage(1024, "video/mp4"); !errors.Is(err, limits.ErrNotImage) {
		t.Errorf("expected ErrNotImage for video, got %v", err)
	}
}

func TestCheckAvatar_TypeNormalization(t *testing.T) {
	if err := limits.CheckAvatar(100, " IMAGE/JPEG "); err != nil {
		t.Errorf("content type should be case/space normalized: %v", err)
	}
}

func TestClassify(t *testing.T) {
	cases := map[string]string{
		"image/png":                "image",
		"image/webp":               "image",
		"video/mp4":                "video",
		"application/pdf":          "raw",
		"application/octet-stream": "raw",
		"":                         "raw",
	}
	for ct, want := range cases {
		if got := limits.Classify(ct); got != want {
			t.Errorf("Classify(%q): got %q, want %q", ct, got, want)
		}
	}
}
