package uploads_test

import (
	"strings"
	"testing"

	"github.com/blackhatcommit/commithub/internal/app/system/uploads"
)

func TestSanitizeFilename(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"my file (1).png", "my_file__1_.png"},
		{"../../etc/passwd", "passwd"},
		{"", "file"},
		{"héllo.txt", "h__llo.txt"},
	}
	for _, c := range cases {
		if got := uploads.SanitizeFilename(c.in); got != c.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestSanitizeFilename_TruncatesPreservingExtension(t *testing.T) {
	long := strings.Repeat("a", 200) + ".jpg"
	got := uploads.SanitizeFilename(long)
	if len(got) > 100 {
		t.Errorf("sanitized name too long: %d chars", len(got))
	}
	if !strings.HasSuffix(got, ".jpg") {
		t.Errorf("extension not preserved: %q", got)
	}
}
