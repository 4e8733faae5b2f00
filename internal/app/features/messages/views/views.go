// internal/app/features/messages/views/views.go
package messages

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "messages",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
