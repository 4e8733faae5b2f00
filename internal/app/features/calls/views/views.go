// internal/app/features/calls/views/views.go
package calls

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "calls",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
