// internal/app/features/stories/views/views.go
package stories

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "stories",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
