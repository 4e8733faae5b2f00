// internal/app/features/planner/views/views.go
package planner

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "planner",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
