// internal/app/features/teamprogress/views/views.go
package teamprogress

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "teamprogress",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
