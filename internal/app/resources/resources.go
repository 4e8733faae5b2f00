// internal/app/resources/resources.go

// Package resources carries the site-wide layout templates (page_top,
// page_bottom) that every feature page wraps itself in. Feature packages
// register their own template sets; this one must be registered before
// any of them render.
package resources

import (
	"embed"
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var layoutFS embed.FS

var registerOnce sync.Once

// RegisterLayout adds the layout template set to the engine registry.
// Safe to call more than once.
func RegisterLayout() {
	registerOnce.Do(func() {
		templates.Register(templates.Set{
			Name:     "layout",
			FS:       layoutFS,
			Patterns: []string{"templates/*.gohtml"},
		})
	})
}
