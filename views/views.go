// Package views uygulamaya gömülü html şablonlarını taşır.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed layouts auth home errors kiosk sign commission
var files embed.FS

// NewEngine gömülü şablonlar için html motorunu hazırlar.
func NewEngine(reload bool) *html.Engine {
	engine := html.NewFileSystem(http.FS(files), ".html")
	engine.Reload(reload)
	return engine
}
