// Package ui renders the weather widget page and serves its bundled icons.
package ui

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strconv"

	"github.com/i474232898/weather-widget/internal/notify"
	"github.com/i474232898/weather-widget/internal/weather"
)

//go:embed templates/*.tmpl assets/*.svg
var content embed.FS

var page = template.Must(
	template.New("widget.html.tmpl").
		Funcs(template.FuncMap{"windSpeed": formatWindSpeed}).
		ParseFS(content, "templates/widget.html.tmpl"),
)

// View is the data rendered into the widget page.
type View struct {
	State         weather.State
	Notifications []notify.Notification
	Query         string
}

// Render writes the widget page.
func Render(w io.Writer, v View) error {
	if err := page.Execute(w, v); err != nil {
		return fmt.Errorf("render widget: %w", err)
	}
	return nil
}

// Assets returns the bundled icon files, rooted at the asset directory.
func Assets() fs.FS {
	sub, err := fs.Sub(content, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}

// formatWindSpeed prints the provider value unconverted, without trailing zeros.
func formatWindSpeed(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
