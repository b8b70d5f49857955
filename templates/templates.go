// Package templates holds the embedded HTML pages served by the upload
// server and helpers for presenting artifact names.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed pages/*.html
var pages embed.FS

var (
	titler = cases.Title(language.English)

	parsed = template.Must(template.New("pages").Funcs(template.FuncMap{
		"label": Label,
	}).ParseFS(pages, "pages/*.html"))
)

// Label turns an artifact or form-field name into a display label:
// "mask_peri_wound" becomes "Mask Peri Wound".
func Label(name string) string {
	return titler.String(strings.ReplaceAll(name, "_", " "))
}

// Render writes the named page to w.
func Render(w io.Writer, name string, data any) error {
	if err := parsed.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("render %s: %w", name, err)
	}
	return nil
}

// UploadData feeds the upload form page.
type UploadData struct {
	// Formats are the artifact names selectable in the form.
	Formats []string
}
