package web

import (
	"bytes"
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates.
type Renderer struct {
	templates *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: tmpl}, nil
}

// Render writes the named page. Output is buffered so a template error never
// leaves a half-written page behind.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

type LoginPage struct {
	Error     string
	Notice    string
	Email     string
	Theme     string
	// Providers lists third-party identity providers shown under the form.
	Providers []string
}

type IndexPage struct {
	Email        string
	Query        string
	Loading      bool
	ResultHTML   template.HTML
	Error        string
	Alert        string
	ModelsText   string
	StoreLoading bool
	StoreStatus  string
}

// Refreshing reports whether the page should poll until pending work settles.
func (p IndexPage) Refreshing() bool {
	return p.Loading || p.StoreLoading
}
