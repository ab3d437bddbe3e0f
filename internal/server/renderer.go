package server

import (
	"html/template"
	"io"

	"github.com/labstack/echo/v4"

	"SessionInsightsServer/web"
)

// TemplateRenderer serves the embedded HTML templates through echo.
type TemplateRenderer struct {
	templates *template.Template
}

func NewRenderer() (*TemplateRenderer, error) {
	templates, err := template.ParseFS(web.Templates(), "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{templates: templates}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}
