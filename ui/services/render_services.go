package services

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
)

// RenderService executes named templates into a buffer first so a failing
// template never leaves a half-written response.
type RenderService struct {
	templates *template.Template
}

func NewRenderService(templates *template.Template) *RenderService {
	return &RenderService{
		templates: templates,
	}
}

// Render writes the template to w
func (s *RenderService) Render(w io.Writer, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a template with that name was parsed
func (s *RenderService) Has(name string) bool {
	return s.templates.Lookup(name) != nil
}
