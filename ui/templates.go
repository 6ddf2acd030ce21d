package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"path"

	"goincome/ui/services"
	"goincome/ui/templates/fragments"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

const templatesRoot = "ui/templates"

func (s *Server) parseTemplates() (*template.Template, error) {
	templatesFS, err := fs.Sub(s.embeddedFiles, templatesRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to create templates filesystem: %w", err)
	}

	funcMap := template.FuncMap{
		"currency": services.Currency,
		"eps":      services.EPS,
	}
	templates := template.New("").Funcs(funcMap)

	rootFiles, err := fs.Glob(templatesFS, "*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob root templates: %w", err)
	}
	nestedFiles, err := fs.Glob(templatesFS, "*/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to glob nested templates: %w", err)
	}

	for _, file := range append(rootFiles, nestedFiles...) {
		content, err := fs.ReadFile(templatesFS, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template %s: %w", file, err)
		}
		if _, err := templates.New(file).Parse(string(content)); err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", file, err)
		}
	}

	for _, name := range fragments.GetAllTemplatePaths() {
		if templates.Lookup(name) == nil {
			return nil, fmt.Errorf("template %s is missing", name)
		}
	}
	s.logger.Debug("parsed %d templates", len(rootFiles)+len(nestedFiles))
	return templates, nil
}

// loadAbout renders the embedded markdown of the about panel
func (s *Server) loadAbout() (template.HTML, error) {
	md, err := fs.ReadFile(s.embeddedFiles, path.Join(templatesRoot, fragments.AboutMarkdown))
	if err != nil {
		return "", fmt.Errorf("failed to read about page: %w", err)
	}

	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank})
	return template.HTML(markdown.ToHTML(md, p, renderer)), nil
}

// renderTemplate executes a template with the given data
func (s *Server) renderTemplate(c *gin.Context, status int, templateName string, data interface{}) {
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := s.renderer.Render(c.Writer, templateName, data); err != nil {
		s.logger.Error("template error: %v", err)
		c.AbortWithStatusJSON(500, gin.H{"error": "Template rendering failed"})
	}
}
