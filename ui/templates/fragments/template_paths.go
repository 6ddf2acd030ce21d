// Package fragments provides template path constants for organized template management
package fragments

// Template path constants
const (
	Index     = "index.html"
	Dashboard = "fragments/dashboard.html"
	Table     = "fragments/table.html"
	Summary   = "fragments/summary.html"
)

// AboutMarkdown is the embedded markdown file rendered in the about panel
const AboutMarkdown = "about.md"

// GetAllTemplatePaths returns all template paths that must be present after parsing
func GetAllTemplatePaths() []string {
	return []string{
		Index,
		Dashboard,
		Table,
		Summary,
	}
}
