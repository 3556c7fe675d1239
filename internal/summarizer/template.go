package summarizer

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed default_template.yaml
var defaultTemplateYAML []byte

// Template describes the canned summary and the prompt used by the
// OpenAI backend.
type Template struct {
	System string   `yaml:"system"`
	Intro  string   `yaml:"intro"`
	Points []string `yaml:"points"`
	Style  struct {
		Temperature float32 `yaml:"temperature"`
		MaxTokens   int     `yaml:"max_tokens"`
	} `yaml:"style"`
}

// DefaultTemplate returns the built-in template.
func DefaultTemplate() Template {
	t, err := parseTemplate(defaultTemplateYAML)
	if err != nil {
		panic(fmt.Sprintf("summarizer: invalid embedded template: %v", err))
	}
	return t
}

// LoadTemplate reads a template from a YAML file. An empty path returns the
// built-in template.
func LoadTemplate(path string) (Template, error) {
	if path == "" {
		return DefaultTemplate(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Template{}, fmt.Errorf("read summary template: %w", err)
	}
	t, err := parseTemplate(b)
	if err != nil {
		return Template{}, fmt.Errorf("parse summary template %s: %w", path, err)
	}
	return t, nil
}

func parseTemplate(b []byte) (Template, error) {
	var t Template
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Template{}, err
	}
	if strings.TrimSpace(t.Intro) == "" {
		return Template{}, fmt.Errorf("intro is required")
	}
	if len(t.Points) == 0 {
		return Template{}, fmt.Errorf("at least one point is required")
	}
	return t, nil
}

// Render fills the template for query.
func (t Template) Render(query string) string {
	var b strings.Builder
	b.WriteString(strings.ReplaceAll(t.Intro, "{query}", query))
	b.WriteString("\n\n")
	for i, p := range t.Points {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d) %s", i+1, p)
	}
	return b.String()
}
