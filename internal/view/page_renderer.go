package view

import (
	"fmt"
	"html/template"
	"io"
	"path/filepath"
)

// PageRenderer renders web pages through a set of pre-parsed templates.
type PageRenderer struct {
	templates map[string]*template.Template
}

// NewPageRenderer parses every page under templateDir together with the
// shared layouts under templateDir/layouts.
func NewPageRenderer(templateDir string) (*PageRenderer, error) {
	layoutFiles, err := filepath.Glob(filepath.Join(templateDir, "layouts", "*.html"))
	if err != nil {
		return nil, err
	}
	pageFiles, err := filepath.Glob(filepath.Join(templateDir, "*.html"))
	if err != nil {
		return nil, err
	}

	templates := make(map[string]*template.Template)
	for _, page := range pageFiles {
		files := append([]string{}, layoutFiles...)
		files = append(files, page)
		t, err := template.ParseFiles(files...)
		if err != nil {
			return nil, fmt.Errorf("parsing %s: %w", page, err)
		}
		templates[filepath.Base(page)] = t
	}
	return &PageRenderer{templates: templates}, nil
}

// RenderTemplate renders the page with the given name. It returns an error
// if the corresponding template is not present.
func (pr *PageRenderer) RenderTemplate(wr io.Writer, name string, data any) error {
	if t, ok := pr.templates[name]; ok {
		return t.ExecuteTemplate(wr, "base", data)
	}
	return fmt.Errorf("template is missing{%s}", name)
}
