// Package web embeds the study's HTML templates and static assets and
// renders pages over a shared layout.
package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

//go:embed templates/* static/*
var content embed.FS

// Renderer holds the parsed page templates. Each page is the shared layout
// plus the page's own title/content blocks.
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer parses all embedded templates.
func NewRenderer() (*Renderer, error) {
	entries, err := fs.ReadDir(content, "templates")
	if err != nil {
		return nil, fmt.Errorf("reading embedded templates: %w", err)
	}

	pages := make(map[string]*template.Template)
	for _, e := range entries {
		name := e.Name()
		if name == "layout.html" {
			continue
		}
		t, err := template.ParseFS(content, "templates/layout.html", path.Join("templates", name))
		if err != nil {
			return nil, fmt.Errorf("parsing template %s: %w", name, err)
		}
		pages[strings.TrimSuffix(name, ".html")] = t
	}
	return &Renderer{pages: pages}, nil
}

// Render writes the named page. Unknown pages and execution failures are
// reported as a plain 500; they indicate a programming error, not bad user
// input.
func (r *Renderer) Render(w http.ResponseWriter, page string, data any) {
	t, ok := r.pages[page]
	if !ok {
		slog.Error("render: unknown page", "page", page)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := t.ExecuteTemplate(w, "layout", data); err != nil {
		slog.Error("render: template execution failed", "page", page, "error", err)
	}
}

// StaticHandler serves the embedded static assets (picker script, styles).
func StaticHandler() (http.Handler, error) {
	fsys, err := fs.Sub(content, "static")
	if err != nil {
		return nil, fmt.Errorf("loading embedded static assets: %w", err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(fsys))), nil
}
