package dashboard

import (
	"embed"
	"io"
	"io/fs"

	template "github.com/goliatone/go-template"
)

const templatesDir = "templates"

//go:embed templates/*.html templates/**/*.html
var embeddedTemplates embed.FS

// Renderer renders a named template. The controller passes the output writer.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

// TemplateOption customizes NewTemplateRenderer.
type TemplateOption func(*templateConfig)

type templateConfig struct {
	fsys    fs.FS
	baseDir string
}

// WithTemplateFS replaces the embedded shell with templates from fsys under
// baseDir. The set must provide dashboard.html and the partials it includes.
func WithTemplateFS(fsys fs.FS, baseDir string) TemplateOption {
	return func(cfg *templateConfig) {
		if fsys != nil {
			cfg.fsys = fsys
			cfg.baseDir = baseDir
		}
	}
}

// Templates exposes the embedded shell so hosts can copy or extend it.
func Templates() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, templatesDir)
	if err != nil {
		return embeddedTemplates
	}
	return sub
}

// NewTemplateRenderer creates a go-template renderer for the dashboard shell.
func NewTemplateRenderer(options ...TemplateOption) (Renderer, error) {
	cfg := templateConfig{fsys: embeddedTemplates, baseDir: templatesDir}
	for _, opt := range options {
		opt(&cfg)
	}
	return template.NewRenderer(
		template.WithFS(cfg.fsys),
		template.WithBaseDir(cfg.baseDir),
		template.WithExtension(".html"),
	)
}
