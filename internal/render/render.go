// Package render loads HTML page templates and renders them for Echo.
package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/Masterminds/sprig/v3"
	"github.com/labstack/echo/v4"

	"author-frontend/internal/config"
	"author-frontend/internal/metrics"
)

// ErrRender is returned when a template is missing or fails to execute.
var ErrRender = errors.New("template error")

//go:embed templates/*.html
var builtin embed.FS

// Renderer renders named html/template templates. It satisfies echo.Renderer.
type Renderer struct {
	tmpl    *template.Template
	logger  *slog.Logger
	metrics *metrics.Metrics
}

var _ echo.Renderer = (*Renderer)(nil)

// NewRenderer parses every *.html file in templates.dir, or the built-in
// templates when no directory is configured. Template names are file base names.
// The metrics parameter is optional; pass nil to disable failure counting.
func NewRenderer(cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*Renderer, error) {
	logger = logger.With("component", "renderer")

	root := template.New("").Funcs(funcMap())

	var (
		tmpl *template.Template
		err  error
	)
	if dir := cfg.Templates.Dir; dir != "" {
		tmpl, err = root.ParseGlob(filepath.Join(dir, "*.html"))
		if err != nil {
			return nil, fmt.Errorf("parse templates in %s: %w", dir, err)
		}
		logger.Info("templates loaded", "dir", dir, "templates", tmpl.DefinedTemplates())
	} else {
		tmpl, err = root.ParseFS(builtin, "templates/*.html")
		if err != nil {
			return nil, fmt.Errorf("parse built-in templates: %w", err)
		}
		logger.Debug("built-in templates loaded", "templates", tmpl.DefinedTemplates())
	}

	if tmpl.Lookup(cfg.Templates.Home) == nil {
		logger.Warn("home template not defined; page requests will fail", "template", cfg.Templates.Home)
	}

	return &Renderer{tmpl: tmpl, logger: logger, metrics: m}, nil
}

// Render executes the named template with data and writes the output to w.
// Output is buffered, so nothing is written when rendering fails.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t := r.tmpl.Lookup(name)
	if t == nil {
		r.failed(name)
		return fmt.Errorf("%w: template %q is not defined", ErrRender, name)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		r.failed(name)
		return fmt.Errorf("%w: %w", ErrRender, err)
	}

	_, err := buf.WriteTo(w)
	return err
}

func (r *Renderer) failed(name string) {
	if r.metrics != nil {
		r.metrics.RenderFailures.WithLabelValues(name).Inc()
	}
}

func funcMap() template.FuncMap {
	fm := sprig.HtmlFuncMap()
	// Templates must not read the process environment.
	delete(fm, "env")
	delete(fm, "expandenv")
	return fm
}
