package render

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"author-frontend/internal/config"
	"author-frontend/internal/metrics"
	"author-frontend/internal/model"
)

func newTestRenderer(t *testing.T, dir string, m *metrics.Metrics) *Renderer {
	t.Helper()
	cfg := &config.Config{Templates: config.TemplatesConfig{Dir: dir, Home: "home.html"}}
	r, err := NewRenderer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), m)
	if err != nil {
		t.Fatalf("NewRenderer() error = %v", err)
	}
	return r
}

func TestRenderer_BuiltinHome_Object(t *testing.T) {
	r := newTestRenderer(t, "", nil)

	data := model.NewHomePage("author", map[string]any{
		"name": "x",
		"bltns": []any{
			map[string]any{"msg": "first <b>post</b>", "blkHeight": json.Number("42")},
		},
	})

	var buf bytes.Buffer
	if err := r.Render(&buf, "home.html", data, nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`<h1 class="author-name">x</h1>`,
		`data-key="author"`,
		"first &lt;b&gt;post&lt;/b&gt;",
		"block 42",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderer_BuiltinHome_NonObject(t *testing.T) {
	r := newTestRenderer(t, "", nil)

	var buf bytes.Buffer
	if err := r.Render(&buf, "home.html", model.NewHomePage("author", []any{"a", "b"}), nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(buf.String(), `class="payload"`) {
		t.Errorf("expected payload dump for non-object document:\n%s", buf.String())
	}
}

func TestRenderer_Directory(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "home.html"), []byte(`<p>{{ .bltns.name | upper }}</p>`), 0o644); err != nil {
		t.Fatal(err)
	}

	r := newTestRenderer(t, dir, nil)

	var buf bytes.Buffer
	if err := r.Render(&buf, "home.html", model.NewHomePage("bltns", map[string]any{"name": "x"}), nil); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if got := buf.String(); got != "<p>X</p>" {
		t.Errorf("output = %q, want %q", got, "<p>X</p>")
	}
}

func TestRenderer_EnvFuncRemoved(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "home.html"), []byte(`{{ env "HOME" }}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{Templates: config.TemplatesConfig{Dir: dir, Home: "home.html"}}
	if _, err := NewRenderer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), nil); err == nil {
		t.Fatal("NewRenderer() expected parse error for env function, got nil")
	}
}

func TestRenderer_EmptyDirectory(t *testing.T) {
	cfg := &config.Config{Templates: config.TemplatesConfig{Dir: t.TempDir(), Home: "home.html"}}
	if _, err := NewRenderer(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)), nil); err == nil {
		t.Fatal("NewRenderer() expected error for directory without templates, got nil")
	}
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	m := metrics.New()
	r := newTestRenderer(t, "", m)

	var buf bytes.Buffer
	err := r.Render(&buf, "missing.html", model.NewHomePage("author", nil), nil)
	if !errors.Is(err, ErrRender) {
		t.Fatalf("Render() error = %v, want ErrRender", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output on failure, got %q", buf.String())
	}
	assertRenderFailures(t, m, "missing.html", 1)
}

func TestRenderer_ExecutionErrorWritesNothing(t *testing.T) {
	dir := t.TempDir()
	tmpl := `<p>partial</p>{{ .author.name.first }}`
	if err := os.WriteFile(filepath.Join(dir, "home.html"), []byte(tmpl), 0o644); err != nil {
		t.Fatal(err)
	}

	m := metrics.New()
	r := newTestRenderer(t, dir, m)

	var buf bytes.Buffer
	err := r.Render(&buf, "home.html", model.NewHomePage("author", map[string]any{"name": 7}), nil)
	if !errors.Is(err, ErrRender) {
		t.Fatalf("Render() error = %v, want ErrRender", err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output on failure, got %q", buf.String())
	}
	assertRenderFailures(t, m, "home.html", 1)
}

func assertRenderFailures(t *testing.T, m *metrics.Metrics, name string, want float64) {
	t.Helper()
	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	for _, f := range families {
		if f.GetName() != "author_frontend_render_failures_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetName() == "template" && lp.GetValue() == name {
					if v := metric.GetCounter().GetValue(); v != want {
						t.Errorf("render failures = %v, want %v", v, want)
					}
					return
				}
			}
		}
	}
	t.Errorf("expected author_frontend_render_failures_total with template=%s", name)
}
