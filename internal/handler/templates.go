package handler

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/kx0101/devoverlay/internal/models"
)

// Templates holds one parsed tree per page, each combining the base layout,
// every partial and the page itself. Partials can also be rendered alone.
type Templates struct {
	pages    map[string]*template.Template
	partials *template.Template
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"upper": strings.ToUpper,
		"add":   func(a, b int) int { return a + b },
		"deref": func(p *int) int {
			if p == nil {
				return 0
			}
			return *p
		},
		"clock": func(ts string) string {
			t, err := time.Parse(models.TimestampLayout, ts)
			if err != nil {
				return ts
			}
			return t.Local().Format("15:04:05")
		},
		"pretty": func(v any) string {
			b, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				return fmt.Sprintf("%+v", v)
			}
			return string(b)
		},
		"levelClass": func(l models.Level) string {
			switch l {
			case models.LevelError:
				return "log-error"
			case models.LevelWarn:
				return "log-warn"
			case models.LevelDebug:
				return "log-debug"
			default:
				return "log-info"
			}
		},
	}
}

func NewTemplates(templatesFS fs.FS) (*Templates, error) {
	if templatesFS == nil {
		return nil, fmt.Errorf("templates fs is nil")
	}

	funcs := templateFuncs()

	subFS, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, fmt.Errorf("getting templates sub fs: %w", err)
	}

	t := &Templates{pages: make(map[string]*template.Template)}

	baseContent, err := fs.ReadFile(subFS, "layouts/base.html")
	if err != nil {
		return nil, fmt.Errorf("reading base layout: %w", err)
	}

	var partialContents []string
	err = fs.WalkDir(subFS, "partials", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return err
		}
		content, err := fs.ReadFile(subFS, p)
		if err != nil {
			return err
		}
		partialContents = append(partialContents, string(content))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading partials: %w", err)
	}

	partialsStr := strings.Join(partialContents, "\n")
	t.partials, err = template.New("partials").Funcs(funcs).Parse(partialsStr)
	if err != nil {
		return nil, fmt.Errorf("parsing partials: %w", err)
	}

	err = fs.WalkDir(subFS, "pages", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(p, ".html") {
			return err
		}

		pageContent, err := fs.ReadFile(subFS, p)
		if err != nil {
			return fmt.Errorf("reading page %s: %w", p, err)
		}

		combined := string(baseContent) + "\n" + partialsStr + "\n" + string(pageContent)

		tmpl, err := template.New("base").Funcs(funcs).Parse(combined)
		if err != nil {
			return fmt.Errorf("parsing page %s: %w", p, err)
		}

		t.pages[path.Base(p)] = tmpl
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading pages: %w", err)
	}

	return t, nil
}

func (t *Templates) Render(w http.ResponseWriter, name string, data any) error {
	tmpl, ok := t.pages[path.Base(name)]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tmpl.ExecuteTemplate(w, "base", data)
}

func (t *Templates) RenderPartial(w http.ResponseWriter, name string, data any) error {
	partialName := strings.TrimSuffix(path.Base(name), ".html")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return t.partials.ExecuteTemplate(w, partialName, data)
}
