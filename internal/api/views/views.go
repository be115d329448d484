// Package views renders the dashboard and public site HTML.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/middleware"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/i18n"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/render"
)

//go:embed templates/*.html
var files embed.FS

// LocaleKey is the echo.Context key holding the request locale.
const LocaleKey = "locale"

// rtlLocales are written right to left.
var rtlLocales = map[string]bool{"ar": true}

// Page is the data every template receives. Title is a message key.
type Page struct {
	Title   string
	Locale  string
	Session *domain.Session
	Flash   string
	Data    any
}

// PageData builds the Page for c. The locale comes from LocaleKey; the flash
// message key from the notice query parameter.
func PageData(c echo.Context, title string, data any) Page {
	locale, _ := c.Get(LocaleKey).(string)
	return Page{
		Title:   title,
		Locale:  locale,
		Session: middleware.SessionFrom(c),
		Flash:   c.QueryParam("notice"),
		Data:    data,
	}
}

// Renderer implements echo.Renderer over the embedded templates. Each page
// template is parsed together with the layout.
type Renderer struct {
	pages   map[string]*template.Template
	catalog *i18n.Catalog
}

// New parses every embedded template. catalog resolves the t function.
func New(catalog *i18n.Catalog) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template), catalog: catalog}

	funcs := template.FuncMap{
		"t":    r.translate,
		"tf":   r.translatef,
		"dir":  dir,
		"node": render.HTML,
		"now":  time.Now,
	}

	layout, err := template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("views: parse layout: %w", err)
	}

	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		base := strings.TrimSuffix(path.Base(name), ".html")
		if base == "layout" {
			continue
		}
		t, err := template.Must(layout.Clone()).ParseFS(files, name)
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		r.pages[base] = t
	}
	return r, nil
}

// Render executes the page template name inside the layout.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown template %q", name)
	}
	if p, ok := data.(Page); ok && p.Locale == "" {
		p.Locale = r.catalog.Default()
		data = p
	}
	return t.ExecuteTemplate(w, "layout", data)
}

func (r *Renderer) translate(locale, key string) string {
	return r.catalog.Translate(locale, key)
}

func (r *Renderer) translatef(locale, key string, pairs ...any) string {
	vars := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		vars[fmt.Sprint(pairs[i])] = pairs[i+1]
	}
	return r.catalog.Translatef(locale, key, vars)
}

func dir(locale string) string {
	if rtlLocales[locale] {
		return "rtl"
	}
	return "ltr"
}
