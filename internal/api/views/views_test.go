package views

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/i18n"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/render"
)

func testRenderer(t *testing.T) *Renderer {
	t.Helper()
	fsys := fstest.MapFS{
		"en.json": {Data: []byte(`{
			"site": {"name": "Travel Catalog"},
			"nav": {"home": "Home", "signin": "Sign in"},
			"footer": {"copyright": "© {{year}} Travel Catalog"},
			"notice": {"saved": "Saved."},
			"collection": {"policies": "Policies"},
			"field": {"title": "Title"},
			"list": {"empty": "Nothing here yet."},
			"action": {"new": "New", "edit": "Edit", "delete": "Delete"}
		}`)},
		"ar.json": {Data: []byte(`{"nav": {"home": "الرئيسية"}}`)},
	}
	catalog, err := i18n.Load(fsys, i18n.Config{Locales: []string{"en", "ar"}, Default: "en"}, zerolog.Nop())
	require.NoError(t, err)
	r, err := New(catalog)
	require.NoError(t, err)
	return r
}

func TestRenderer_ListPage(t *testing.T) {
	r := testRenderer(t)
	var buf bytes.Buffer

	err := r.Render(&buf, "list", Page{
		Title:  "collection.policies",
		Locale: "en",
		Flash:  "saved",
		Data: ListView{
			Collection: "policies",
			Columns:    []string{"title"},
			Rows:       []Row{{ID: "p-1", Cells: []string{"Cancellation <b>policy</b>"}}},
		},
	}, nil)
	require.NoError(t, err)

	html := buf.String()
	for _, want := range []string{
		`<html lang="en" dir="ltr">`,
		`<title>Policies | Travel Catalog</title>`,
		`<p class="flash">Saved.</p>`,
		`<th>Title</th>`,
		`Cancellation &lt;b&gt;policy&lt;/b&gt;`,
		`href="/dashboard/policies/p-1/edit"`,
		`action="/dashboard/policies/p-1/delete"`,
		`Travel Catalog</footer>`,
	} {
		require.Contains(t, html, want)
	}
	require.NotContains(t, html, "{{year}}")
}

func TestRenderer_EmptyListAndFallbackLocale(t *testing.T) {
	r := testRenderer(t)
	var buf bytes.Buffer

	err := r.Render(&buf, "list", Page{
		Title:  "collection.policies",
		Locale: "ar",
		Data:   ListView{Collection: "policies", Columns: []string{"title"}},
	}, nil)
	require.NoError(t, err)

	html := buf.String()
	require.Contains(t, html, `dir="rtl"`)
	require.Contains(t, html, "الرئيسية")
	// Missing Arabic keys fall back to English.
	require.Contains(t, html, "Nothing here yet.")
	require.NotContains(t, html, `class="flash"`)
}

func TestRenderer_DefaultsLocale(t *testing.T) {
	r := testRenderer(t)
	var buf bytes.Buffer

	err := r.Render(&buf, "error", Page{Title: "error.title", Data: ErrorPage{Code: 404, Message: "not found"}}, nil)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `<html lang="en" dir="ltr">`)
	require.Contains(t, buf.String(), "<h1>404</h1>")
	// Unknown keys render as the key itself.
	require.Contains(t, buf.String(), "<title>error.title | Travel Catalog</title>")
}

func TestRenderer_PublicPageBlocks(t *testing.T) {
	r := testRenderer(t)
	var buf bytes.Buffer

	err := r.Render(&buf, "page", Page{
		Title:  "About",
		Locale: "en",
		Data: PublicPageView{
			Page: domain.Page{Title: "About us"},
			Blocks: []render.Node{
				render.CallToAction{Text: "Book now", URL: "/book"},
			},
		},
	}, nil)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "<h1>About us</h1>")
	require.Contains(t, buf.String(), "Book now")
	require.Contains(t, buf.String(), `/book`)
}

func TestRenderer_UnknownTemplate(t *testing.T) {
	r := testRenderer(t)
	err := r.Render(&bytes.Buffer{}, "nope", Page{}, nil)
	require.Error(t, err)
}

func TestPageData(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/fr/pages/about?notice=deleted", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.Set(LocaleKey, "fr")

	p := PageData(c, "home.title", 42)
	require.Equal(t, "fr", p.Locale)
	require.Equal(t, "deleted", p.Flash)
	require.Equal(t, "home.title", p.Title)
	require.Nil(t, p.Session)
	require.Equal(t, 42, p.Data)
}

func TestDir(t *testing.T) {
	require.Equal(t, "rtl", dir("ar"))
	for _, loc := range []string{"en", "fr", "ja", ""} {
		require.True(t, strings.EqualFold(dir(loc), "ltr"))
	}
}
