package i18n

import (
	"bytes"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"en.json": {Data: []byte(`{
			"nav": {"home": "Home", "tours": "Tours"},
			"footer.copyright": "All rights reserved",
			"greeting": "Hello {{name}}, you have {{count}} bookings",
			"only.default": "Only in English",
			"year": 2024
		}`)},
		"ar.json": {Data: []byte(`{"nav": {"home": "الرئيسية"}, "footer.copyright": ""}`)},
		"fr.yaml": {Data: []byte("nav:\n  home: Accueil\n  tours: Circuits\ngreeting: Bonjour {{name}}\n")},
		"de.json": {Data: []byte(`{"nav": {"home": "Start"`)},
	}
}

func load(t *testing.T, locales ...string) *Catalog {
	t.Helper()
	c, err := Load(testFS(), Config{Locales: locales, Default: "en"}, zerolog.Nop())
	require.NoError(t, err)
	return c
}

func TestTranslate_LocaleHit(t *testing.T) {
	c := load(t, "en", "ar", "fr")
	require.Equal(t, "الرئيسية", c.Translate("ar", "nav.home"))
	require.Equal(t, "Circuits", c.Translate("fr", "nav.tours"))
	require.Equal(t, "Home", c.Translate("en", "nav.home"))
}

func TestTranslate_KeyOnlyInDefault(t *testing.T) {
	c := load(t, "en", "ar", "fr", "de", "es")
	for _, loc := range []string{"en", "ar", "fr", "de", "es", "xx", ""} {
		require.Equal(t, "Only in English", c.Translate(loc, "only.default"), "locale %q", loc)
	}
}

func TestTranslate_EmptyMessageFallsBack(t *testing.T) {
	c := load(t, "en", "ar")
	require.Equal(t, "All rights reserved", c.Translate("ar", "footer.copyright"))
}

func TestTranslate_KeyAbsentEverywhere(t *testing.T) {
	c := load(t, "en", "ar", "fr")
	for _, loc := range []string{"en", "ar", "fr", "zz"} {
		require.Equal(t, "booking.missing_key", c.Translate(loc, "booking.missing_key"))
	}
	require.Equal(t, "", c.Translate("en", ""))
}

func TestTranslatef(t *testing.T) {
	c := load(t, "en", "fr")
	got := c.Translatef("en", "greeting", map[string]any{"name": "Mona", "count": 3})
	require.Equal(t, "Hello Mona, you have 3 bookings", got)

	require.Equal(t, "Bonjour Mona", c.Translatef("fr", "greeting", map[string]any{"name": "Mona"}))
	require.Equal(t, "Hello {{name}}, you have {{count}} bookings", c.Translatef("en", "greeting", nil))
}

func TestLoad_MalformedAndMissingFilesAreEmpty(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	c, err := Load(testFS(), Config{Locales: []string{"en", "de", "ja"}, Default: "en"}, log)
	require.NoError(t, err)
	require.True(t, c.Supported("de"))
	require.True(t, c.Supported("ja"))
	require.Equal(t, "Home", c.Translate("de", "nav.home"))
	require.Contains(t, buf.String(), `"locale":"de"`)
	require.Contains(t, buf.String(), `"locale":"ja"`)
}

func TestLoad_NonStringLeaves(t *testing.T) {
	c := load(t, "en")
	require.Equal(t, "2024", c.Translate("en", "year"))
}

func TestLoad_DefaultMustBeListed(t *testing.T) {
	_, err := Load(testFS(), Config{Locales: []string{"ar", "fr"}, Default: "en"}, zerolog.Nop())
	require.Error(t, err)

	_, err = Load(testFS(), Config{}, zerolog.Nop())
	require.Error(t, err)
}

func TestCatalog_LocalesAndMissing(t *testing.T) {
	c := load(t, "en", "fr", "fr", "ar")
	require.Equal(t, []string{"en", "fr", "ar"}, c.Locales())
	require.Equal(t, "en", c.Default())
	require.False(t, c.Supported("de"))

	require.Equal(t, []string{"footer.copyright", "only.default", "year"}, c.Missing("fr"))
	require.Empty(t, c.Missing("en"))
}

func TestCatalog_ConcurrentReads(t *testing.T) {
	c := load(t, DefaultLocales...)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(loc string) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = c.Translate(loc, "nav.home")
				_ = c.Missing(loc)
			}
		}(DefaultLocales[i%len(DefaultLocales)])
	}
	wg.Wait()
}
