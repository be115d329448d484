// Package i18n loads per-locale message dictionaries once at start-up and
// resolves keys with a fallback to the default locale.
package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// DefaultLocales is the full locale set the public site ships with.
var DefaultLocales = []string{"en", "ar", "es", "fr", "de", "it", "pt", "ru", "zh", "ja"}

// Config selects the locales to load.
type Config struct {
	Locales []string
	Default string
}

// Dictionary is a flat key -> message table for one locale.
type Dictionary map[string]string

// Catalog holds every loaded dictionary. It is never modified after Load
// and is safe for concurrent use.
type Catalog struct {
	def     string
	locales []string
	dicts   map[string]Dictionary
}

var extensions = []string{".json", ".yaml", ".yml"}

// Load reads <locale>.json, .yaml or .yml from fsys for each configured
// locale. A missing or malformed file is logged and yields an empty
// dictionary; only an unusable Config is an error.
func Load(fsys fs.FS, cfg Config, log zerolog.Logger) (*Catalog, error) {
	if len(cfg.Locales) == 0 {
		return nil, errors.New("i18n: no locales configured")
	}
	if cfg.Default == "" {
		cfg.Default = cfg.Locales[0]
	}

	c := &Catalog{def: cfg.Default, dicts: make(map[string]Dictionary, len(cfg.Locales))}
	for _, loc := range cfg.Locales {
		loc = strings.TrimSpace(loc)
		if loc == "" {
			continue
		}
		if _, dup := c.dicts[loc]; dup {
			continue
		}
		c.locales = append(c.locales, loc)

		dict, file, err := readLocale(fsys, loc)
		if err != nil {
			log.Warn().Err(err).Str("locale", loc).Str("file", file).Msg("translation dictionary not loaded, using empty dictionary")
			dict = Dictionary{}
		}
		c.dicts[loc] = dict
	}

	if _, ok := c.dicts[c.def]; !ok {
		return nil, fmt.Errorf("i18n: default locale %q is not in the locale list %v", c.def, c.locales)
	}
	return c, nil
}

// Translate returns the message for key in locale, then in the default
// locale, then key itself. Empty messages count as missing.
func (c *Catalog) Translate(locale, key string) string {
	if v := c.dicts[locale][key]; v != "" {
		return v
	}
	if v := c.dicts[c.def][key]; v != "" {
		return v
	}
	return key
}

// Translatef is Translate followed by {{name}} substitution from vars.
func (c *Catalog) Translatef(locale, key string, vars map[string]any) string {
	msg := c.Translate(locale, key)
	for k, v := range vars {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", fmt.Sprint(v))
	}
	return msg
}

// Supported reports whether locale was configured.
func (c *Catalog) Supported(locale string) bool {
	_, ok := c.dicts[locale]
	return ok
}

// Default returns the fallback locale.
func (c *Catalog) Default() string { return c.def }

// Locales returns the configured locales in configuration order.
func (c *Catalog) Locales() []string {
	out := make([]string, len(c.locales))
	copy(out, c.locales)
	return out
}

// Missing lists, sorted, the keys present in the default dictionary that
// locale does not translate.
func (c *Catalog) Missing(locale string) []string {
	dict := c.dicts[locale]
	var out []string
	for k := range c.dicts[c.def] {
		if dict[k] == "" {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func readLocale(fsys fs.FS, locale string) (Dictionary, string, error) {
	for _, ext := range extensions {
		name := locale + ext
		raw, err := fs.ReadFile(fsys, name)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, name, err
		}

		var tree map[string]any
		switch path.Ext(name) {
		case ".json":
			err = json.Unmarshal(raw, &tree)
		default:
			err = yaml.Unmarshal(raw, &tree)
		}
		if err != nil {
			return nil, name, fmt.Errorf("parse %s: %w", name, err)
		}

		dict := Dictionary{}
		flatten("", tree, dict)
		return dict, name, nil
	}
	return nil, locale + ".{json,yaml,yml}", fs.ErrNotExist
}

// flatten joins nested keys with dots. Non-string leaves are stringified.
func flatten(prefix string, tree map[string]any, out Dictionary) {
	for k, v := range tree {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch val := v.(type) {
		case map[string]any:
			flatten(key, val, out)
		case string:
			out[key] = val
		case nil:
		default:
			out[key] = fmt.Sprint(val)
		}
	}
}
