// Package locales embeds the bundled translation dictionaries.
package locales

import "embed"

// FS holds one dictionary file per locale.
//
//go:embed *.json *.yaml
var FS embed.FS
