package render

import (
	"bytes"
	"html/template"
)

var blockTemplates = template.Must(template.New("blocks").Parse(
	`{{define "CALL_TO_ACTION"}}<div class="block block-cta"><a href="{{.URL}}">{{.Text}}</a></div>{{end}}` +
		`{{define "IMAGE"}}<figure class="block block-image"><img src="{{.Src}}" alt="{{.Alt}}" loading="lazy"></figure>{{end}}` +
		`{{define "VIDEO"}}<div class="block block-video"><video controls src="{{.URL}}"></video></div>{{end}}` +
		`{{define "TEXT"}}<div class="block block-text">{{.}}</div>{{end}}` +
		`{{define "GALLERY"}}<div class="block block-gallery">{{range .Images}}<img src="{{.Src}}" alt="{{.Alt}}" loading="lazy">{{end}}</div>{{end}}`,
))

// HTML renders n as an HTML fragment. A nil node renders as nothing.
func HTML(n Node) template.HTML {
	if n == nil {
		return ""
	}

	var data any = n
	if t, ok := n.(Text); ok {
		// already sanitised by Decode
		data = template.HTML(t.HTML)
	}

	var buf bytes.Buffer
	if err := blockTemplates.ExecuteTemplate(&buf, string(n.Type()), data); err != nil {
		return ""
	}
	return template.HTML(buf.String())
}
