package handler

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/views"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
)

const dateLayout = "2006-01-02"

// formJSON converts posted form values into the JSON object the entity
// decodes from, typed according to each field's kind.
func formJSON(fields []views.Field, form url.Values) ([]byte, error) {
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		raw := strings.TrimSpace(form.Get(f.Name))
		switch f.Kind {
		case views.KindCheckbox:
			out[f.Name] = form.Has(f.Name)
		case views.KindNumber:
			if raw == "" {
				continue
			}
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("%s must be a number: %w", f.Name, domain.ErrInvalidInput)
			}
			out[f.Name] = n
		case views.KindDate:
			if raw == "" {
				continue
			}
			d, err := time.Parse(dateLayout, raw)
			if err != nil {
				return nil, fmt.Errorf("%s must be a date (YYYY-MM-DD): %w", f.Name, domain.ErrInvalidInput)
			}
			out[f.Name] = d.UTC()
		case views.KindList:
			items := []string{}
			for _, line := range strings.Split(raw, "\n") {
				if line = strings.TrimSpace(line); line != "" {
					items = append(items, line)
				}
			}
			out[f.Name] = items
		default:
			out[f.Name] = raw
		}
	}
	return json.Marshal(out)
}

// fieldValues returns the stored values of entity keyed by field name, in
// the string form a form control or list cell shows.
func fieldValues(entity any) (map[string]string, error) {
	raw, err := json.Marshal(entity)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = display(v)
	}
	return out, nil
}

func display(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		if t, err := time.Parse(time.RFC3339Nano, x); err == nil {
			if t.IsZero() {
				return ""
			}
			return t.Format(dateLayout)
		}
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	case []any:
		parts := make([]string, 0, len(x))
		for _, p := range x {
			parts = append(parts, display(p))
		}
		return strings.Join(parts, "\n")
	}
	return fmt.Sprint(v)
}

// fillFields copies the field specs with values taken from entity.
func fillFields(specs []views.Field, entity any) []views.Field {
	out := make([]views.Field, len(specs))
	copy(out, specs)
	if entity == nil {
		return out
	}
	values, err := fieldValues(entity)
	if err != nil {
		return out
	}
	for i := range out {
		v := values[out[i].Name]
		if out[i].Kind == views.KindCheckbox {
			out[i].Checked = v == "true"
			continue
		}
		if out[i].Kind == views.KindPassword {
			continue
		}
		out[i].Value = v
	}
	return out
}
