// Package memory is an in-process record store. It backs tests and the
// "memory" store driver used for local development.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

// Table holds the rows of one collection in insertion order.
type Table[T any, PT interface {
	*T
	domain.Entity
}] struct {
	mu     sync.RWMutex
	name   domain.Collection
	rows   []T
	unique []string
}

// NewTable returns an empty table. Fields tagged gorm:"uniqueIndex" are
// enforced as unique, like the SQL driver does.
func NewTable[T any, PT interface {
	*T
	domain.Entity
}](name domain.Collection) *Table[T, PT] {
	return &Table[T, PT]{name: name, unique: uniqueFields(reflect.TypeOf((*T)(nil)).Elem())}
}

func (t *Table[T, PT]) FindOne(ctx context.Context, id string) (*T, error) {
	if err := ctx.Err(); err != nil {
		return nil, t.wrap(err)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := t.index(id)
	if i < 0 {
		return nil, domain.ErrNotFound
	}
	row := t.rows[i]
	return &row, nil
}

func (t *Table[T, PT]) FindMany(ctx context.Context, q ports.Query) ([]T, error) {
	if err := ctx.Err(); err != nil {
		return nil, t.wrap(err)
	}
	t.mu.RLock()
	defer t.mu.RUnlock()

	type match struct {
		row    T
		fields map[string]any
	}
	var matches []match
	for _, row := range t.rows {
		fields, err := toFields(&row)
		if err != nil {
			return nil, t.wrap(err)
		}
		if matchesFilter(fields, q.Filter) {
			matches = append(matches, match{row: row, fields: fields})
		}
	}

	if q.Sort != nil {
		sort.SliceStable(matches, func(i, j int) bool {
			c := compare(matches[i].fields[q.Sort.Field], matches[j].fields[q.Sort.Field])
			if q.Sort.Desc {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && len(matches) > q.Limit {
		matches = matches[:q.Limit]
	}

	out := make([]T, len(matches))
	for i, m := range matches {
		out[i] = m.row
	}
	return out, nil
}

func (t *Table[T, PT]) Create(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return t.wrap(err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	id := PT(entity).Meta().ID
	if id == "" {
		return fmt.Errorf("create %s: empty id: %w", t.name, domain.ErrInvalidInput)
	}
	if t.index(id) >= 0 {
		return fmt.Errorf("create %s %s: %w", t.name, id, domain.ErrConflict)
	}
	if err := t.checkUnique(entity, id); err != nil {
		return err
	}
	t.rows = append(t.rows, *entity)
	return nil
}

func (t *Table[T, PT]) Update(ctx context.Context, entity *T) error {
	if err := ctx.Err(); err != nil {
		return t.wrap(err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	meta := PT(entity).Meta()
	i := t.index(meta.ID)
	if i < 0 {
		return domain.ErrNotFound
	}
	if err := t.checkUnique(entity, meta.ID); err != nil {
		return err
	}
	created := PT(&t.rows[i]).Meta().CreatedAt
	t.rows[i] = *entity
	PT(&t.rows[i]).Meta().CreatedAt = created
	return nil
}

func (t *Table[T, PT]) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return t.wrap(err)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.index(id)
	if i < 0 {
		return domain.ErrNotFound
	}
	t.rows = append(t.rows[:i], t.rows[i+1:]...)
	return nil
}

func (t *Table[T, PT]) Count(ctx context.Context, f ports.Filter) (int64, error) {
	rows, err := t.FindMany(ctx, ports.Query{Filter: f})
	if err != nil {
		return 0, err
	}
	return int64(len(rows)), nil
}

func (t *Table[T, PT]) Sum(ctx context.Context, field string, f ports.Filter) (float64, error) {
	rows, err := t.FindMany(ctx, ports.Query{Filter: f})
	if err != nil {
		return 0, err
	}
	var total float64
	for i := range rows {
		fields, err := toFields(&rows[i])
		if err != nil {
			return 0, t.wrap(err)
		}
		v, ok := fields[field].(float64)
		if !ok {
			return 0, fmt.Errorf("sum %s.%s: not a number: %w", t.name, field, domain.ErrInvalidInput)
		}
		total += v
	}
	return total, nil
}

// Len reports the number of stored rows.
func (t *Table[T, PT]) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rows)
}

func (t *Table[T, PT]) index(id string) int {
	for i := range t.rows {
		if PT(&t.rows[i]).Meta().ID == id {
			return i
		}
	}
	return -1
}

func (t *Table[T, PT]) checkUnique(entity *T, self string) error {
	if len(t.unique) == 0 {
		return nil
	}
	fields, err := toFields(entity)
	if err != nil {
		return t.wrap(err)
	}
	for i := range t.rows {
		if PT(&t.rows[i]).Meta().ID == self {
			continue
		}
		other, err := toFields(&t.rows[i])
		if err != nil {
			return t.wrap(err)
		}
		for _, name := range t.unique {
			if fields[name] != nil && fields[name] == other[name] {
				return fmt.Errorf("%s.%s %v: %w", t.name, name, fields[name], domain.ErrConflict)
			}
		}
	}
	return nil
}

func (t *Table[T, PT]) wrap(err error) error {
	return fmt.Errorf("%s: %w: %v", t.name, domain.ErrStoreUnavailable, err)
}

// toFields views a row as its JSON object, which uses the stored field names.
func toFields(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

func matchesFilter(fields map[string]any, f ports.Filter) bool {
	for k, want := range f {
		got, ok := fields[k]
		if !ok {
			if want == nil || fmt.Sprint(want) == "" {
				continue
			}
			return false
		}
		if fmt.Sprint(got) != fmt.Sprint(want) {
			return false
		}
	}
	return true
}

func compare(a, b any) int {
	switch av := a.(type) {
	case float64:
		bv, _ := b.(float64)
		switch {
		case av < bv:
			return -1
		case av > bv:
			return 1
		}
		return 0
	case bool:
		bv, _ := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	case string:
		bv, _ := b.(string)
		at, aerr := time.Parse(time.RFC3339Nano, av)
		bt, berr := time.Parse(time.RFC3339Nano, bv)
		if aerr == nil && berr == nil {
			return at.Compare(bt)
		}
		return strings.Compare(av, bv)
	}
	return 0
}

// uniqueFields lists the JSON names of fields carrying a gorm uniqueIndex tag.
func uniqueFields(rt reflect.Type) []string {
	var out []string
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Anonymous && f.Type.Kind() == reflect.Struct {
			out = append(out, uniqueFields(f.Type)...)
			continue
		}
		if !strings.Contains(f.Tag.Get("gorm"), "uniqueIndex") {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name != "" && name != "-" {
			out = append(out, name)
		}
	}
	return out
}
