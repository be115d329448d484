package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

// Table implements ports.Repository over the table gorm derives from T.
type Table[T any, PT interface {
	*T
	domain.Entity
}] struct {
	db   *gorm.DB
	name domain.Collection
}

func NewTable[T any, PT interface {
	*T
	domain.Entity
}](db *gorm.DB, name domain.Collection) *Table[T, PT] {
	return &Table[T, PT]{db: db, name: name}
}

func (t *Table[T, PT]) FindOne(ctx context.Context, id string) (*T, error) {
	var row T
	if err := t.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error; err != nil {
		return nil, t.translate("find one", err)
	}
	return &row, nil
}

func (t *Table[T, PT]) FindMany(ctx context.Context, q ports.Query) ([]T, error) {
	tx := t.where(ctx, q.Filter)

	order := clause.OrderByColumn{Column: clause.Column{Name: "created_at"}}
	if q.Sort != nil {
		order = clause.OrderByColumn{Column: clause.Column{Name: q.Sort.Field}, Desc: q.Sort.Desc}
	}
	tx = tx.Order(order)
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, t.translate("find many", err)
	}
	return rows, nil
}

func (t *Table[T, PT]) Create(ctx context.Context, entity *T) error {
	if err := t.db.WithContext(ctx).Create(entity).Error; err != nil {
		return t.translate("create", err)
	}
	return nil
}

// Update writes every column except id and created_at, zero values included.
func (t *Table[T, PT]) Update(ctx context.Context, entity *T) error {
	res := t.db.WithContext(ctx).
		Model(entity).
		Where("id = ?", PT(entity).Meta().ID).
		Select("*").
		Omit("id", "created_at").
		Updates(entity)
	if res.Error != nil {
		return t.translate("update", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *Table[T, PT]) Delete(ctx context.Context, id string) error {
	res := t.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return t.translate("delete", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (t *Table[T, PT]) Count(ctx context.Context, f ports.Filter) (int64, error) {
	var n int64
	if err := t.where(ctx, f).Count(&n).Error; err != nil {
		return 0, t.translate("count", err)
	}
	return n, nil
}

func (t *Table[T, PT]) Sum(ctx context.Context, field string, f ports.Filter) (float64, error) {
	var total float64
	row := t.where(ctx, f).Select("COALESCE(SUM(?), 0)", clause.Column{Name: field}).Row()
	if err := row.Scan(&total); err != nil {
		return 0, t.translate("sum", err)
	}
	return total, nil
}

func (t *Table[T, PT]) where(ctx context.Context, f ports.Filter) *gorm.DB {
	tx := t.db.WithContext(ctx).Model(new(T))
	if len(f) > 0 {
		tx = tx.Where(map[string]any(f))
	}
	return tx
}

func (t *Table[T, PT]) translate(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s %s: %w", op, t.name, domain.ErrConflict)
	}
	return fmt.Errorf("%s %s: %w: %v", op, t.name, domain.ErrStoreUnavailable, err)
}
