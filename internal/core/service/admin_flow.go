package service

import (
	"context"
	"errors"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

// PageState is the state an admin CRUD page is in after handling a request.
type PageState string

const (
	StateLoading  PageState = "loading"
	StateDenied   PageState = "denied"
	StateListing  PageState = "listing"
	StateEditing  PageState = "editing"
	StateCreating PageState = "creating"
	StateDeleted  PageState = "deleted"
)

// Outcome is what an admin page renders. Err carries a store or validation
// failure to surface alongside the state; a denied request never has Items.
type Outcome[T any] struct {
	State   PageState
	Items   []T
	Item    *T
	Err     error
	Existed bool
}

// AdminFlow drives the admin CRUD page state machine on top of a CatalogService.
type AdminFlow[T any, PT interface {
	*T
	domain.Entity
}] struct {
	svc  *CatalogService[T, PT]
	sort *ports.Sort
}

// NewAdminFlow returns an AdminFlow listing records in sort order (creation
// order when sort is nil).
func NewAdminFlow[T any, PT interface {
	*T
	domain.Entity
}](svc *CatalogService[T, PT], sort *ports.Sort) *AdminFlow[T, PT] {
	return &AdminFlow[T, PT]{svc: svc, sort: sort}
}

// Service returns the underlying CatalogService.
func (f *AdminFlow[T, PT]) Service() *CatalogService[T, PT] { return f.svc }

// List moves Loading to Listing, or to Denied when the read policy refuses.
func (f *AdminFlow[T, PT]) List(ctx context.Context, sess *domain.Session) Outcome[T] {
	items, err := f.svc.List(ctx, sess, ports.Query{Sort: f.sort})
	if errors.Is(err, domain.ErrDenied) {
		return Outcome[T]{State: StateDenied, Err: err}
	}
	return Outcome[T]{State: StateListing, Items: items, Err: err}
}

// Open enters Creating when id is empty, Editing otherwise. Both require
// ADMIN. An unknown id leaves the page in Editing with domain.ErrNotFound
// and nothing loaded.
func (f *AdminFlow[T, PT]) Open(ctx context.Context, sess *domain.Session, id string) Outcome[T] {
	if _, err := Authorize(sess, domain.RoleAdmin); err != nil {
		return Outcome[T]{State: StateDenied, Err: err}
	}
	if id == "" {
		return Outcome[T]{State: StateCreating, Item: new(T)}
	}
	item, err := f.svc.Get(ctx, sess, id)
	if err != nil {
		return Outcome[T]{State: StateEditing, Err: err}
	}
	return Outcome[T]{State: StateEditing, Item: item}
}

// Submit saves entity (create when id is empty) and returns to Listing on
// success. A failed save stays in Creating/Editing with the submitted values.
func (f *AdminFlow[T, PT]) Submit(ctx context.Context, sess *domain.Session, id string, entity *T, submissionKey string) Outcome[T] {
	state := StateEditing
	if id == "" {
		state = StateCreating
	}

	var (
		saved *T
		err   error
	)
	if id == "" {
		saved, err = f.svc.Create(ctx, sess, entity, submissionKey)
	} else {
		saved, err = f.svc.Update(ctx, sess, id, entity)
	}
	if errors.Is(err, domain.ErrDenied) {
		return Outcome[T]{State: StateDenied, Err: err}
	}
	if err != nil {
		return Outcome[T]{State: state, Item: entity, Err: err}
	}

	out := f.List(ctx, sess)
	out.Item = saved
	return out
}

// Remove deletes id and moves to Deleted. Existed reports whether a record
// was actually removed; the page looks the same either way.
func (f *AdminFlow[T, PT]) Remove(ctx context.Context, sess *domain.Session, id string) Outcome[T] {
	res, err := f.svc.Delete(ctx, sess, id)
	if errors.Is(err, domain.ErrDenied) {
		return Outcome[T]{State: StateDenied, Err: err}
	}
	if err != nil {
		return Outcome[T]{State: StateListing, Err: err}
	}
	return Outcome[T]{State: StateDeleted, Existed: res.Existed}
}
