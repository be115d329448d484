package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

// CatalogOptions configures a CatalogService for one collection.
type CatalogOptions[T any] struct {
	Collection domain.Collection
	// Read is the access level for List and Get. Mutations always need ADMIN.
	Read Access
	// Scope is merged into every query. FAQs use it to stay inside their section.
	Scope ports.Filter
	// Guard, when set, rejects repeated create submissions carrying the same key.
	Guard ports.SubmissionGuard
	// Prepare runs before every write; existing is nil on create.
	Prepare func(entity, existing *T) error
}

// DeleteResult reports the outcome of a delete. Deleting an id that does not
// exist is not an error; Existed is false instead.
type DeleteResult struct {
	ID      string
	Existed bool
}

// CatalogService implements the managed-entity use cases shared by every
// dashboard collection.
type CatalogService[T any, PT interface {
	*T
	domain.Entity
}] struct {
	repo ports.Repository[T]
	opts CatalogOptions[T]
	log  zerolog.Logger
	now  func() time.Time
}

// NewCatalogService returns a CatalogService over repo.
func NewCatalogService[T any, PT interface {
	*T
	domain.Entity
}](repo ports.Repository[T], opts CatalogOptions[T], log zerolog.Logger) *CatalogService[T, PT] {
	if opts.Read == "" {
		opts.Read = AccessAdmin
	}
	return &CatalogService[T, PT]{
		repo: repo,
		opts: opts,
		log:  log.With().Str("collection", string(opts.Collection)).Logger(),
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Collection returns the collection this service manages.
func (s *CatalogService[T, PT]) Collection() domain.Collection { return s.opts.Collection }

// List returns the records matching q within the service scope.
func (s *CatalogService[T, PT]) List(ctx context.Context, sess *domain.Session, q ports.Query) ([]T, error) {
	if _, err := Permit(sess, s.opts.Read); err != nil {
		return nil, err
	}
	q.Filter = s.scoped(q.Filter)
	items, err := s.repo.FindMany(ctx, q)
	if err != nil {
		return nil, s.storeErr("list", err)
	}
	return items, nil
}

// Get returns a single record by id.
func (s *CatalogService[T, PT]) Get(ctx context.Context, sess *domain.Session, id string) (*T, error) {
	if _, err := Permit(sess, s.opts.Read); err != nil {
		return nil, err
	}
	return s.find(ctx, id)
}

// GetPublic returns an active record by slug for the public site. Inactive
// records are reported as not found.
func (s *CatalogService[T, PT]) GetPublic(ctx context.Context, slug string) (*T, error) {
	items, err := s.repo.FindMany(ctx, ports.Query{
		Filter: s.scoped(ports.Filter{"slug": slug}),
		Limit:  1,
	})
	if err != nil {
		return nil, s.storeErr("get public", err)
	}
	if len(items) == 0 {
		return nil, domain.ErrNotFound
	}
	if a, ok := any(PT(&items[0])).(domain.Activatable); ok && !a.Active() {
		return nil, domain.ErrNotFound
	}
	return &items[0], nil
}

// ListPublic returns the active records matching q for the public site. No
// session is needed.
func (s *CatalogService[T, PT]) ListPublic(ctx context.Context, q ports.Query) ([]T, error) {
	q.Filter = s.scoped(q.Filter)
	items, err := s.repo.FindMany(ctx, q)
	if err != nil {
		return nil, s.storeErr("list public", err)
	}
	out := items[:0]
	for i := range items {
		if a, ok := any(PT(&items[i])).(domain.Activatable); ok && !a.Active() {
			continue
		}
		out = append(out, items[i])
	}
	return out, nil
}

// Create stores entity as a new record with a fresh id.
func (s *CatalogService[T, PT]) Create(ctx context.Context, sess *domain.Session, entity *T, submissionKey string) (*T, error) {
	// 1. Only admins mutate.
	if _, err := Authorize(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}

	if s.opts.Prepare != nil {
		if err := s.opts.Prepare(entity, nil); err != nil {
			return nil, err
		}
	}
	if err := s.checkSlug(ctx, entity, ""); err != nil {
		return nil, err
	}

	// 2. Double-submit guard, claimed only once the input is known good.
	// Redis trouble must not block the admin.
	claimed := false
	if s.opts.Guard != nil && submissionKey != "" {
		first, err := s.opts.Guard.Claim(ctx, string(s.opts.Collection), submissionKey)
		if err != nil {
			s.log.Warn().Err(err).Str("key", submissionKey).Msg("submission guard failed, creating anyway")
		} else if !first {
			return nil, domain.ErrDuplicateSubmission
		}
		claimed = err == nil
	}

	// 3. Assign identity.
	now := s.now()
	meta := PT(entity).Meta()
	meta.ID = ulid.Make().String()
	meta.CreatedAt = now
	meta.UpdatedAt = now

	if err := s.repo.Create(ctx, entity); err != nil {
		if claimed {
			s.release(ctx, submissionKey)
		}
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, s.storeErr("create", err)
	}

	s.log.Info().Str("id", meta.ID).Str("user_id", sess.UserID).Msg("record created")
	return entity, nil
}

// Update replaces the record id with entity. A missing id short-circuits
// with domain.ErrNotFound before anything is written.
func (s *CatalogService[T, PT]) Update(ctx context.Context, sess *domain.Session, id string, entity *T) (*T, error) {
	if _, err := Authorize(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}

	existing, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.opts.Prepare != nil {
		if err := s.opts.Prepare(entity, existing); err != nil {
			return nil, err
		}
	}
	if err := s.checkSlug(ctx, entity, id); err != nil {
		return nil, err
	}

	meta := PT(entity).Meta()
	meta.ID = id
	meta.CreatedAt = PT(existing).Meta().CreatedAt
	meta.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, entity); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if errors.Is(err, domain.ErrConflict) {
			return nil, err
		}
		return nil, s.storeErr("update", err)
	}

	s.log.Info().Str("id", id).Str("user_id", sess.UserID).Msg("record updated")
	return entity, nil
}

// Delete removes the record id.
func (s *CatalogService[T, PT]) Delete(ctx context.Context, sess *domain.Session, id string) (DeleteResult, error) {
	res := DeleteResult{ID: id}
	if _, err := Authorize(sess, domain.RoleAdmin); err != nil {
		return res, err
	}

	if _, err := s.find(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return res, nil
		}
		return res, err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return res, nil
		}
		return res, s.storeErr("delete", err)
	}

	res.Existed = true
	s.log.Info().Str("id", id).Str("user_id", sess.UserID).Msg("record deleted")
	return res, nil
}

func (s *CatalogService[T, PT]) find(ctx context.Context, id string) (*T, error) {
	if len(s.opts.Scope) == 0 {
		item, err := s.repo.FindOne(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				s.log.Debug().Str("id", id).Msg("record not found")
				return nil, err
			}
			return nil, s.storeErr("find", err)
		}
		return item, nil
	}

	items, err := s.repo.FindMany(ctx, ports.Query{Filter: s.scoped(ports.Filter{"id": id}), Limit: 1})
	if err != nil {
		return nil, s.storeErr("find", err)
	}
	if len(items) == 0 {
		s.log.Debug().Str("id", id).Msg("record not found in scope")
		return nil, domain.ErrNotFound
	}
	return &items[0], nil
}

// checkSlug rejects an empty slug or one already held by a record other than self.
func (s *CatalogService[T, PT]) checkSlug(ctx context.Context, entity *T, self string) error {
	sl, ok := any(PT(entity)).(domain.Slugged)
	if !ok {
		return nil
	}
	slug := sl.SlugValue()
	if slug == "" {
		return fmt.Errorf("slug is required: %w", domain.ErrInvalidInput)
	}
	items, err := s.repo.FindMany(ctx, ports.Query{Filter: ports.Filter{"slug": slug}, Limit: 1})
	if err != nil {
		return s.storeErr("check slug", err)
	}
	if len(items) > 0 && PT(&items[0]).Meta().ID != self {
		return domain.ErrDuplicateSlug
	}
	return nil
}

// release frees submissionKey after a failed create.
func (s *CatalogService[T, PT]) release(ctx context.Context, key string) {
	if err := s.opts.Guard.Release(ctx, string(s.opts.Collection), key); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("submission guard release failed")
	}
}

func (s *CatalogService[T, PT]) scoped(f ports.Filter) ports.Filter {
	if len(s.opts.Scope) == 0 {
		return f
	}
	out := make(ports.Filter, len(f)+len(s.opts.Scope))
	for k, v := range f {
		out[k] = v
	}
	for k, v := range s.opts.Scope {
		out[k] = v
	}
	return out
}

func (s *CatalogService[T, PT]) storeErr(op string, err error) error {
	s.log.Error().Err(err).Str("op", op).Msg("record store call failed")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		err = fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s %s: %w", op, s.opts.Collection, err)
}
