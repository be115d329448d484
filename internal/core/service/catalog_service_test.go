package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/db/memory"
)

func destinationService(store *ports.Store, opts CatalogOptions[domain.Destination]) *CatalogService[domain.Destination, *domain.Destination] {
	opts.Collection = domain.CollectionDestinations
	return NewCatalogService[domain.Destination](store.Destinations, opts, zerolog.Nop())
}

func faqService(store *ports.Store) *CatalogService[domain.PageContent, *domain.PageContent] {
	return NewCatalogService[domain.PageContent](store.PageContents, CatalogOptions[domain.PageContent]{
		Collection: domain.CollectionPageContents,
		Read:       AccessSignedIn,
		Scope:      ports.Filter{"section": domain.SectionFAQ},
		Prepare: func(p, _ *domain.PageContent) error {
			p.Section = domain.SectionFAQ
			return nil
		},
	}, zerolog.Nop())
}

func nile() *domain.Destination {
	return &domain.Destination{Name: "Nile Valley", Slug: "nile-valley", Country: "Egypt", IsActive: true}
}

func countAll[T any](t *testing.T, repo ports.Repository[T]) int64 {
	t.Helper()
	n, err := repo.Count(context.Background(), nil)
	require.NoError(t, err)
	return n
}

// ---------------------------------------------------------------------------
// Create
// ---------------------------------------------------------------------------

func TestCatalogService_CreateAssignsFreshIDs(t *testing.T) {
	store := memory.New()
	svc := destinationService(store, CatalogOptions[domain.Destination]{})
	ctx := context.Background()

	a, err := svc.Create(ctx, adminSession, nile(), "")
	require.NoError(t, err)
	b, err := svc.Create(ctx, adminSession, &domain.Destination{Name: "Red Sea", Slug: "red-sea"}, "")
	require.NoError(t, err)

	require.NotEmpty(t, a.ID)
	require.NotEmpty(t, b.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.False(t, a.CreatedAt.IsZero())
	require.Equal(t, a.CreatedAt, a.UpdatedAt)
	require.EqualValues(t, 2, countAll(t, store.Destinations))
}

func TestCatalogService_CreateDeniedWithoutAdmin(t *testing.T) {
	store := memory.New()
	svc := destinationService(store, CatalogOptions[domain.Destination]{})

	for name, sess := range map[string]*domain.Session{
		"anonymous": nil,
		"user":      userSession,
		"manager":   {UserID: "m-1", Role: domain.RoleManager},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), sess, nile(), "")
			require.ErrorIs(t, err, domain.ErrDenied)
		})
	}
	require.Zero(t, countAll(t, store.Destinations))
}

func TestCatalogService_CreateRejectsDuplicateSlug(t *testing.T) {
	store := memory.New()
	svc := destinationService(store, CatalogOptions[domain.Destination]{})
	ctx := context.Background()

	_, err := svc.Create(ctx, adminSession, nile(), "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, adminSession, nile(), "")
	require.ErrorIs(t, err, domain.ErrDuplicateSlug)
	require.EqualValues(t, 1, countAll(t, store.Destinations))
}

func TestCatalogService_CreateRequiresSlug(t *testing.T) {
	svc := destinationService(memory.New(), CatalogOptions[domain.Destination]{})

	_, err := svc.Create(context.Background(), adminSession, &domain.Destination{Name: "Nameless"}, "")
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCatalogService_CreateSubmissionGuard(t *testing.T) {
	store := memory.New()
	guard := newStubGuard()
	svc := destinationService(store, CatalogOptions[domain.Destination]{Guard: guard})
	ctx := context.Background()

	_, err := svc.Create(ctx, adminSession, nile(), "form-1")
	require.NoError(t, err)

	_, err = svc.Create(ctx, adminSession, &domain.Destination{Name: "Red Sea", Slug: "red-sea"}, "form-1")
	require.ErrorIs(t, err, domain.ErrDuplicateSubmission)

	_, err = svc.Create(ctx, adminSession, &domain.Destination{Name: "Red Sea", Slug: "red-sea"}, "form-2")
	require.NoError(t, err)
	require.EqualValues(t, 2, countAll(t, store.Destinations))
}

func TestCatalogService_CreateRetryAfterInvalidInputKeepsKey(t *testing.T) {
	store := memory.New()
	guard := newStubGuard()
	svc := destinationService(store, CatalogOptions[domain.Destination]{Guard: guard})
	ctx := context.Background()

	_, err := svc.Create(ctx, adminSession, &domain.Destination{Name: "No slug"}, "key-1")
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Create(ctx, adminSession, nile(), "form-nile")
	require.NoError(t, err)
	_, err = svc.Create(ctx, adminSession, &domain.Destination{Name: "Nile again", Slug: "nile-valley"}, "key-1")
	require.ErrorIs(t, err, domain.ErrDuplicateSlug)

	_, err = svc.Create(ctx, adminSession, &domain.Destination{Name: "Fixed", Slug: "fixed"}, "key-1")
	require.NoError(t, err)
	require.EqualValues(t, 2, countAll(t, store.Destinations))
}

func TestCatalogService_CreateStoreFailureReleasesKey(t *testing.T) {
	guard := newStubGuard()
	svc := NewCatalogService[domain.Policy](brokenRepo[domain.Policy]{}, CatalogOptions[domain.Policy]{
		Collection: domain.CollectionPolicies,
		Guard:      guard,
	}, zerolog.Nop())

	_, err := svc.Create(context.Background(), adminSession, &domain.Policy{Title: "Terms", Type: domain.PolicyTerms}, "key-1")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	require.Empty(t, guard.seen)
}

func TestCatalogService_CreateProceedsWhenGuardFails(t *testing.T) {
	store := memory.New()
	guard := newStubGuard()
	guard.err = errBoom
	svc := destinationService(store, CatalogOptions[domain.Destination]{Guard: guard})

	_, err := svc.Create(context.Background(), adminSession, nile(), "form-1")
	require.NoError(t, err)
	require.EqualValues(t, 1, countAll(t, store.Destinations))
}

func TestCatalogService_CreateStoreFailure(t *testing.T) {
	svc := NewCatalogService[domain.Policy](brokenRepo[domain.Policy]{}, CatalogOptions[domain.Policy]{
		Collection: domain.CollectionPolicies,
	}, zerolog.Nop())

	_, err := svc.Create(context.Background(), adminSession, &domain.Policy{Title: "Terms", Type: domain.PolicyTerms}, "")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

// ---------------------------------------------------------------------------
// Update
// ---------------------------------------------------------------------------

func TestCatalogService_UpdateKeepsIdentity(t *testing.T) {
	store := memory.New()
	svc := destinationService(store, CatalogOptions[domain.Destination]{})
	ctx := context.Background()

	created, err := svc.Create(ctx, adminSession, nile(), "")
	require.NoError(t, err)
	id, createdAt := created.ID, created.CreatedAt

	edit := nile()
	edit.Description = "Temples and feluccas"
	updated, err := svc.Update(ctx, adminSession, id, edit)
	require.NoError(t, err)
	require.Equal(t, id, updated.ID)
	require.Equal(t, createdAt, updated.CreatedAt)

	got, err := svc.Get(ctx, adminSession, id)
	require.NoError(t, err)
	require.Equal(t, "Temples and feluccas", got.Description)
}

func TestCatalogService_UpdateMissingIDWritesNothing(t *testing.T) {
	store := memory.New()
	svc := destinationService(store, CatalogOptions[domain.Destination]{})

	_, err := svc.Update(context.Background(), adminSession, "01JDOESNOTEXIST", nile())
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.Zero(t, countAll(t, store.Destinations))
}

func TestCatalogService_UpdateRejectsSlugOfAnotherRecord(t *testing.T) {
	store := memory.New()
	svc := destinationService(store, CatalogOptions[domain.Destination]{})
	ctx := context.Background()

	_, err := svc.Create(ctx, adminSession, nile(), "")
	require.NoError(t, err)
	other, err := svc.Create(ctx, adminSession, &domain.Destination{Name: "Red Sea", Slug: "red-sea"}, "")
	require.NoError(t, err)

	_, err = svc.Update(ctx, adminSession, other.ID, &domain.Destination{Name: "Red Sea", Slug: "nile-valley"})
	require.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

// ---------------------------------------------------------------------------
// Delete
// ---------------------------------------------------------------------------

func TestCatalogService_DeleteMissingIsIdempotent(t *testing.T) {
	svc := destinationService(memory.New(), CatalogOptions[domain.Destination]{})
	ctx := context.Background()

	first, err1 := svc.Delete(ctx, adminSession, "missing")
	second, err2 := svc.Delete(ctx, adminSession, "missing")

	require.NoError(t, err1)
	require.NoError(t, err2)
	require.Equal(t, first, second)
	require.False(t, first.Existed)
}

func TestCatalogService_DeleteExisting(t *testing.T) {
	store := memory.New()
	svc := destinationService(store, CatalogOptions[domain.Destination]{})
	ctx := context.Background()

	created, err := svc.Create(ctx, adminSession, nile(), "")
	require.NoError(t, err)

	res, err := svc.Delete(ctx, adminSession, created.ID)
	require.NoError(t, err)
	require.True(t, res.Existed)
	require.Zero(t, countAll(t, store.Destinations))

	res, err = svc.Delete(ctx, adminSession, created.ID)
	require.NoError(t, err)
	require.False(t, res.Existed)
}

func TestCatalogService_DeleteDenied(t *testing.T) {
	store := memory.New()
	svc := destinationService(store, CatalogOptions[domain.Destination]{})
	created, err := svc.Create(context.Background(), adminSession, nile(), "")
	require.NoError(t, err)

	_, err = svc.Delete(context.Background(), userSession, created.ID)
	require.ErrorIs(t, err, domain.ErrDenied)
	require.EqualValues(t, 1, countAll(t, store.Destinations))
}

// ---------------------------------------------------------------------------
// Reads
// ---------------------------------------------------------------------------

func TestCatalogService_ListHonoursReadPolicy(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	_, err := destinationService(store, CatalogOptions[domain.Destination]{}).Create(ctx, adminSession, nile(), "")
	require.NoError(t, err)

	cases := []struct {
		name   string
		read   Access
		sess   *domain.Session
		denied bool
	}{
		{"public anonymous", AccessPublic, nil, false},
		{"signed in anonymous", AccessSignedIn, nil, true},
		{"signed in user", AccessSignedIn, userSession, false},
		{"admin user", AccessAdmin, userSession, true},
		{"admin admin", AccessAdmin, adminSession, false},
		{"default is admin", "", userSession, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := destinationService(store, CatalogOptions[domain.Destination]{Read: tc.read})
			items, err := svc.List(ctx, tc.sess, ports.Query{})
			if tc.denied {
				require.ErrorIs(t, err, domain.ErrDenied)
				require.Nil(t, items)
				return
			}
			require.NoError(t, err)
			require.Len(t, items, 1)
		})
	}
}

func TestCatalogService_ScopeConfinesFAQs(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	svc := faqService(store)

	faq, err := svc.Create(ctx, adminSession, &domain.PageContent{Section: "about", Title: "How do I book?"}, "")
	require.NoError(t, err)
	require.Equal(t, domain.SectionFAQ, faq.Section)

	other := &domain.PageContent{Record: domain.Record{ID: "other-1"}, Section: "about", Title: "Our story"}
	require.NoError(t, store.PageContents.Create(ctx, other))

	items, err := svc.List(ctx, userSession, ports.Query{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, faq.ID, items[0].ID)

	_, err = svc.Get(ctx, userSession, "other-1")
	require.ErrorIs(t, err, domain.ErrNotFound)

	res, err := svc.Delete(ctx, adminSession, "other-1")
	require.NoError(t, err)
	require.False(t, res.Existed)
	require.EqualValues(t, 2, countAll(t, store.PageContents))
}

func TestCatalogService_PublicReadsSkipInactive(t *testing.T) {
	store := memory.New()
	svc := destinationService(store, CatalogOptions[domain.Destination]{})
	ctx := context.Background()

	_, err := svc.Create(ctx, adminSession, nile(), "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, adminSession, &domain.Destination{Name: "Siwa", Slug: "siwa", IsActive: false}, "")
	require.NoError(t, err)

	got, err := svc.GetPublic(ctx, "nile-valley")
	require.NoError(t, err)
	require.Equal(t, "Nile Valley", got.Name)

	_, err = svc.GetPublic(ctx, "siwa")
	require.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.GetPublic(ctx, "atlantis")
	require.ErrorIs(t, err, domain.ErrNotFound)

	items, err := svc.ListPublic(ctx, ports.Query{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "nile-valley", items[0].Slug)
}

func TestCatalogService_ListStoreFailure(t *testing.T) {
	svc := NewCatalogService[domain.Tour](brokenRepo[domain.Tour]{}, CatalogOptions[domain.Tour]{
		Collection: domain.CollectionTours,
		Read:       AccessPublic,
	}, zerolog.Nop())

	_, err := svc.List(context.Background(), nil, ports.Query{})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)

	_, err = svc.Get(context.Background(), nil, "x")
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}
