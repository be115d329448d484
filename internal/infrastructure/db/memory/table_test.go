package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

func tour(id, slug string, price float64, order int) *domain.Tour {
	return &domain.Tour{
		Record:   domain.Record{ID: id, CreatedAt: time.Date(2026, 1, 1, 0, 0, order, 0, time.UTC)},
		Name:     slug,
		Slug:     slug,
		Category: "day-trip",
		Price:    price,
		IsActive: order%2 == 0,
		Order:    order,
	}
}

func TestTable_CRUD(t *testing.T) {
	tbl := NewTable[domain.Tour](domain.CollectionTours)
	ctx := context.Background()

	require.NoError(t, tbl.Create(ctx, tour("t-1", "giza", 50, 0)))

	got, err := tbl.FindOne(ctx, "t-1")
	require.NoError(t, err)
	require.Equal(t, "giza", got.Slug)

	// Returned rows are copies.
	got.Name = "changed"
	again, err := tbl.FindOne(ctx, "t-1")
	require.NoError(t, err)
	require.Equal(t, "giza", again.Name)

	upd := tour("t-1", "giza", 75, 0)
	upd.CreatedAt = time.Time{}
	require.NoError(t, tbl.Update(ctx, upd))
	again, err = tbl.FindOne(ctx, "t-1")
	require.NoError(t, err)
	require.InDelta(t, 75, again.Price, 1e-9)
	require.False(t, again.CreatedAt.IsZero(), "update must not overwrite created_at")

	require.NoError(t, tbl.Delete(ctx, "t-1"))
	require.Zero(t, tbl.Len())

	_, err = tbl.FindOne(ctx, "t-1")
	require.ErrorIs(t, err, domain.ErrNotFound)
	require.ErrorIs(t, tbl.Update(ctx, upd), domain.ErrNotFound)
	require.ErrorIs(t, tbl.Delete(ctx, "t-1"), domain.ErrNotFound)
}

func TestTable_Constraints(t *testing.T) {
	tbl := NewTable[domain.Tour](domain.CollectionTours)
	ctx := context.Background()
	require.NoError(t, tbl.Create(ctx, tour("t-1", "giza", 50, 0)))

	require.ErrorIs(t, tbl.Create(ctx, tour("t-1", "luxor", 50, 1)), domain.ErrConflict)
	require.ErrorIs(t, tbl.Create(ctx, tour("t-2", "giza", 50, 1)), domain.ErrConflict)
	require.ErrorIs(t, tbl.Create(ctx, tour("", "aswan", 50, 1)), domain.ErrInvalidInput)

	require.NoError(t, tbl.Create(ctx, tour("t-2", "luxor", 50, 1)))
	require.ErrorIs(t, tbl.Update(ctx, tour("t-2", "giza", 50, 1)), domain.ErrConflict)
	require.NoError(t, tbl.Update(ctx, tour("t-2", "luxor", 60, 1)))
}

func TestTable_FindMany(t *testing.T) {
	tbl := NewTable[domain.Tour](domain.CollectionTours)
	ctx := context.Background()
	for i, slug := range []string{"giza", "luxor", "aswan", "siwa"} {
		require.NoError(t, tbl.Create(ctx, tour("t-"+slug, slug, float64(100-i*10), 3-i)))
	}

	all, err := tbl.FindMany(ctx, ports.Query{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	require.Equal(t, "giza", all[0].Slug, "nil sort keeps insertion order")

	byOrder, err := tbl.FindMany(ctx, ports.Query{Sort: &ports.Sort{Field: "order"}})
	require.NoError(t, err)
	require.Equal(t, []string{"siwa", "aswan", "luxor", "giza"}, slugs(byOrder))

	newest, err := tbl.FindMany(ctx, ports.Query{Sort: &ports.Sort{Field: "created_at", Desc: true}, Limit: 2})
	require.NoError(t, err)
	require.Equal(t, []string{"giza", "luxor"}, slugs(newest))

	active, err := tbl.FindMany(ctx, ports.Query{Filter: ports.Filter{"is_active": true}})
	require.NoError(t, err)
	require.Equal(t, []string{"luxor", "siwa"}, slugs(active))

	one, err := tbl.FindMany(ctx, ports.Query{Filter: ports.Filter{"id": "t-aswan", "category": "day-trip"}})
	require.NoError(t, err)
	require.Equal(t, []string{"aswan"}, slugs(one))

	none, err := tbl.FindMany(ctx, ports.Query{Filter: ports.Filter{"slug": "atlantis"}})
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestTable_CountAndSum(t *testing.T) {
	tbl := NewTable[domain.Payment](domain.CollectionPayments)
	ctx := context.Background()

	total, err := tbl.Sum(ctx, "amount", ports.Filter{"status": domain.PaymentCompleted})
	require.NoError(t, err)
	require.Zero(t, total)

	for i, p := range []domain.Payment{
		{Amount: 10, Status: domain.PaymentCompleted},
		{Amount: 2.5, Status: domain.PaymentCompleted},
		{Amount: 100, Status: domain.PaymentPending},
	} {
		p.ID = "p-" + string(rune('a'+i))
		require.NoError(t, tbl.Create(ctx, &p))
	}

	total, err = tbl.Sum(ctx, "amount", ports.Filter{"status": domain.PaymentCompleted})
	require.NoError(t, err)
	require.InDelta(t, 12.5, total, 1e-9)

	n, err := tbl.Count(ctx, ports.Filter{"status": domain.PaymentPending})
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	_, err = tbl.Sum(ctx, "status", nil)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTable_CancelledContext(t *testing.T) {
	tbl := NewTable[domain.Tour](domain.CollectionTours)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := tbl.FindMany(ctx, ports.Query{})
	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
}

func slugs(tours []domain.Tour) []string {
	out := make([]string, len(tours))
	for i, t := range tours {
		out[i] = t.Slug
	}
	return out
}
