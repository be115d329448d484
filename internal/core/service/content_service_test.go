package service

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/db/memory"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/render"
)

func contentFixture(t *testing.T, published bool) (*ContentService, *ports.Store, string) {
	t.Helper()
	store := memory.New()
	page := &domain.Page{Record: domain.Record{ID: "page-1"}, Title: "About", Slug: "about", IsPublished: published}
	require.NoError(t, store.Pages.Create(context.Background(), page))
	return NewContentService(store.Pages, store.ContentBlocks, zerolog.Nop()), store, page.ID
}

func blockIDs(blocks []domain.ContentBlock) []string {
	ids := make([]string, len(blocks))
	for i, b := range blocks {
		ids[i] = b.ID
	}
	return ids
}

func blockOrders(blocks []domain.ContentBlock) []int {
	orders := make([]int, len(blocks))
	for i, b := range blocks {
		orders[i] = b.Order
	}
	return orders
}

// ---------------------------------------------------------------------------
// Create / order
// ---------------------------------------------------------------------------

func TestContentService_CreateAppendsInOrder(t *testing.T) {
	svc, _, pageID := contentFixture(t, true)
	ctx := context.Background()

	a, err := svc.CreateBlock(ctx, adminSession, pageID, domain.BlockText, `{"html":"<p>Hi</p>"}`)
	require.NoError(t, err)
	b, err := svc.CreateBlock(ctx, adminSession, pageID, domain.BlockImage, `{"src":"/a.jpg"}`)
	require.NoError(t, err)
	c, err := svc.CreateBlock(ctx, adminSession, pageID, domain.BlockCallToAction, `{"text":"Book","url":"/book"}`)
	require.NoError(t, err)

	require.Equal(t, 0, a.Order)
	require.Equal(t, 1, b.Order)
	require.Equal(t, 2, c.Order)

	blocks, err := svc.ListBlocks(ctx, adminSession, pageID)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{a.ID, b.ID, c.ID}, blockIDs(blocks)); diff != "" {
		t.Fatalf("block order mismatch (-want +got):\n%s", diff)
	}
}

func TestContentService_CreateRejects(t *testing.T) {
	svc, store, pageID := contentFixture(t, true)
	ctx := context.Background()

	_, err := svc.CreateBlock(ctx, adminSession, pageID, "QUOTE", `{}`)
	require.ErrorIs(t, err, domain.ErrInvalidBlockType)

	_, err = svc.CreateBlock(ctx, adminSession, "no-such-page", domain.BlockText, `{}`)
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.CreateBlock(ctx, userSession, pageID, domain.BlockText, `{}`)
	require.ErrorIs(t, err, domain.ErrDenied)

	require.Zero(t, countAll(t, store.ContentBlocks))
}

func TestContentService_DeleteRenumbers(t *testing.T) {
	svc, _, pageID := contentFixture(t, true)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		b, err := svc.CreateBlock(ctx, adminSession, pageID, domain.BlockText, `{"html":"x"}`)
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}

	res, err := svc.DeleteBlock(ctx, adminSession, pageID, ids[0])
	require.NoError(t, err)
	require.True(t, res.Existed)

	blocks, err := svc.ListBlocks(ctx, adminSession, pageID)
	require.NoError(t, err)
	require.Equal(t, ids[1:], blockIDs(blocks))
	require.Equal(t, []int{0, 1}, blockOrders(blocks))

	res, err = svc.DeleteBlock(ctx, adminSession, pageID, ids[0])
	require.NoError(t, err)
	require.False(t, res.Existed)
}

func TestContentService_DeleteBlockOfOtherPageIsMissing(t *testing.T) {
	svc, store, pageID := contentFixture(t, true)
	ctx := context.Background()
	require.NoError(t, store.Pages.Create(ctx, &domain.Page{Record: domain.Record{ID: "page-2"}, Title: "Other", Slug: "other"}))

	b, err := svc.CreateBlock(ctx, adminSession, "page-2", domain.BlockText, `{"html":"x"}`)
	require.NoError(t, err)

	res, err := svc.DeleteBlock(ctx, adminSession, pageID, b.ID)
	require.NoError(t, err)
	require.False(t, res.Existed)
	require.EqualValues(t, 1, countAll(t, store.ContentBlocks))
}

func TestContentService_Reorder(t *testing.T) {
	svc, _, pageID := contentFixture(t, true)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		b, err := svc.CreateBlock(ctx, adminSession, pageID, domain.BlockText, `{"html":"x"}`)
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}

	want := []string{ids[2], ids[0], ids[1]}
	require.NoError(t, svc.Reorder(ctx, adminSession, pageID, want))

	blocks, err := svc.ListBlocks(ctx, adminSession, pageID)
	require.NoError(t, err)
	require.Equal(t, want, blockIDs(blocks))
	require.Equal(t, []int{0, 1, 2}, blockOrders(blocks))

	t.Run("partial list", func(t *testing.T) {
		err := svc.Reorder(ctx, adminSession, pageID, ids[:2])
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("duplicate id", func(t *testing.T) {
		err := svc.Reorder(ctx, adminSession, pageID, []string{ids[0], ids[0], ids[1]})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
	t.Run("foreign id", func(t *testing.T) {
		err := svc.Reorder(ctx, adminSession, pageID, []string{ids[0], ids[1], "elsewhere"})
		require.ErrorIs(t, err, domain.ErrInvalidInput)
	})
}

func TestContentService_UpdateKeepsTypeAndPosition(t *testing.T) {
	svc, _, pageID := contentFixture(t, true)
	ctx := context.Background()

	_, err := svc.CreateBlock(ctx, adminSession, pageID, domain.BlockText, `{"html":"a"}`)
	require.NoError(t, err)
	b, err := svc.CreateBlock(ctx, adminSession, pageID, domain.BlockImage, `{"src":"/a.jpg"}`)
	require.NoError(t, err)

	updated, err := svc.UpdateBlock(ctx, adminSession, pageID, b.ID, `{"src":"/b.jpg","alt":"B"}`)
	require.NoError(t, err)
	require.Equal(t, domain.BlockImage, updated.Type)
	require.Equal(t, 1, updated.Order)
	require.Equal(t, `{"src":"/b.jpg","alt":"B"}`, updated.Content)

	_, err = svc.UpdateBlock(ctx, adminSession, pageID, "missing", `{}`)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ---------------------------------------------------------------------------
// Public rendering
// ---------------------------------------------------------------------------

func TestContentService_RenderPageDropsBrokenBlocks(t *testing.T) {
	svc, _, pageID := contentFixture(t, true)
	ctx := context.Background()

	_, err := svc.CreateBlock(ctx, adminSession, pageID, domain.BlockCallToAction, `{"text":"Book now","url":"/book"}`)
	require.NoError(t, err)
	_, err = svc.CreateBlock(ctx, adminSession, pageID, domain.BlockCallToAction, `Book now`)
	require.NoError(t, err)
	_, err = svc.CreateBlock(ctx, adminSession, pageID, domain.BlockImage, `{"src":"/nile.jpg","alt":"Nile"}`)
	require.NoError(t, err)

	page, err := svc.RenderPage(ctx, "about")
	require.NoError(t, err)
	require.Equal(t, "About", page.Page.Title)
	require.Equal(t, 1, page.Dropped)
	require.Len(t, page.Blocks, 2)
	require.Equal(t, render.CallToAction{Text: "Book now", URL: "/book"}, page.Blocks[0].Node)
	require.Equal(t, render.Image{Src: "/nile.jpg", Alt: "Nile"}, page.Blocks[1].Node)
}

func TestContentService_RenderUnpublishedIsNotFound(t *testing.T) {
	svc, _, _ := contentFixture(t, false)

	_, err := svc.RenderPage(context.Background(), "about")
	require.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.RenderPage(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrNotFound)
}
