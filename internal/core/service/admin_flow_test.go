package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/db/memory"
)

func policyFlow() (*AdminFlow[domain.Policy, *domain.Policy], func(t *testing.T) int64) {
	store := memory.New()
	svc := NewCatalogService[domain.Policy](store.Policies, CatalogOptions[domain.Policy]{
		Collection: domain.CollectionPolicies,
		Read:       AccessSignedIn,
	}, zerolog.Nop())
	return NewAdminFlow(svc, nil), func(t *testing.T) int64 { return countAll(t, store.Policies) }
}

func TestAdminFlow_CreatePolicyReturnsToListing(t *testing.T) {
	flow, count := policyFlow()
	ctx := context.Background()

	out := flow.Submit(ctx, adminSession, "", &domain.Policy{
		Title:       "Cancellation",
		Description: "Free cancellation up to 48 hours before departure.",
		Type:        domain.PolicyCancellation,
	}, "key-1")

	require.NoError(t, out.Err)
	require.Equal(t, StateListing, out.State)
	require.EqualValues(t, 1, count(t))
	require.NotNil(t, out.Item)
	require.NotEmpty(t, out.Item.ID)
	require.Len(t, out.Items, 1)
	require.Equal(t, out.Item.ID, out.Items[0].ID)
	require.Equal(t, "Cancellation", out.Items[0].Title)
}

func TestAdminFlow_OpenUnknownIDIsNotFound(t *testing.T) {
	flow, count := policyFlow()

	out := flow.Open(context.Background(), adminSession, "01JUNKNOWN")

	require.Equal(t, StateEditing, out.State)
	require.ErrorIs(t, out.Err, domain.ErrNotFound)
	require.Nil(t, out.Item)
	require.Zero(t, count(t))
}

func TestAdminFlow_OpenEmptyIDCreates(t *testing.T) {
	flow, _ := policyFlow()

	out := flow.Open(context.Background(), adminSession, "")
	require.Equal(t, StateCreating, out.State)
	require.NotNil(t, out.Item)
	require.NoError(t, out.Err)
}

func TestAdminFlow_DeniedStates(t *testing.T) {
	flow, count := policyFlow()
	ctx := context.Background()

	require.Equal(t, StateDenied, flow.List(ctx, nil).State)
	require.Equal(t, StateDenied, flow.Open(ctx, userSession, "").State)
	require.Equal(t, StateDenied, flow.Remove(ctx, userSession, "x").State)

	out := flow.Submit(ctx, userSession, "", &domain.Policy{Title: "T", Type: domain.PolicyTerms}, "")
	require.Equal(t, StateDenied, out.State)
	require.Nil(t, out.Items)
	require.Zero(t, count(t))

	// Signed-in users may still list.
	require.Equal(t, StateListing, flow.List(ctx, userSession).State)
}

func TestAdminFlow_FailedSubmitKeepsValues(t *testing.T) {
	flow, _ := policyFlow()
	ctx := context.Background()

	entity := &domain.Policy{Title: "Terms", Type: domain.PolicyTerms}
	out := flow.Submit(ctx, adminSession, "missing", entity, "")

	require.Equal(t, StateEditing, out.State)
	require.ErrorIs(t, out.Err, domain.ErrNotFound)
	require.Same(t, entity, out.Item)
}

func TestAdminFlow_RemoveReportsExisted(t *testing.T) {
	flow, count := policyFlow()
	ctx := context.Background()

	created := flow.Submit(ctx, adminSession, "", &domain.Policy{Title: "Privacy", Type: domain.PolicyPrivacy}, "")
	require.NoError(t, created.Err)

	out := flow.Remove(ctx, adminSession, created.Item.ID)
	require.Equal(t, StateDeleted, out.State)
	require.True(t, out.Existed)
	require.Zero(t, count(t))

	again := flow.Remove(ctx, adminSession, created.Item.ID)
	require.Equal(t, StateDeleted, again.State)
	require.False(t, again.Existed)
	require.NoError(t, again.Err)
}
