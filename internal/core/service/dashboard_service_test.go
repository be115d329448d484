package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/infrastructure/db/memory"
)

func TestDashboardService_RevenueWithoutCompletedPaymentsIsZero(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	require.NoError(t, store.Payments.Create(ctx, &domain.Payment{Record: domain.Record{ID: "p-1"}, Amount: 120, Status: domain.PaymentPending}))
	require.NoError(t, store.Payments.Create(ctx, &domain.Payment{Record: domain.Record{ID: "p-2"}, Amount: 80, Status: domain.PaymentFailed}))

	svc := NewDashboardService(store, zerolog.Nop())

	total, err := svc.Revenue(ctx, userSession)
	require.NoError(t, err)
	require.Zero(t, total)

	total, err = svc.Revenue(ctx, adminSession)
	require.NoError(t, err)
	require.Zero(t, total)
}

func TestDashboardService_RevenueSumsCompleted(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	for i, p := range []domain.Payment{
		{Amount: 100.5, Status: domain.PaymentCompleted},
		{Amount: 200, Status: domain.PaymentCompleted},
		{Amount: 999, Status: domain.PaymentRefunded},
	} {
		p.ID = string(rune('a' + i))
		require.NoError(t, store.Payments.Create(ctx, &p))
	}

	total, err := NewDashboardService(store, zerolog.Nop()).Revenue(ctx, adminSession)
	require.NoError(t, err)
	require.InDelta(t, 300.5, total, 1e-9)
}

func TestDashboardService_RevenueNeedsSession(t *testing.T) {
	_, err := NewDashboardService(memory.New(), zerolog.Nop()).Revenue(context.Background(), nil)
	require.ErrorIs(t, err, domain.ErrDenied)
}

func TestDashboardService_Stats(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.Destinations.Create(ctx, &domain.Destination{Record: domain.Record{ID: "d-1"}, Name: "Nile", Slug: "nile"}))
	require.NoError(t, store.Users.Create(ctx, &domain.User{Record: domain.Record{ID: "u-1"}, Email: "a@example.com", Role: domain.RoleAdmin}))
	require.NoError(t, store.Users.Create(ctx, &domain.User{Record: domain.Record{ID: "u-2"}, Email: "b@example.com", Role: domain.RoleUser}))
	require.NoError(t, store.Users.Create(ctx, &domain.User{Record: domain.Record{ID: "u-3"}, Email: "c@example.com", Role: domain.RoleGuide}))
	require.NoError(t, store.Bookings.Create(ctx, &domain.Booking{Record: domain.Record{ID: "b-1"}, UserID: "u-2", Guests: 2, Status: domain.BookingPending}))
	require.NoError(t, store.Bookings.Create(ctx, &domain.Booking{Record: domain.Record{ID: "b-2"}, UserID: "u-2", Guests: 1, Status: domain.BookingConfirmed}))
	require.NoError(t, store.Bookings.Create(ctx, &domain.Booking{Record: domain.Record{ID: "b-3"}, UserID: "u-3", Guests: 1, Status: domain.BookingConfirmed}))
	require.NoError(t, store.Payments.Create(ctx, &domain.Payment{Record: domain.Record{ID: "p-1"}, Amount: 50, Status: domain.PaymentCompleted}))

	svc := NewDashboardService(store, zerolog.Nop())

	_, err := svc.Stats(ctx, userSession)
	require.ErrorIs(t, err, domain.ErrDenied)

	stats, err := svc.Stats(ctx, adminSession)
	require.NoError(t, err)
	require.EqualValues(t, 1, stats.Counts[domain.CollectionDestinations])
	require.EqualValues(t, 0, stats.Counts[domain.CollectionTours])
	require.EqualValues(t, 2, stats.Counts[domain.CollectionUsers])
	require.EqualValues(t, 3, stats.Counts[domain.CollectionBookings])
	require.EqualValues(t, 1, stats.Bookings[domain.BookingPending])
	require.EqualValues(t, 2, stats.Bookings[domain.BookingConfirmed])
	require.EqualValues(t, 0, stats.Bookings[domain.BookingCancelled])
	require.InDelta(t, 50, stats.Revenue, 1e-9)
}

func TestDashboardService_StoreFailure(t *testing.T) {
	store := memory.New()
	store.Payments = brokenRepo[domain.Payment]{}

	_, err := NewDashboardService(store, zerolog.Nop()).Revenue(context.Background(), adminSession)
	require.ErrorIs(t, err, errBoom)
}
