package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

// Stats is the dashboard overview.
type Stats struct {
	Counts   map[domain.Collection]int64    `json:"counts"`
	Bookings map[domain.BookingStatus]int64 `json:"bookings_by_status"`
	Revenue  float64                        `json:"revenue"`
}

// DashboardService computes dashboard aggregates.
type DashboardService struct {
	store *ports.Store
	log   zerolog.Logger
}

func NewDashboardService(store *ports.Store, log zerolog.Logger) *DashboardService {
	return &DashboardService{store: store, log: log}
}

// Revenue is the sum of COMPLETED payment amounts, 0 when there are none.
// Any signed-in session may read it.
func (s *DashboardService) Revenue(ctx context.Context, sess *domain.Session) (float64, error) {
	if _, err := Authorize(sess, domain.RoleAny); err != nil {
		return 0, err
	}
	return s.revenue(ctx)
}

// Stats returns record counts, the booking status breakdown and revenue.
func (s *DashboardService) Stats(ctx context.Context, sess *domain.Session) (*Stats, error) {
	if _, err := Authorize(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}

	counters := []struct {
		c     domain.Collection
		count func(context.Context, ports.Filter) (int64, error)
	}{
		{domain.CollectionDestinations, s.store.Destinations.Count},
		{domain.CollectionPackages, s.store.Packages.Count},
		{domain.CollectionTours, s.store.Tours.Count},
		{domain.CollectionPromotions, s.store.Promotions.Count},
		{domain.CollectionPages, s.store.Pages.Count},
		{domain.CollectionBookings, s.store.Bookings.Count},
		{domain.CollectionPayments, s.store.Payments.Count},
	}

	out := &Stats{
		Counts:   make(map[domain.Collection]int64, len(counters)+1),
		Bookings: make(map[domain.BookingStatus]int64, 4),
	}
	for _, ctr := range counters {
		n, err := ctr.count(ctx, nil)
		if err != nil {
			return nil, s.storeErr("count "+string(ctr.c), err)
		}
		out.Counts[ctr.c] = n
	}

	// Customers only; admins are not counted as users.
	users, err := s.store.Users.Count(ctx, nil)
	if err != nil {
		return nil, s.storeErr("count users", err)
	}
	admins, err := s.store.Users.Count(ctx, ports.Filter{"role": domain.RoleAdmin})
	if err != nil {
		return nil, s.storeErr("count admins", err)
	}
	out.Counts[domain.CollectionUsers] = users - admins

	for _, st := range []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled, domain.BookingCompleted} {
		n, err := s.store.Bookings.Count(ctx, ports.Filter{"status": st})
		if err != nil {
			return nil, s.storeErr("count bookings", err)
		}
		out.Bookings[st] = n
	}

	if out.Revenue, err = s.revenue(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *DashboardService) revenue(ctx context.Context) (float64, error) {
	total, err := s.store.Payments.Sum(ctx, "amount", ports.Filter{"status": domain.PaymentCompleted})
	if err != nil {
		return 0, s.storeErr("sum revenue", err)
	}
	return total, nil
}

func (s *DashboardService) storeErr(op string, err error) error {
	s.log.Error().Err(err).Str("op", op).Msg("record store call failed")
	return fmt.Errorf("dashboard %s: %w", op, err)
}
