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

// BookingService handles customer reservations and the status changes made
// from the dashboard.
type BookingService struct {
	bookings ports.BookingRepository
	packages ports.PackageRepository
	notifier ports.StatusNotifier
	log      zerolog.Logger
	now      func() time.Time
}

func NewBookingService(bookings ports.BookingRepository, packages ports.PackageRepository, notifier ports.StatusNotifier, log zerolog.Logger) *BookingService {
	return &BookingService{
		bookings: bookings,
		packages: packages,
		notifier: notifier,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// BookingRequest is a customer's reservation of a package.
type BookingRequest struct {
	PackageID  string
	StartDate  time.Time
	EndDate    time.Time
	Guests     int
	TotalPrice float64
}

// Create books a package for the caller. The booking belongs to the session's
// user and starts PENDING. Dates overlapping a CONFIRMED booking of the same
// package are refused.
func (s *BookingService) Create(ctx context.Context, sess *domain.Session, req BookingRequest) (*domain.Booking, error) {
	// 1. Any signed-in user may book.
	if _, err := Authorize(sess, domain.RoleAny); err != nil {
		return nil, err
	}
	switch {
	case req.PackageID == "":
		return nil, fmt.Errorf("package_id is required: %w", domain.ErrInvalidInput)
	case req.Guests < 1:
		return nil, fmt.Errorf("at least 1 guest is required: %w", domain.ErrInvalidInput)
	case req.TotalPrice < 0:
		return nil, fmt.Errorf("total_price must not be negative: %w", domain.ErrInvalidInput)
	case req.StartDate.IsZero() || req.EndDate.Before(req.StartDate):
		return nil, fmt.Errorf("end_date must not be before start_date: %w", domain.ErrInvalidInput)
	}

	// 2. The package must exist and the dates must be free.
	if _, err := s.packages.FindOne(ctx, req.PackageID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("package %s: %w", req.PackageID, domain.ErrNotFound)
		}
		s.log.Error().Err(err).Str("package_id", req.PackageID).Msg("failed to load package")
		return nil, fmt.Errorf("create booking: %w", err)
	}
	confirmed, err := s.bookings.FindMany(ctx, ports.Query{Filter: ports.Filter{
		"package_id": req.PackageID,
		"status":     domain.BookingConfirmed,
	}})
	if err != nil {
		s.log.Error().Err(err).Str("package_id", req.PackageID).Msg("failed to check availability")
		return nil, fmt.Errorf("create booking: %w", err)
	}
	for _, b := range confirmed {
		if !b.StartDate.After(req.EndDate) && !b.EndDate.Before(req.StartDate) {
			return nil, fmt.Errorf("selected dates are not available: %w", domain.ErrInvalidInput)
		}
	}

	// 3. Persist.
	now := s.now()
	b := &domain.Booking{
		Record:     domain.Record{ID: ulid.Make().String(), CreatedAt: now, UpdatedAt: now},
		UserID:     sess.UserID,
		PackageID:  req.PackageID,
		StartDate:  req.StartDate.UTC(),
		EndDate:    req.EndDate.UTC(),
		Guests:     req.Guests,
		TotalPrice: req.TotalPrice,
		Status:     domain.BookingPending,
	}
	if err := s.bookings.Create(ctx, b); err != nil {
		s.log.Error().Err(err).Str("package_id", req.PackageID).Msg("failed to create booking")
		return nil, fmt.Errorf("create booking: %w", err)
	}

	s.log.Info().Str("booking_id", b.ID).Str("user_id", sess.UserID).Msg("booking created")
	return b, nil
}

// UpdateStatus moves booking id to status. The owner is notified
// asynchronously when the status actually changes.
func (s *BookingService) UpdateStatus(ctx context.Context, sess *domain.Session, id string, status domain.BookingStatus) (*domain.Booking, error) {
	// 1. Gate and validate before touching the store.
	if _, err := Authorize(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	// 2. Load the booking.
	b, err := s.bookings.FindOne(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.Debug().Str("booking_id", id).Msg("booking not found")
			return nil, err
		}
		s.log.Error().Err(err).Str("booking_id", id).Msg("failed to load booking")
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	// 3. Persist.
	prev := b.Status
	b.Status = status
	b.UpdatedAt = s.now()
	if err := s.bookings.Update(ctx, b); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		s.log.Error().Err(err).Str("booking_id", id).Msg("failed to update booking status")
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	// 4. Hand off notification delivery.
	if prev != status && s.notifier != nil {
		s.notifier.Enqueue(ports.StatusChange{BookingID: b.ID, UserID: b.UserID, From: prev, To: status})
	}

	s.log.Info().
		Str("booking_id", id).
		Str("from", string(prev)).
		Str("to", string(status)).
		Str("user_id", sess.UserID).
		Msg("booking status updated")

	return b, nil
}
