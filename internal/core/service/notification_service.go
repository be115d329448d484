package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

const recentNotifications = 10

type NotificationService struct {
	repo ports.NotificationRepository
	log  zerolog.Logger
	now  func() time.Time
}

func NewNotificationService(repo ports.NotificationRepository, log zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, log: log, now: func() time.Time { return time.Now().UTC() }}
}

// ListMine returns the caller's most recent notifications, newest first.
func (s *NotificationService) ListMine(ctx context.Context, sess *domain.Session) ([]domain.Notification, error) {
	if _, err := Authorize(sess, domain.RoleAny); err != nil {
		return nil, err
	}
	items, err := s.repo.FindMany(ctx, ports.Query{
		Filter: ports.Filter{"user_id": sess.UserID},
		Sort:   &ports.Sort{Field: "created_at", Desc: true},
		Limit:  recentNotifications,
	})
	if err != nil {
		s.log.Error().Err(err).Str("user_id", sess.UserID).Msg("failed to list notifications")
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return items, nil
}

// MarkRead flags one of the caller's notifications as read. Notifications
// belonging to someone else are reported as not found.
func (s *NotificationService) MarkRead(ctx context.Context, sess *domain.Session, id string) (*domain.Notification, error) {
	if _, err := Authorize(sess, domain.RoleAny); err != nil {
		return nil, err
	}
	n, err := s.repo.FindOne(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	if n.UserID != sess.UserID {
		return nil, domain.ErrNotFound
	}
	if n.Read {
		return n, nil
	}
	n.Read = true
	n.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, n); err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	return n, nil
}
