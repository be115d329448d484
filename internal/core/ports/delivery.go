package ports

import (
	"context"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
)

// SubmissionGuard rejects repeated create-form submissions. Claim reports
// true only for the first caller presenting key within scope. Release frees
// a claimed key whose create did not go through.
type SubmissionGuard interface {
	Claim(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
}

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers transactional email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// StatusChange describes a booking that moved to a new status and whose
// owner should hear about it.
type StatusChange struct {
	BookingID string
	UserID    string
	From      domain.BookingStatus
	To        domain.BookingStatus
}

// StatusNotifier hands a status change off for delivery. Enqueue must not
// block the request that produced the change.
type StatusNotifier interface {
	Enqueue(change StatusChange)
}

// StatusProcessor delivers a single status change (notification row + email).
type StatusProcessor interface {
	Process(ctx context.Context, change StatusChange) error
}

// Translator resolves a message key for a locale and substitutes {{name}}
// placeholders from vars. Unknown keys come back unchanged.
type Translator interface {
	Translatef(locale, key string, vars map[string]any) string
}
