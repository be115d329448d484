package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

var statusMail = template.Must(template.New("status").Parse(`<h1>{{.Subject}}</h1>
<p>{{.Greeting}}</p>
<p>{{.Lead}}</p>
<ul>
  <li>Booking ID: {{.Booking.ID}}</li>
  <li>Check-in: {{.Booking.StartDate.Format "2006-01-02"}}</li>
  <li>Check-out: {{.Booking.EndDate.Format "2006-01-02"}}</li>
  <li>Guests: {{.Booking.Guests}}</li>
  <li>Total Price: ${{printf "%.2f" .Booking.TotalPrice}}</li>
</ul>
<p>{{.Closing}}</p>
`))

type statusMailData struct {
	Subject  string
	Greeting string
	Lead     string
	Closing  string
	Booking  *domain.Booking
}

// statusCopy is the English fallback used when no Translator is set or a
// key is missing from every dictionary.
var statusCopy = map[string]string{
	"mail.greeting":                 "Dear {{name}},",
	"mail.closing":                  "Thank you for travelling with us!",
	"mail.notification":             "Booking {{id}} is now {{status}}.",
	"mail.status.confirmed.subject": "Booking Confirmation",
	"mail.status.confirmed.lead":    "Your booking has been confirmed. Here are your booking details:",
	"mail.status.cancelled.subject": "Booking Cancellation Confirmation",
	"mail.status.cancelled.lead":    "Your booking has been cancelled. Here are the details of the cancelled booking:",
	"mail.status.completed.subject": "Booking Completed",
	"mail.status.completed.lead":    "Your trip is complete. Here is a summary of your booking:",
	"mail.status.pending.subject":   "Booking Modification Confirmation",
	"mail.status.pending.lead":      "Your booking is pending review. Here are your booking details:",
}

// StatusDelivery tells a booking owner about a status change: a dashboard
// notification plus an email.
type StatusDelivery struct {
	bookings      ports.BookingRepository
	users         ports.UserRepository
	notifications ports.NotificationRepository
	mailer        ports.Mailer
	translator    ports.Translator
	locale        string
	log           zerolog.Logger
	now           func() time.Time
}

// NewStatusDelivery returns a StatusDelivery. Messages are written in locale
// through translator; a nil translator uses the built-in English copy.
func NewStatusDelivery(store *ports.Store, mailer ports.Mailer, translator ports.Translator, locale string, log zerolog.Logger) *StatusDelivery {
	return &StatusDelivery{
		bookings:      store.Bookings,
		users:         store.Users,
		notifications: store.Notifications,
		mailer:        mailer,
		translator:    translator,
		locale:        locale,
		log:           log,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// Process writes the notification and sends the email. Only the
// notification write is reported as an error; mail failures are logged.
func (d *StatusDelivery) Process(ctx context.Context, change ports.StatusChange) error {
	booking, err := d.bookings.FindOne(ctx, change.BookingID)
	if err != nil {
		return fmt.Errorf("deliver status change: %w", err)
	}
	user, err := d.users.FindOne(ctx, change.UserID)
	if err != nil {
		return fmt.Errorf("deliver status change: %w", err)
	}

	if !change.To.Valid() {
		return fmt.Errorf("deliver status change: %w: %q", domain.ErrInvalidStatus, change.To)
	}
	prefix := "mail.status." + strings.ToLower(string(change.To))
	subject := d.text(prefix+".subject", nil)

	now := d.now()
	n := &domain.Notification{
		Record:  domain.Record{ID: ulid.Make().String(), CreatedAt: now, UpdatedAt: now},
		UserID:  user.ID,
		Title:   subject,
		Message: d.text("mail.notification", map[string]any{"id": booking.ID, "status": change.To}),
	}
	if err := d.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("deliver status change: notification: %w", err)
	}

	if d.mailer == nil || user.Email == "" {
		return nil
	}
	var body bytes.Buffer
	data := statusMailData{
		Subject:  subject,
		Greeting: d.text("mail.greeting", map[string]any{"name": user.Name}),
		Lead:     d.text(prefix+".lead", nil),
		Closing:  d.text("mail.closing", nil),
		Booking:  booking,
	}
	if err := statusMail.Execute(&body, data); err != nil {
		d.log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to render status email")
		return nil
	}
	if err := d.mailer.Send(ctx, ports.Message{To: user.Email, Subject: subject, HTML: body.String()}); err != nil {
		d.log.Warn().Err(err).Str("booking_id", booking.ID).Msg("failed to send status email")
	}
	return nil
}

// text resolves key through the translator, falling back to statusCopy.
func (d *StatusDelivery) text(key string, vars map[string]any) string {
	if d.translator != nil {
		if msg := d.translator.Translatef(d.locale, key, vars); msg != key {
			return msg
		}
	}
	msg := statusCopy[key]
	for k, v := range vars {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", fmt.Sprint(v))
	}
	return msg
}
