package memory

import (
	"context"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

type pinger struct{}

func (pinger) Ping(context.Context) error { return nil }

// New returns an empty store with one table per collection.
func New() *ports.Store {
	return &ports.Store{
		Destinations:  NewTable[domain.Destination](domain.CollectionDestinations),
		Packages:      NewTable[domain.Package](domain.CollectionPackages),
		Tours:         NewTable[domain.Tour](domain.CollectionTours),
		Policies:      NewTable[domain.Policy](domain.CollectionPolicies),
		Promotions:    NewTable[domain.Promotion](domain.CollectionPromotions),
		PageContents:  NewTable[domain.PageContent](domain.CollectionPageContents),
		Pages:         NewTable[domain.Page](domain.CollectionPages),
		ContentBlocks: NewTable[domain.ContentBlock](domain.CollectionContentBlocks),
		Users:         NewTable[domain.User](domain.CollectionUsers),
		Bookings:      NewTable[domain.Booking](domain.CollectionBookings),
		Notifications: NewTable[domain.Notification](domain.CollectionNotifications),
		Payments:      NewTable[domain.Payment](domain.CollectionPayments),
		Health:        pinger{},
		Close:         func(context.Context) error { return nil },
	}
}
