package ports

import (
	"context"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
)

// Filter is an equality match on stored field names (snake_case, as in the
// json/bson/column tags). "id" always addresses the record id.
type Filter map[string]any

// Sort orders FindMany results by a single field.
type Sort struct {
	Field string
	Desc  bool
}

// Query carries the optional parts of FindMany. A nil Sort means creation
// order; Limit <= 0 means no limit.
type Query struct {
	Filter Filter
	Sort   *Sort
	Limit  int
}

// Repository is the typed CRUD contract every record-store driver satisfies.
//
// FindOne, Update and Delete return domain.ErrNotFound when the id does not
// exist. Any driver failure is wrapped with domain.ErrStoreUnavailable.
type Repository[T any] interface {
	FindOne(ctx context.Context, id string) (*T, error)
	FindMany(ctx context.Context, q Query) ([]T, error)
	Create(ctx context.Context, entity *T) error
	// Update replaces every mutable field of the record with entity's values.
	// ID and CreatedAt are never written.
	Update(ctx context.Context, entity *T) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context, f Filter) (int64, error)
	// Sum adds up a numeric field over matching records; no match sums to 0.
	Sum(ctx context.Context, field string, f Filter) (float64, error)
}

type (
	DestinationRepository  = Repository[domain.Destination]
	PackageRepository      = Repository[domain.Package]
	TourRepository         = Repository[domain.Tour]
	PolicyRepository       = Repository[domain.Policy]
	PromotionRepository    = Repository[domain.Promotion]
	PageContentRepository  = Repository[domain.PageContent]
	PageRepository         = Repository[domain.Page]
	ContentBlockRepository = Repository[domain.ContentBlock]
	UserRepository         = Repository[domain.User]
	BookingRepository      = Repository[domain.Booking]
	NotificationRepository = Repository[domain.Notification]
	PaymentRepository      = Repository[domain.Payment]
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Store bundles one repository per collection. Drivers return a fully
// populated Store.
type Store struct {
	Destinations  DestinationRepository
	Packages      PackageRepository
	Tours         TourRepository
	Policies      PolicyRepository
	Promotions    PromotionRepository
	PageContents  PageContentRepository
	Pages         PageRepository
	ContentBlocks ContentBlockRepository
	Users         UserRepository
	Bookings      BookingRepository
	Notifications NotificationRepository
	Payments      PaymentRepository

	Health Pinger
	Close  func(ctx context.Context) error
}
