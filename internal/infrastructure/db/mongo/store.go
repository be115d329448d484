package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
)

type pinger struct{ db *mongo.Database }

func (p pinger) Ping(ctx context.Context) error {
	return p.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

// NewStore returns a Store whose repositories live in db.
func NewStore(db *mongo.Database) *ports.Store {
	return &ports.Store{
		Destinations:  NewCollection[domain.Destination](db, domain.CollectionDestinations),
		Packages:      NewCollection[domain.Package](db, domain.CollectionPackages),
		Tours:         NewCollection[domain.Tour](db, domain.CollectionTours),
		Policies:      NewCollection[domain.Policy](db, domain.CollectionPolicies),
		Promotions:    NewCollection[domain.Promotion](db, domain.CollectionPromotions),
		PageContents:  NewCollection[domain.PageContent](db, domain.CollectionPageContents),
		Pages:         NewCollection[domain.Page](db, domain.CollectionPages),
		ContentBlocks: NewCollection[domain.ContentBlock](db, domain.CollectionContentBlocks),
		Users:         NewCollection[domain.User](db, domain.CollectionUsers),
		Bookings:      NewCollection[domain.Booking](db, domain.CollectionBookings),
		Notifications: NewCollection[domain.Notification](db, domain.CollectionNotifications),
		Payments:      NewCollection[domain.Payment](db, domain.CollectionPayments),
		Health:        pinger{db: db},
		Close: func(ctx context.Context) error {
			return db.Client().Disconnect(ctx)
		},
	}
}

// EnsureIndexes creates the unique slug/email indexes and the lookup
// indexes the services query by.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	indexes := map[domain.Collection][]mongo.IndexModel{
		domain.CollectionDestinations:  {{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		domain.CollectionPackages:      {{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		domain.CollectionTours:         {{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		domain.CollectionPromotions:    {{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		domain.CollectionPages:         {{Keys: bson.D{{Key: "slug", Value: 1}}, Options: unique}},
		domain.CollectionUsers:         {{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique}},
		domain.CollectionPageContents:  {{Keys: bson.D{{Key: "section", Value: 1}, {Key: "order", Value: 1}}}},
		domain.CollectionContentBlocks: {{Keys: bson.D{{Key: "page_id", Value: 1}, {Key: "order", Value: 1}}}},
		domain.CollectionBookings:      {{Keys: bson.D{{Key: "status", Value: 1}}}, {Keys: bson.D{{Key: "user_id", Value: 1}}}},
		domain.CollectionNotifications: {{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}}},
		domain.CollectionPayments:      {{Keys: bson.D{{Key: "status", Value: 1}}}},
	}

	for name, models := range indexes {
		if _, err := db.Collection(string(name)).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("ensure indexes %s: %w", name, err)
		}
	}
	return nil
}
