package domain

import "time"

// Collection names a record-store collection (SQL table or Mongo collection).
type Collection string

const (
	CollectionDestinations  Collection = "destinations"
	CollectionPackages      Collection = "packages"
	CollectionTours         Collection = "tours"
	CollectionPolicies      Collection = "policies"
	CollectionPromotions    Collection = "promotions"
	CollectionPageContents  Collection = "page_contents"
	CollectionPages         Collection = "pages"
	CollectionContentBlocks Collection = "content_blocks"
	CollectionUsers         Collection = "users"
	CollectionBookings      Collection = "bookings"
	CollectionNotifications Collection = "notifications"
	CollectionPayments      Collection = "payments"
)

// Record holds the fields every managed entity shares. IDs are assigned once
// on create and never reused.
type Record struct {
	ID        string    `json:"id" gorm:"primaryKey;size:26" bson:"_id"`
	CreatedAt time.Time `json:"created_at" gorm:"index" bson:"created_at"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// Meta exposes the shared record fields of any entity embedding Record.
func (r *Record) Meta() *Record { return r }

// Entity is implemented by pointers to every managed entity.
type Entity interface {
	Meta() *Record
}

// Slugged is implemented by entities addressable by slug.
type Slugged interface {
	SlugValue() string
}

// Activatable is implemented by entities that can be hidden from the public site.
type Activatable interface {
	Active() bool
}
