package domain

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

// Booking is a customer reservation of a package.
type Booking struct {
	Record     `bson:",inline"`
	UserID     string        `json:"user_id" gorm:"size:26;index;not null" bson:"user_id" validate:"required"`
	PackageID  string        `json:"package_id,omitempty" gorm:"size:26;index" bson:"package_id,omitempty"`
	StartDate  time.Time     `json:"start_date" bson:"start_date"`
	EndDate    time.Time     `json:"end_date" bson:"end_date"`
	Guests     int           `json:"guests" bson:"guests" validate:"gte=1"`
	TotalPrice float64       `json:"total_price" bson:"total_price" validate:"gte=0"`
	Status     BookingStatus `json:"status" gorm:"index;not null;default:PENDING" bson:"status" validate:"omitempty,oneof=PENDING CONFIRMED CANCELLED COMPLETED"`
}

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentCompleted PaymentStatus = "COMPLETED"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

// Payment records money received against a booking.
type Payment struct {
	Record    `bson:",inline"`
	BookingID string        `json:"booking_id" gorm:"size:26;index" bson:"booking_id"`
	Amount    float64       `json:"amount" bson:"amount" validate:"gte=0"`
	Currency  string        `json:"currency" bson:"currency"`
	Status    PaymentStatus `json:"status" gorm:"index;not null" bson:"status" validate:"required,oneof=PENDING COMPLETED FAILED REFUNDED"`
}

// Notification is a dashboard message addressed to one user.
type Notification struct {
	Record  `bson:",inline"`
	UserID  string `json:"user_id" gorm:"size:26;index;not null" bson:"user_id"`
	Title   string `json:"title" bson:"title"`
	Message string `json:"message" gorm:"type:text" bson:"message"`
	Read    bool   `json:"read" bson:"read"`
}
