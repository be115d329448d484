package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Destination is a country or region the catalog sells trips to.
type Destination struct {
	Record      `bson:",inline"`
	Name        string `json:"name" gorm:"not null" bson:"name" validate:"required"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null" bson:"slug" validate:"required"`
	Country     string `json:"country" bson:"country"`
	Description string `json:"description" gorm:"type:text" bson:"description"`
	ImageURL    string `json:"image_url" bson:"image_url"`
	IsActive    bool   `json:"is_active" gorm:"index" bson:"is_active"`
	Order       int    `json:"order" bson:"order"`
}

func (d Destination) SlugValue() string { return d.Slug }
func (d Destination) Active() bool      { return d.IsActive }

// Package is a multi-day travel package, optionally tied to a destination.
type Package struct {
	Record        `bson:",inline"`
	Name          string                      `json:"name" gorm:"not null" bson:"name" validate:"required"`
	Slug          string                      `json:"slug" gorm:"uniqueIndex;not null" bson:"slug" validate:"required"`
	Description   string                      `json:"description" gorm:"type:text" bson:"description"`
	Price         float64                     `json:"price" bson:"price" validate:"gte=0"`
	DurationDays  int                         `json:"duration_days" bson:"duration_days" validate:"gte=0"`
	DestinationID string                      `json:"destination_id,omitempty" gorm:"size:26;index" bson:"destination_id,omitempty"`
	Includes      datatypes.JSONSlice[string] `json:"includes" bson:"includes"`
	Excludes      datatypes.JSONSlice[string] `json:"excludes" bson:"excludes"`
	IsActive      bool                        `json:"is_active" gorm:"index" bson:"is_active"`
	IsFeatured    bool                        `json:"is_featured" bson:"is_featured"`
	Order         int                         `json:"order" bson:"order"`
}

func (p Package) SlugValue() string { return p.Slug }
func (p Package) Active() bool      { return p.IsActive }

// Tour is a single-day tour or excursion.
type Tour struct {
	Record        `bson:",inline"`
	Name          string  `json:"name" gorm:"not null" bson:"name" validate:"required"`
	Slug          string  `json:"slug" gorm:"uniqueIndex;not null" bson:"slug" validate:"required"`
	Description   string  `json:"description" gorm:"type:text" bson:"description"`
	Category      string  `json:"category" gorm:"index" bson:"category"`
	Price         float64 `json:"price" bson:"price" validate:"gte=0"`
	DurationHours int     `json:"duration_hours" bson:"duration_hours"`
	IsActive      bool    `json:"is_active" gorm:"index" bson:"is_active"`
	Order         int     `json:"order" bson:"order"`
}

func (t Tour) SlugValue() string { return t.Slug }
func (t Tour) Active() bool      { return t.IsActive }

// PolicyType classifies a policy document.
type PolicyType string

const (
	PolicyCancellation PolicyType = "CANCELLATION"
	PolicyPayment      PolicyType = "PAYMENT"
	PolicyPrivacy      PolicyType = "PRIVACY"
	PolicyTerms        PolicyType = "TERMS"
	PolicyGeneral      PolicyType = "GENERAL"
)

// Policy is a published terms/cancellation/privacy text.
type Policy struct {
	Record      `bson:",inline"`
	Title       string     `json:"title" gorm:"not null" bson:"title" validate:"required"`
	Description string     `json:"description" gorm:"type:text" bson:"description"`
	Type        PolicyType `json:"type" gorm:"index" bson:"type" validate:"required,oneof=CANCELLATION PAYMENT PRIVACY TERMS GENERAL"`
}

// Promotion is a time-boxed discount shown on the public site.
type Promotion struct {
	Record          `bson:",inline"`
	Title           string    `json:"title" gorm:"not null" bson:"title" validate:"required"`
	Slug            string    `json:"slug" gorm:"uniqueIndex;not null" bson:"slug" validate:"required"`
	Description     string    `json:"description" gorm:"type:text" bson:"description"`
	DiscountPercent float64   `json:"discount_percent" bson:"discount_percent" validate:"gte=0,lte=100"`
	StartsAt        time.Time `json:"starts_at" bson:"starts_at"`
	EndsAt          time.Time `json:"ends_at" bson:"ends_at"`
	IsActive        bool      `json:"is_active" gorm:"index" bson:"is_active"`
}

func (p Promotion) SlugValue() string { return p.Slug }

// Active reports whether the promotion is switched on. The date window is
// checked separately by Running.
func (p Promotion) Active() bool { return p.IsActive }

// Running reports whether the promotion is active at t.
func (p Promotion) Running(t time.Time) bool {
	if !p.IsActive {
		return false
	}
	if !p.StartsAt.IsZero() && t.Before(p.StartsAt) {
		return false
	}
	if !p.EndsAt.IsZero() && t.After(p.EndsAt) {
		return false
	}
	return true
}

// SectionFAQ is the PageContent section holding FAQ entries.
const SectionFAQ = "faq"

// PageContent is a titled text fragment grouped by section (FAQs live here).
type PageContent struct {
	Record   `bson:",inline"`
	Section  string `json:"section" gorm:"index;not null" bson:"section"`
	Title    string `json:"title" gorm:"not null" bson:"title" validate:"required"`
	Content  string `json:"content" gorm:"type:text" bson:"content"`
	Order    int    `json:"order" bson:"order"`
	IsActive bool   `json:"is_active" bson:"is_active"`
}

func (p PageContent) Active() bool { return p.IsActive }
