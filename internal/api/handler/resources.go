package handler

import (
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/views"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/service"
)

var (
	policyTypes   = []string{"CANCELLATION", "PAYMENT", "PRIVACY", "TERMS", "GENERAL"}
	roles         = []string{"USER", "ADMIN", "MANAGER", "GUIDE"}
	bookingStatus = []string{"PENDING", "CONFIRMED", "CANCELLED", "COMPLETED"}
	paymentStatus = []string{"PENDING", "COMPLETED", "FAILED", "REFUNDED"}
)

func text(name string) views.Field     { return views.Field{Name: name, Kind: views.KindText} }
func textarea(name string) views.Field { return views.Field{Name: name, Kind: views.KindTextarea} }
func number(name string) views.Field   { return views.Field{Name: name, Kind: views.KindNumber} }
func checkbox(name string) views.Field { return views.Field{Name: name, Kind: views.KindCheckbox} }
func date(name string) views.Field     { return views.Field{Name: name, Kind: views.KindDate} }
func list(name string) views.Field     { return views.Field{Name: name, Kind: views.KindList} }

func choice(name string, options []string) views.Field {
	return views.Field{Name: name, Kind: views.KindSelect, Options: options}
}

var DestinationSpec = ResourceSpec[domain.Destination]{
	Name:    "destinations",
	Columns: []string{"name", "slug", "country", "is_active", "order"},
	Fields: []views.Field{
		text("name"), text("slug"), text("country"), textarea("description"),
		text("image_url"), checkbox("is_active"), number("order"),
	},
}

var PackageSpec = ResourceSpec[domain.Package]{
	Name:    "packages",
	Columns: []string{"name", "slug", "price", "duration_days", "is_active", "is_featured"},
	Fields: []views.Field{
		text("name"), text("slug"), textarea("description"), number("price"),
		number("duration_days"), text("destination_id"), list("includes"), list("excludes"),
		checkbox("is_active"), checkbox("is_featured"), number("order"),
	},
}

var TourSpec = ResourceSpec[domain.Tour]{
	Name:    "tours",
	Columns: []string{"name", "slug", "category", "price", "duration_hours", "is_active"},
	Fields: []views.Field{
		text("name"), text("slug"), textarea("description"), text("category"),
		number("price"), number("duration_hours"), checkbox("is_active"), number("order"),
	},
}

var PolicySpec = ResourceSpec[domain.Policy]{
	Name:    "policies",
	Columns: []string{"title", "type", "created_at"},
	Fields:  []views.Field{text("title"), choice("type", policyTypes), textarea("description")},
}

var PromotionSpec = ResourceSpec[domain.Promotion]{
	Name:    "promotions",
	Columns: []string{"title", "slug", "discount_percent", "starts_at", "ends_at", "is_active"},
	Fields: []views.Field{
		text("title"), text("slug"), textarea("description"), number("discount_percent"),
		date("starts_at"), date("ends_at"), checkbox("is_active"),
	},
}

var FAQSpec = ResourceSpec[domain.PageContent]{
	Name:    "faqs",
	Columns: []string{"title", "order", "is_active"},
	Fields:  []views.Field{text("title"), textarea("content"), number("order"), checkbox("is_active")},
}

var PageSpec = ResourceSpec[domain.Page]{
	Name:    "pages",
	Columns: []string{"title", "slug", "is_published"},
	Fields:  []views.Field{text("title"), text("slug"), checkbox("is_published")},
}

var UserSpec = ResourceSpec[domain.User]{
	Name:    "users",
	Columns: []string{"name", "email", "role", "created_at"},
	Fields: []views.Field{
		text("name"), text("email"), {Name: "password", Kind: views.KindPassword}, choice("role", roles),
	},
	NewInput: func() entityInput[domain.User] { return &userInput{} },
}

var BookingSpec = ResourceSpec[domain.Booking]{
	Name:    "bookings",
	Columns: []string{"user_id", "package_id", "start_date", "guests", "total_price", "status"},
	Fields: []views.Field{
		text("user_id"), text("package_id"), date("start_date"), date("end_date"),
		number("guests"), number("total_price"), choice("status", bookingStatus),
	},
}

var PaymentSpec = ResourceSpec[domain.Payment]{
	Name:    "payments",
	Columns: []string{"booking_id", "amount", "currency", "status", "created_at"},
	Fields: []views.Field{
		text("booking_id"), number("amount"), text("currency"), choice("status", paymentStatus),
	},
}

// userInput is the user form; the password is only hashed, never stored.
// An empty password on update keeps the current one.
type userInput struct {
	Name     string      `json:"name"`
	Email    string      `json:"email" validate:"required,email"`
	Password string      `json:"password" validate:"omitempty,min=8"`
	Role     domain.Role `json:"role" validate:"omitempty,oneof=ADMIN USER MANAGER GUIDE"`
}

func (in *userInput) Entity() (*domain.User, error) {
	u := &domain.User{Name: in.Name, Email: in.Email, Role: in.Role}
	if in.Password != "" {
		hash, err := service.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	return u, nil
}
