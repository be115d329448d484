package views

import (
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/service"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/render"
)

// ErrorPage is shown for any error that is not a sign-in redirect.
type ErrorPage struct {
	Code    int
	Message string
}

type SignInView struct {
	Email string
	Next  string
	Error string
}

// FieldKind selects the form control for a Field.
type FieldKind string

const (
	KindText     FieldKind = "text"
	KindTextarea FieldKind = "textarea"
	KindNumber   FieldKind = "number"
	KindCheckbox FieldKind = "checkbox"
	KindDate     FieldKind = "date"
	KindList     FieldKind = "list"
	KindSelect   FieldKind = "select"
	KindPassword FieldKind = "password"
)

// Field is one form control. Name is the stored field name.
type Field struct {
	Name    string
	Kind    FieldKind
	Value   string
	Checked bool
	Options []string
}

// Row is one record in a list table.
type Row struct {
	ID    string
	Cells []string
}

type ListView struct {
	Collection string
	Columns    []string
	Rows       []Row
	Error      string
}

// FormView is the create or edit form. ID is empty when creating.
type FormView struct {
	Collection    string
	ID            string
	Fields        []Field
	SubmissionKey string
	Error         string
}

// Action is the URL the form posts to.
func (f FormView) Action() string {
	if f.ID == "" {
		return "/dashboard/" + f.Collection
	}
	return "/dashboard/" + f.Collection + "/" + f.ID
}

type DashboardView struct {
	Stats       *service.Stats
	Revenue     float64
	Collections []string
}

type HomeView struct {
	Destinations []domain.Destination
	Packages     []domain.Package
	Promotions   []domain.Promotion
	Locales      []string
}

// Fact is a labelled value on a detail page.
type Fact struct {
	Label string
	Value string
}

type DetailView struct {
	Name        string
	Description string
	ImageURL    string
	Facts       []Fact
	Items       []string
}

type PublicPageView struct {
	Page   domain.Page
	Blocks []render.Node
}
