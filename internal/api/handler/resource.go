package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/metrics"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/views"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/service"
)

// IdempotencyHeader carries the submission key of an API create.
const IdempotencyHeader = "Idempotency-Key"

// entityInput is a request type that needs converting before it becomes an
// entity. Users use it to hash the submitted password.
type entityInput[T any] interface {
	Entity() (*T, error)
}

// ResourceSpec describes how one dashboard collection is listed and edited.
type ResourceSpec[T any] struct {
	// Name is the URL segment under /api/dashboard and /dashboard.
	Name string
	// Columns are the list page columns. They and the record timestamps are
	// the only fields a list may be sorted by.
	Columns []string
	Fields  []views.Field
	// NewInput returns the value request bodies decode into. When nil they
	// decode straight into T.
	NewInput func() entityInput[T]
}

// Resource serves the JSON API and the admin pages of one collection.
type Resource[T any, PT interface {
	*T
	domain.Entity
}] struct {
	flow *service.AdminFlow[T, PT]
	spec ResourceSpec[T]
}

func NewResource[T any, PT interface {
	*T
	domain.Entity
}](flow *service.AdminFlow[T, PT], spec ResourceSpec[T]) *Resource[T, PT] {
	return &Resource[T, PT]{flow: flow, spec: spec}
}

// Name returns the URL segment of the collection.
func (h *Resource[T, PT]) Name() string { return h.spec.Name }

// Register mounts the JSON routes on api and the HTML routes on pages.
func (h *Resource[T, PT]) Register(api, pages *echo.Group) {
	a := api.Group("/" + h.spec.Name)
	a.GET("", h.List)
	a.GET("/:id", h.Get)
	a.POST("", h.Create)
	a.PUT("/:id", h.Update)
	a.DELETE("/:id", h.Delete)

	p := pages.Group("/" + h.spec.Name)
	p.GET("", h.ListPage)
	p.GET("/new", h.NewPage)
	p.GET("/:id/edit", h.EditPage)
	p.POST("", h.CreatePage)
	p.POST("/:id", h.UpdatePage)
	p.POST("/:id/delete", h.DeletePage)
}

// --- JSON API ---

// List handles GET /api/dashboard/:collection.
//
// @Summary      List records of a collection
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path   string  true   "Collection name"
// @Param        sort        query  string  false  "Field to sort by"
// @Param        desc        query  bool    false  "Sort descending"
// @Param        limit       query  int     false  "Maximum number of records"
// @Success      200  {array}   object
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/dashboard/{collection} [get]
func (h *Resource[T, PT]) List(c echo.Context) error {
	ctx, sess := requestScope(c)

	q := ports.Query{}
	if f := c.QueryParam("sort"); f != "" {
		if !h.sortable(f) {
			return fmt.Errorf("cannot sort %s by %q: %w", h.spec.Name, f, domain.ErrInvalidInput)
		}
		q.Sort = &ports.Sort{Field: f, Desc: c.QueryParam("desc") == "true"}
	}
	if l := c.QueryParam("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			return fmt.Errorf("limit must be a positive integer: %w", domain.ErrInvalidInput)
		}
		q.Limit = n
	}

	items, err := h.flow.Service().List(ctx, sess, q)
	if err != nil {
		return err
	}
	if items == nil {
		items = []T{}
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /api/dashboard/:collection/:id.
//
// @Summary      Get a record by id
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path  string  true  "Collection name"
// @Param        id          path  string  true  "Record id"
// @Success      200  {object}  object
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/dashboard/{collection}/{id} [get]
func (h *Resource[T, PT]) Get(c echo.Context) error {
	ctx, sess := requestScope(c)
	item, err := h.flow.Service().Get(ctx, sess, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}

// Create handles POST /api/dashboard/:collection.
//
// @Summary      Create a record
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        collection       path    string  true   "Collection name"
// @Param        Idempotency-Key  header  string  false  "Rejects a repeated submission of the same form"
// @Success      201  {object}  object
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /api/dashboard/{collection} [post]
func (h *Resource[T, PT]) Create(c echo.Context) error {
	ctx, sess, err := adminScope(c)
	if err != nil {
		return err
	}
	entity, err := h.decode(c, nil)
	if err != nil {
		return err
	}

	created, err := h.flow.Service().Create(ctx, sess, entity, c.Request().Header.Get(IdempotencyHeader))
	if err != nil {
		h.observe(err)
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues(h.spec.Name, "create").Inc()
	return c.JSON(http.StatusCreated, created)
}

// Update handles PUT /api/dashboard/:collection/:id.
//
// @Summary      Replace a record
// @Tags         dashboard
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path  string  true  "Collection name"
// @Param        id          path  string  true  "Record id"
// @Success      200  {object}  object
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/dashboard/{collection}/{id} [put]
func (h *Resource[T, PT]) Update(c echo.Context) error {
	ctx, sess, err := adminScope(c)
	if err != nil {
		return err
	}
	entity, err := h.decode(c, nil)
	if err != nil {
		return err
	}

	updated, err := h.flow.Service().Update(ctx, sess, c.Param("id"), entity)
	if err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues(h.spec.Name, "update").Inc()
	return c.JSON(http.StatusOK, updated)
}

type deleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// Delete handles DELETE /api/dashboard/:collection/:id. Deleting an id that
// does not exist answers 404 every time.
//
// @Summary      Delete a record
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        collection  path  string  true  "Collection name"
// @Param        id          path  string  true  "Record id"
// @Success      200  {object}  deleteResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/dashboard/{collection}/{id} [delete]
func (h *Resource[T, PT]) Delete(c echo.Context) error {
	ctx, sess := requestScope(c)
	res, err := h.flow.Service().Delete(ctx, sess, c.Param("id"))
	if err != nil {
		return err
	}
	if !res.Existed {
		metrics.DeleteMissingTotal.WithLabelValues(h.spec.Name).Inc()
		return fmt.Errorf("%s %s: %w", h.spec.Name, res.ID, domain.ErrNotFound)
	}
	metrics.RecordsMutatedTotal.WithLabelValues(h.spec.Name, "delete").Inc()
	return c.JSON(http.StatusOK, deleteResponse{ID: res.ID, Deleted: true})
}

// --- HTML pages ---

// ListPage handles GET /dashboard/:collection.
func (h *Resource[T, PT]) ListPage(c echo.Context) error {
	ctx, sess := requestScope(c)
	out := h.flow.List(ctx, sess)
	if out.State == service.StateDenied {
		return out.Err
	}

	view := views.ListView{Collection: h.spec.Name, Columns: h.spec.Columns}
	for i := range out.Items {
		values, err := fieldValues(&out.Items[i])
		if err != nil {
			return err
		}
		row := views.Row{ID: PT(&out.Items[i]).Meta().ID}
		for _, col := range h.spec.Columns {
			row.Cells = append(row.Cells, values[col])
		}
		view.Rows = append(view.Rows, row)
	}

	code := http.StatusOK
	if out.Err != nil {
		code = pageStatus(out.Err)
		view.Error = pageMessage(out.Err)
	}
	return c.Render(code, "list", views.PageData(c, "collection."+h.spec.Name, view))
}

// NewPage handles GET /dashboard/:collection/new.
func (h *Resource[T, PT]) NewPage(c echo.Context) error {
	ctx, sess := requestScope(c)
	out := h.flow.Open(ctx, sess, "")
	if out.State == service.StateDenied {
		return out.Err
	}
	return h.renderForm(c, http.StatusOK, "", fillFields(h.spec.Fields, nil), nil)
}

// EditPage handles GET /dashboard/:collection/:id/edit. An unknown id is a
// 404 and nothing is written.
func (h *Resource[T, PT]) EditPage(c echo.Context) error {
	ctx, sess := requestScope(c)
	out := h.flow.Open(ctx, sess, c.Param("id"))
	if out.State == service.StateDenied || out.Err != nil {
		return out.Err
	}
	return h.renderForm(c, http.StatusOK, c.Param("id"), fillFields(h.spec.Fields, out.Item), nil)
}

// CreatePage handles POST /dashboard/:collection.
func (h *Resource[T, PT]) CreatePage(c echo.Context) error {
	return h.submit(c, "")
}

// UpdatePage handles POST /dashboard/:collection/:id.
func (h *Resource[T, PT]) UpdatePage(c echo.Context) error {
	return h.submit(c, c.Param("id"))
}

// DeletePage handles POST /dashboard/:collection/:id/delete. Removing an id
// that is already gone looks the same as removing one that exists.
func (h *Resource[T, PT]) DeletePage(c echo.Context) error {
	ctx, sess := requestScope(c)
	out := h.flow.Remove(ctx, sess, c.Param("id"))
	if out.State == service.StateDenied || out.Err != nil {
		return out.Err
	}
	if out.Existed {
		metrics.RecordsMutatedTotal.WithLabelValues(h.spec.Name, "delete").Inc()
	} else {
		metrics.DeleteMissingTotal.WithLabelValues(h.spec.Name).Inc()
	}
	return c.Redirect(http.StatusSeeOther, h.listURL("deleted"))
}

func (h *Resource[T, PT]) submit(c echo.Context, id string) error {
	ctx, sess, err := adminScope(c)
	if err != nil {
		return err
	}
	form, err := c.FormParams()
	if err != nil {
		return fmt.Errorf("invalid form: %w", domain.ErrInvalidInput)
	}

	raw, err := formJSON(h.spec.Fields, form)
	if err == nil {
		var entity *T
		entity, err = h.decode(c, raw)
		if err == nil {
			out := h.flow.Submit(ctx, sess, id, entity, form.Get("submission_key"))
			switch {
			case out.State == service.StateDenied:
				return out.Err
			case out.State == service.StateListing:
				op := "update"
				if id == "" {
					op = "create"
				}
				metrics.RecordsMutatedTotal.WithLabelValues(h.spec.Name, op).Inc()
				return c.Redirect(http.StatusSeeOther, h.listURL("saved"))
			}
			err = out.Err
			h.observe(err)
		}
	}

	return h.renderForm(c, pageStatus(err), id, postedFields(h.spec.Fields, form), err)
}

func (h *Resource[T, PT]) renderForm(c echo.Context, code int, id string, fields []views.Field, err error) error {
	view := views.FormView{Collection: h.spec.Name, ID: id, Fields: fields}
	if id == "" {
		view.SubmissionKey = uuid.NewString()
	}
	if err != nil {
		view.Error = pageMessage(err)
	}
	return c.Render(code, "form", views.PageData(c, "collection."+h.spec.Name, view))
}

// decode reads the entity from raw, or from the request body when raw is
// nil, and validates it.
func (h *Resource[T, PT]) decode(c echo.Context, raw []byte) (*T, error) {
	var target any
	if h.spec.NewInput != nil {
		target = h.spec.NewInput()
	} else {
		target = new(T)
	}

	if raw == nil {
		if err := c.Bind(target); err != nil {
			return nil, fmt.Errorf("invalid payload: %w", domain.ErrInvalidInput)
		}
	} else if err := json.Unmarshal(raw, target); err != nil {
		return nil, fmt.Errorf("invalid form: %v: %w", err, domain.ErrInvalidInput)
	}

	if err := c.Validate(target); err != nil {
		return nil, err
	}
	if in, ok := target.(entityInput[T]); ok {
		return in.Entity()
	}
	return target.(*T), nil
}

func (h *Resource[T, PT]) sortable(field string) bool {
	switch field {
	case "id", "created_at", "updated_at":
		return true
	}
	return slices.Contains(h.spec.Columns, field)
}

func (h *Resource[T, PT]) observe(err error) {
	if errors.Is(err, domain.ErrDuplicateSubmission) {
		metrics.SubmissionsRejectedTotal.WithLabelValues(h.spec.Name).Inc()
	}
}

func (h *Resource[T, PT]) listURL(notice string) string {
	return "/dashboard/" + h.spec.Name + "?notice=" + url.QueryEscape(notice)
}

// postedFields refills the form from the submitted values.
func postedFields(specs []views.Field, form url.Values) []views.Field {
	out := make([]views.Field, len(specs))
	copy(out, specs)
	for i := range out {
		switch out[i].Kind {
		case views.KindCheckbox:
			out[i].Checked = form.Has(out[i].Name)
		case views.KindPassword:
		default:
			out[i].Value = form.Get(out[i].Name)
		}
	}
	return out
}

// pageStatus is the status a page answers with when err is shown inline.
func pageStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateSlug),
		errors.Is(err, domain.ErrDuplicateSubmission),
		errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrInvalidBlockType),
		errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// pageMessage hides store failures from the page.
func pageMessage(err error) string {
	if pageStatus(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
