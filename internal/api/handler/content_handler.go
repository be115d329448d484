package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/api/metrics"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/service"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/render"
)

// ContentHandler serves page content blocks.
type ContentHandler struct {
	content *service.ContentService
}

func NewContentHandler(content *service.ContentService) *ContentHandler {
	return &ContentHandler{content: content}
}

// blockRequest carries a block payload. Content may be a JSON string (TEXT
// bodies) or any JSON value, which is stored as its JSON text.
type blockRequest struct {
	Type    domain.BlockType `json:"type"`
	Content json.RawMessage  `json:"content"`
}

func (r blockRequest) payload() string {
	var s string
	if err := json.Unmarshal(r.Content, &s); err == nil {
		return s
	}
	return string(r.Content)
}

type reorderRequest struct {
	IDs []string `json:"ids" validate:"required,min=1"`
}

// ListBlocks handles GET /api/dashboard/pages/:id/content.
//
// @Summary      List the content blocks of a page
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Page id"
// @Success      200  {array}   domain.ContentBlock
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/dashboard/pages/{id}/content [get]
func (h *ContentHandler) ListBlocks(c echo.Context) error {
	ctx, sess := requestScope(c)
	blocks, err := h.content.ListBlocks(ctx, sess, c.Param("id"))
	if err != nil {
		return err
	}
	if blocks == nil {
		blocks = []domain.ContentBlock{}
	}
	return c.JSON(http.StatusOK, blocks)
}

// CreateBlock handles POST /api/dashboard/pages/:id/content.
//
// @Summary      Append a content block to a page
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Page id"
// @Param        body  body      blockRequest  true  "Block type and payload"
// @Success      201   {object}  domain.ContentBlock
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/dashboard/pages/{id}/content [post]
func (h *ContentHandler) CreateBlock(c echo.Context) error {
	ctx, sess, err := adminScope(c)
	if err != nil {
		return err
	}
	var req blockRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("invalid payload: %w", domain.ErrInvalidInput)
	}

	b, err := h.content.CreateBlock(ctx, sess, c.Param("id"), req.Type, req.payload())
	if err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("content_blocks", "create").Inc()
	return c.JSON(http.StatusCreated, b)
}

// UpdateBlock handles PUT /api/dashboard/pages/:id/content/:blockId.
//
// @Summary      Replace a block's payload
// @Tags         content
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string        true  "Page id"
// @Param        blockId  path      string        true  "Block id"
// @Param        body     body      blockRequest  true  "New payload; type is ignored"
// @Success      200      {object}  domain.ContentBlock
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/dashboard/pages/{id}/content/{blockId} [put]
func (h *ContentHandler) UpdateBlock(c echo.Context) error {
	ctx, sess, err := adminScope(c)
	if err != nil {
		return err
	}
	var req blockRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("invalid payload: %w", domain.ErrInvalidInput)
	}

	b, err := h.content.UpdateBlock(ctx, sess, c.Param("id"), c.Param("blockId"), req.payload())
	if err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("content_blocks", "update").Inc()
	return c.JSON(http.StatusOK, b)
}

// DeleteBlock handles DELETE /api/dashboard/pages/:id/content/:blockId.
//
// @Summary      Delete a content block
// @Tags         content
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string  true  "Page id"
// @Param        blockId  path      string  true  "Block id"
// @Success      200      {object}  deleteResponse
// @Failure      401      {object}  errorResponse
// @Failure      404      {object}  errorResponse
// @Router       /api/dashboard/pages/{id}/content/{blockId} [delete]
func (h *ContentHandler) DeleteBlock(c echo.Context) error {
	ctx, sess := requestScope(c)
	res, err := h.content.DeleteBlock(ctx, sess, c.Param("id"), c.Param("blockId"))
	if err != nil {
		return err
	}
	if !res.Existed {
		metrics.DeleteMissingTotal.WithLabelValues("content_blocks").Inc()
		return fmt.Errorf("block %s: %w", res.ID, domain.ErrNotFound)
	}
	metrics.RecordsMutatedTotal.WithLabelValues("content_blocks", "delete").Inc()
	return c.JSON(http.StatusOK, deleteResponse{ID: res.ID, Deleted: true})
}

// Reorder handles PATCH /api/dashboard/pages/:id/content.
//
// @Summary      Reorder a page's blocks
// @Tags         content
// @Accept       json
// @Security     BearerAuth
// @Param        id    path  string          true  "Page id"
// @Param        body  body  reorderRequest  true  "Every block id of the page in the new order"
// @Success      204
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/dashboard/pages/{id}/content [patch]
func (h *ContentHandler) Reorder(c echo.Context) error {
	ctx, sess, err := adminScope(c)
	if err != nil {
		return err
	}
	var req reorderRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("invalid payload: %w", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.content.Reorder(ctx, sess, c.Param("id"), req.IDs); err != nil {
		return err
	}
	metrics.RecordsMutatedTotal.WithLabelValues("content_blocks", "reorder").Inc()
	return c.NoContent(http.StatusNoContent)
}

type publicBlock struct {
	ID    string           `json:"id"`
	Type  domain.BlockType `json:"type"`
	Order int              `json:"order"`
	Data  render.Node      `json:"data"`
	HTML  string           `json:"html"`
}

type publicContentResponse struct {
	Page   domain.Page   `json:"page"`
	Blocks []publicBlock `json:"blocks"`
}

// PublicContent handles GET /api/public-content/:slug. Blocks that cannot be
// rendered are left out.
//
// @Summary      Rendered content of a published page
// @Tags         content
// @Produce      json
// @Param        slug  path      string  true  "Page slug"
// @Success      200   {object}  publicContentResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/public-content/{slug} [get]
func (h *ContentHandler) PublicContent(c echo.Context) error {
	page, err := h.content.RenderPage(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	if page.Dropped > 0 {
		metrics.BlocksDroppedTotal.Add(float64(page.Dropped))
	}

	resp := publicContentResponse{Page: page.Page, Blocks: make([]publicBlock, 0, len(page.Blocks))}
	for _, b := range page.Blocks {
		resp.Blocks = append(resp.Blocks, publicBlock{
			ID:    b.Block.ID,
			Type:  b.Block.Type,
			Order: b.Block.Order,
			Data:  b.Node,
			HTML:  string(render.HTML(b.Node)),
		})
	}
	return c.JSON(http.StatusOK, resp)
}
