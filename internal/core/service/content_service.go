package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/ports"
	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/render"
)

// RenderedBlock pairs a stored block with its decoded node.
type RenderedBlock struct {
	Block domain.ContentBlock
	Node  render.Node
}

// RenderedPage is a published page ready for display. Dropped counts blocks
// that rendered as absent.
type RenderedPage struct {
	Page    domain.Page
	Blocks  []RenderedBlock
	Dropped int
}

// ContentService manages the ordered content blocks of CMS pages.
type ContentService struct {
	pages  ports.PageRepository
	blocks ports.ContentBlockRepository
	log    zerolog.Logger
	now    func() time.Time
}

func NewContentService(pages ports.PageRepository, blocks ports.ContentBlockRepository, log zerolog.Logger) *ContentService {
	return &ContentService{
		pages:  pages,
		blocks: blocks,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

var byOrder = &ports.Sort{Field: "order"}

// ListBlocks returns the blocks of pageID in display order.
func (s *ContentService) ListBlocks(ctx context.Context, sess *domain.Session, pageID string) ([]domain.ContentBlock, error) {
	if _, err := Authorize(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}
	return s.pageBlocks(ctx, pageID)
}

// CreateBlock appends a block after the page's current last block.
func (s *ContentService) CreateBlock(ctx context.Context, sess *domain.Session, pageID string, typ domain.BlockType, content string) (*domain.ContentBlock, error) {
	if _, err := Authorize(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}
	if !typ.Known() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidBlockType, typ)
	}
	if err := s.pageExists(ctx, pageID); err != nil {
		return nil, err
	}

	last, err := s.blocks.FindMany(ctx, ports.Query{
		Filter: ports.Filter{"page_id": pageID},
		Sort:   &ports.Sort{Field: "order", Desc: true},
		Limit:  1,
	})
	if err != nil {
		return nil, s.storeErr("find last block", err)
	}
	order := 0
	if len(last) > 0 {
		order = last[0].Order + 1
	}

	now := s.now()
	b := &domain.ContentBlock{
		Record:  domain.Record{ID: ulid.Make().String(), CreatedAt: now, UpdatedAt: now},
		PageID:  pageID,
		Type:    typ,
		Content: content,
		Order:   order,
	}
	if err := s.blocks.Create(ctx, b); err != nil {
		return nil, s.storeErr("create block", err)
	}
	return b, nil
}

// UpdateBlock replaces the payload of a block. The type and position are kept.
func (s *ContentService) UpdateBlock(ctx context.Context, sess *domain.Session, pageID, blockID, content string) (*domain.ContentBlock, error) {
	if _, err := Authorize(sess, domain.RoleAdmin); err != nil {
		return nil, err
	}
	b, err := s.block(ctx, pageID, blockID)
	if err != nil {
		return nil, err
	}
	b.Content = content
	b.UpdatedAt = s.now()
	if err := s.blocks.Update(ctx, b); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, s.storeErr("update block", err)
	}
	return b, nil
}

// DeleteBlock removes a block and closes the gap it leaves in the ordering.
func (s *ContentService) DeleteBlock(ctx context.Context, sess *domain.Session, pageID, blockID string) (DeleteResult, error) {
	res := DeleteResult{ID: blockID}
	if _, err := Authorize(sess, domain.RoleAdmin); err != nil {
		return res, err
	}
	if _, err := s.block(ctx, pageID, blockID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return res, nil
		}
		return res, err
	}
	if err := s.blocks.Delete(ctx, blockID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return res, nil
		}
		return res, s.storeErr("delete block", err)
	}
	res.Existed = true

	remaining, err := s.pageBlocks(ctx, pageID)
	if err != nil {
		return res, err
	}
	return res, s.renumber(ctx, remaining)
}

// Reorder sets block positions to the order of ids. Every id must belong to pageID.
func (s *ContentService) Reorder(ctx context.Context, sess *domain.Session, pageID string, ids []string) error {
	if _, err := Authorize(sess, domain.RoleAdmin); err != nil {
		return err
	}
	current, err := s.pageBlocks(ctx, pageID)
	if err != nil {
		return err
	}

	if len(ids) != len(current) {
		return fmt.Errorf("reorder needs all %d blocks of page %s: %w", len(current), pageID, domain.ErrInvalidInput)
	}
	byID := make(map[string]domain.ContentBlock, len(current))
	for _, b := range current {
		byID[b.ID] = b
	}
	ordered := make([]domain.ContentBlock, 0, len(ids))
	for _, id := range ids {
		b, ok := byID[id]
		delete(byID, id)
		if !ok {
			return fmt.Errorf("block %s is not on page %s: %w", id, pageID, domain.ErrInvalidInput)
		}
		ordered = append(ordered, b)
	}
	return s.renumber(ctx, ordered)
}

// RenderPage returns the published page slug with its blocks rendered in
// order. Blocks that render as absent are left out.
func (s *ContentService) RenderPage(ctx context.Context, slug string) (*RenderedPage, error) {
	pages, err := s.pages.FindMany(ctx, ports.Query{Filter: ports.Filter{"slug": slug, "is_published": true}, Limit: 1})
	if err != nil {
		return nil, s.storeErr("find page", err)
	}
	if len(pages) == 0 {
		s.log.Debug().Str("slug", slug).Msg("published page not found")
		return nil, domain.ErrNotFound
	}

	blocks, err := s.pageBlocks(ctx, pages[0].ID)
	if err != nil {
		return nil, err
	}

	out := &RenderedPage{Page: pages[0], Blocks: make([]RenderedBlock, 0, len(blocks))}
	for _, b := range blocks {
		n, err := render.Decode(b)
		if err != nil {
			s.log.Warn().Err(err).
				Str("page", slug).
				Str("block_id", b.ID).
				Str("type", string(b.Type)).
				Msg("content block skipped")
			out.Dropped++
			continue
		}
		out.Blocks = append(out.Blocks, RenderedBlock{Block: b, Node: n})
	}
	return out, nil
}

func (s *ContentService) pageBlocks(ctx context.Context, pageID string) ([]domain.ContentBlock, error) {
	if err := s.pageExists(ctx, pageID); err != nil {
		return nil, err
	}
	blocks, err := s.blocks.FindMany(ctx, ports.Query{Filter: ports.Filter{"page_id": pageID}, Sort: byOrder})
	if err != nil {
		return nil, s.storeErr("list blocks", err)
	}
	return blocks, nil
}

func (s *ContentService) pageExists(ctx context.Context, pageID string) error {
	if _, err := s.pages.FindOne(ctx, pageID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return s.storeErr("find page", err)
	}
	return nil
}

func (s *ContentService) block(ctx context.Context, pageID, blockID string) (*domain.ContentBlock, error) {
	b, err := s.blocks.FindOne(ctx, blockID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, s.storeErr("find block", err)
	}
	if b.PageID != pageID {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

// renumber writes positions 0..n-1, skipping blocks already in place.
func (s *ContentService) renumber(ctx context.Context, blocks []domain.ContentBlock) error {
	now := s.now()
	for i := range blocks {
		if blocks[i].Order == i {
			continue
		}
		blocks[i].Order = i
		blocks[i].UpdatedAt = now
		if err := s.blocks.Update(ctx, &blocks[i]); err != nil {
			return s.storeErr("reorder blocks", err)
		}
	}
	return nil
}

func (s *ContentService) storeErr(op string, err error) error {
	s.log.Error().Err(err).Str("op", op).Msg("record store call failed")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		err = fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}
