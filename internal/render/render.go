// Package render turns stored content blocks into typed nodes and HTML.
//
// Decoding never fails loudly: a block whose payload does not match its type,
// or whose type is unknown, renders as absent.
package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/Mustafaelfangary/Altavidatours-sub004/internal/core/domain"
)

// Node is a decoded, renderable block.
type Node interface {
	Type() domain.BlockType
}

type CallToAction struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

func (CallToAction) Type() domain.BlockType { return domain.BlockCallToAction }

type Image struct {
	Src string `json:"src"`
	Alt string `json:"alt"`
}

func (Image) Type() domain.BlockType { return domain.BlockImage }

type Video struct {
	URL string `json:"url"`
}

func (Video) Type() domain.BlockType { return domain.BlockVideo }

// Text holds sanitised HTML.
type Text struct {
	HTML string `json:"html"`
}

func (Text) Type() domain.BlockType { return domain.BlockText }

type Gallery struct {
	Images []Image `json:"images"`
}

func (Gallery) Type() domain.BlockType { return domain.BlockGallery }

var policy = bluemonday.UGCPolicy()

// Render decodes block. ok is false when the block is absent.
func Render(block domain.ContentBlock) (Node, bool) {
	n, err := Decode(block)
	if err != nil {
		return nil, false
	}
	return n, true
}

// Decode is Render with the reason a block is absent.
func Decode(block domain.ContentBlock) (Node, error) {
	switch block.Type {
	case domain.BlockCallToAction:
		var n CallToAction
		if err := unmarshal(block.Content, &n); err != nil {
			return nil, err
		}
		if n.Text == "" || n.URL == "" {
			return nil, fmt.Errorf("call to action needs text and url")
		}
		return n, nil

	case domain.BlockImage:
		var n Image
		if err := unmarshal(block.Content, &n); err != nil {
			return nil, err
		}
		if n.Src == "" {
			return nil, fmt.Errorf("image without src")
		}
		return n, nil

	case domain.BlockVideo:
		var n Video
		if err := unmarshal(block.Content, &n); err != nil {
			return nil, err
		}
		if n.URL == "" {
			return nil, fmt.Errorf("video without url")
		}
		return n, nil

	case domain.BlockText:
		html := strings.TrimSpace(policy.Sanitize(block.Content))
		if html == "" {
			return nil, fmt.Errorf("empty text")
		}
		return Text{HTML: html}, nil

	case domain.BlockGallery:
		var raw struct {
			Images json.RawMessage `json:"images"`
		}
		if err := unmarshal(block.Content, &raw); err != nil {
			return nil, err
		}
		var images []Image
		if err := json.Unmarshal(raw.Images, &images); err != nil {
			return nil, fmt.Errorf("gallery images is not a list: %w", err)
		}
		n := Gallery{}
		for _, img := range images {
			if img.Src != "" {
				n.Images = append(n.Images, img)
			}
		}
		if len(n.Images) == 0 {
			return nil, fmt.Errorf("empty gallery")
		}
		return n, nil
	}

	return nil, fmt.Errorf("unknown block type %q", block.Type)
}

func unmarshal(content string, v any) error {
	if strings.TrimSpace(content) == "" {
		return fmt.Errorf("empty payload")
	}
	if err := json.Unmarshal([]byte(content), v); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}
	return nil
}
