package domain

// BlockType discriminates the payload stored in a ContentBlock.
type BlockType string

const (
	BlockText         BlockType = "TEXT"
	BlockImage        BlockType = "IMAGE"
	BlockVideo        BlockType = "VIDEO"
	BlockCallToAction BlockType = "CALL_TO_ACTION"
	BlockGallery      BlockType = "GALLERY"
)

// BlockTypes lists the types the dashboard accepts on create.
var BlockTypes = []BlockType{BlockText, BlockImage, BlockVideo, BlockCallToAction, BlockGallery}

// Known reports whether t is one of BlockTypes.
func (t BlockType) Known() bool {
	for _, k := range BlockTypes {
		if k == t {
			return true
		}
	}
	return false
}

// Page is a CMS page composed of ordered content blocks.
type Page struct {
	Record      `bson:",inline"`
	Title       string `json:"title" gorm:"not null" bson:"title" validate:"required"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null" bson:"slug" validate:"required"`
	IsPublished bool   `json:"is_published" bson:"is_published"`
}

func (p Page) SlugValue() string { return p.Slug }
func (p Page) Active() bool      { return p.IsPublished }

// ContentBlock is one typed unit of a page. Content is the serialized payload
// for Type; it is only interpreted at render time.
type ContentBlock struct {
	Record  `bson:",inline"`
	PageID  string    `json:"page_id" gorm:"size:26;index;not null" bson:"page_id"`
	Type    BlockType `json:"type" gorm:"not null" bson:"type"`
	Content string    `json:"content" gorm:"type:text" bson:"content"`
	Order   int       `json:"order" bson:"order"`
}
