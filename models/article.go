package models

import (
	"time"

	"ctonews/oops"
)

type BlockKind string

const (
	BlockKindText  BlockKind = "text"
	BlockKindImage BlockKind = "image"
	BlockKindCode  BlockKind = "code"
)

// ContentBlock is one unit of extracted article content. Language is only
// meaningful for code blocks; empty means the language wasn't detected.
type ContentBlock struct {
	Kind     BlockKind `json:"type"`
	Value    string    `json:"value"`
	Language string    `json:"language,omitempty"`
}

// Article is the canonical record, created once by the formatter and never
// mutated afterwards. Url is the sole external identity key.
type Article struct {
	Id        string         `json:"id"`
	Title     string         `json:"title"`
	Date      string         `json:"date"`
	Url       string         `json:"url"`
	Content   []ContentBlock `json:"content"`
	Category  string         `json:"category"`
	Summary   string         `json:"summary"`
	Source    string         `json:"source"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Validate gates the formatter boundary so that partially shaped scrape
// payloads never reach the store or the cache.
func (a *Article) Validate() error {
	if a.Id == "" {
		return oops.New("article id is empty")
	}
	if a.Title == "" {
		return oops.New("article title is empty")
	}
	if a.Url == "" {
		return oops.New("article url is empty")
	}
	if len(a.Content) == 0 {
		return oops.Newf("article has no content blocks: %s", a.Url)
	}
	for i, block := range a.Content {
		switch block.Kind {
		case BlockKindText, BlockKindImage, BlockKindCode:
		default:
			return oops.Newf("article %s block %d has unknown kind %q", a.Url, i, block.Kind)
		}
		if block.Value == "" {
			return oops.Newf("article %s block %d has empty value", a.Url, i)
		}
	}
	return nil
}
