// Package search provides full-text catalog search using Bleve. It backs the
// search endpoint and the optional query/category pre-filter that narrows the
// ranking candidate pool before scoring.
package search

import (
	"github.com/foundershelf/foundershelf-server/internal/domain"
)

// BookDocument is the document structure for the Bleve index.
//
// Tag fields are indexed with the keyword analyzer so compound slugs
// ("client-acquisition", "services_canon") stay intact for exact filtering,
// while title/author/promise get full-text treatment.
type BookDocument struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`

	// Promise is the searchable pitch text.
	Promise string `json:"promise,omitempty"`

	Categories     []string `json:"categories,omitempty"`
	StageTags      []string `json:"stage_tags,omitempty"`
	FunctionalTags []string `json:"functional_tags,omitempty"`
	ThemeTags      []string `json:"theme_tags,omitempty"`

	Difficulty string `json:"difficulty,omitempty"`

	CreatedAt int64 `json:"created_at"` // Unix millis, for recency sorting
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but the
// mapping uses lowercase names, so we convert explicitly.
func (d *BookDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"author":     d.Author,
		"created_at": d.CreatedAt,
	}

	if d.Promise != "" {
		m["promise"] = d.Promise
	}
	if len(d.Categories) > 0 {
		m["categories"] = d.Categories
	}
	if len(d.StageTags) > 0 {
		m["stage_tags"] = d.StageTags
	}
	if len(d.FunctionalTags) > 0 {
		m["functional_tags"] = d.FunctionalTags
	}
	if len(d.ThemeTags) > 0 {
		m["theme_tags"] = d.ThemeTags
	}
	if d.Difficulty != "" {
		m["difficulty"] = d.Difficulty
	}

	return m
}

// NewBookDocument converts a catalog book to its index document.
func NewBookDocument(book *domain.Book) *BookDocument {
	return &BookDocument{
		ID:             book.ID,
		Title:          book.Title,
		Author:         book.Author,
		Promise:        book.Promise,
		Categories:     book.Categories,
		StageTags:      book.StageTags,
		FunctionalTags: book.FunctionalTags,
		ThemeTags:      book.ThemeTags,
		Difficulty:     book.Difficulty,
		CreatedAt:      book.CreatedAt.UnixMilli(),
	}
}
