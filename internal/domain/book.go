// Package domain contains the core business entities and domain logic for the FounderShelf catalog.
package domain

import (
	"slices"
	"time"
)

// Canon sentinel tags. A book carrying one of these theme tags belongs to the
// curated "essential reading" set for that business-model segment.
const (
	ServicesCanonTag = "services_canon"
	SaaSCanonTag     = "saas_canon"
)

// Book represents a catalog item eligible for ranking.
// Immutable within a ranking request; writes go through the catalog importer
// or the admin upsert endpoint.
type Book struct {
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`

	// Promise is the one-paragraph pitch: what the book claims to do for the reader.
	Promise string `json:"promise,omitempty"`

	Frameworks   []string `json:"frameworks,omitempty"`    // Named methods the book teaches
	AntiPatterns []string `json:"anti_patterns,omitempty"` // Mistakes the book warns against
	Outcomes     []string `json:"outcomes,omitempty"`      // Results the book promises
	Categories   []string `json:"categories,omitempty"`

	StageTags      []string `json:"stage_tags,omitempty"`      // Business stages the book targets
	FunctionalTags []string `json:"functional_tags,omitempty"` // Functional areas (marketing, hiring, ...)
	ThemeTags      []string `json:"theme_tags,omitempty"`      // Topics, including canon sentinels

	Difficulty   string  `json:"difficulty,omitempty"` // "intro", "intermediate", "advanced"
	PageCount    int     `json:"page_count,omitempty"`
	AvgRating    float64 `json:"avg_rating,omitempty"`
	RatingsCount int     `json:"ratings_count,omitempty"`
}

// Helper Methods.

// HasStageTag reports whether the book targets the given business stage.
func (b *Book) HasStageTag(stage string) bool {
	return slices.Contains(b.StageTags, stage)
}

// HasFunctionalTag reports whether the book covers the given functional area.
func (b *Book) HasFunctionalTag(area string) bool {
	return slices.Contains(b.FunctionalTags, area)
}

// HasThemeTag reports whether the book carries the given theme tag.
func (b *Book) HasThemeTag(theme string) bool {
	return slices.Contains(b.ThemeTags, theme)
}

// IsServicesCanon reports whether the book belongs to the service-business canon.
func (b *Book) IsServicesCanon() bool {
	return b.HasThemeTag(ServicesCanonTag)
}

// IsSaaSCanon reports whether the book belongs to the SaaS canon.
func (b *Book) IsSaaSCanon() bool {
	return b.HasThemeTag(SaaSCanonTag)
}

// Touch updates the UpdatedAt timestamp to the current time.
func (b *Book) Touch() {
	b.UpdatedAt = time.Now()
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new book.
func (b *Book) InitTimestamps() {
	now := time.Now()
	b.CreatedAt = now
	b.UpdatedAt = now
}
