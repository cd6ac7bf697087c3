package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for book documents.
//
// The mapping is designed with these priorities:
//  1. Fast full-text search on title/author/promise with English stemming
//  2. Exact keyword matching for category and tag filters
//  3. Recency sorting via the created_at numeric field
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Title - primary search target
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Author - founders search by author name as often as by title
	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = en.AnalyzerName
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	// Promise - searchable pitch text, not stored (retrieved from the store)
	promiseFieldMapping := bleve.NewTextFieldMapping()
	promiseFieldMapping.Analyzer = en.AnalyzerName
	promiseFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("promise", promiseFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	// ID - stored but not analyzed
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Categories - exact filtering and faceting
	categoriesFieldMapping := bleve.NewTextFieldMapping()
	categoriesFieldMapping.Analyzer = keyword.Name
	categoriesFieldMapping.Store = true
	categoriesFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("categories", categoriesFieldMapping)

	// Tag fields - keyword analyzer keeps compound slugs intact
	// ("client-acquisition", "services_canon")
	stageTagsFieldMapping := bleve.NewTextFieldMapping()
	stageTagsFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("stage_tags", stageTagsFieldMapping)

	functionalTagsFieldMapping := bleve.NewTextFieldMapping()
	functionalTagsFieldMapping.Analyzer = keyword.Name
	functionalTagsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("functional_tags", functionalTagsFieldMapping)

	themeTagsFieldMapping := bleve.NewTextFieldMapping()
	themeTagsFieldMapping.Analyzer = keyword.Name
	themeTagsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("theme_tags", themeTagsFieldMapping)

	// Difficulty - exact filtering
	difficultyFieldMapping := bleve.NewTextFieldMapping()
	difficultyFieldMapping.Analyzer = keyword.Name
	difficultyFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("difficulty", difficultyFieldMapping)

	// --- Numeric fields ---

	// Created timestamp - for recency sorting
	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
