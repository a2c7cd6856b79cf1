package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for search documents.
//
// The mapping is designed with these priorities:
//  1. Fast full-text search on titles with English stemming
//  2. Boosted relevance for artist name matches on tracks
//  3. Exact keyword matching for type, category, visibility and tag filters
//  4. Numeric fields for recency sorting
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()

	// Use English analyzer as default for text fields
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Name field - primary search target, boosted at query time
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	// Description - searchable, stored for result snippets
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// Body - page excerpt text, searchable but not stored (too large)
	bodyFieldMapping := bleve.NewTextFieldMapping()
	bodyFieldMapping.Analyzer = en.AnalyzerName
	bodyFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("body", bodyFieldMapping)

	// Author - track artist, searchable
	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = en.AnalyzerName
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	// Type - for filtering by document type
	typeFieldMapping := bleve.NewTextFieldMapping()
	typeFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("type", typeFieldMapping)

	// ID - stored but not analyzed
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Category - exact filtering and faceting
	categoryFieldMapping := bleve.NewTextFieldMapping()
	categoryFieldMapping.Analyzer = keyword.Name
	categoryFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("category", categoryFieldMapping)

	// Created by - exact match on the authoring user
	createdByFieldMapping := bleve.NewTextFieldMapping()
	createdByFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("created_by", createdByFieldMapping)

	// Visibility - the public site search filters on this
	visibilityFieldMapping := bleve.NewTextFieldMapping()
	visibilityFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("visibility", visibilityFieldMapping)

	// Slug - stored so page hits can link without a store lookup
	slugFieldMapping := bleve.NewTextFieldMapping()
	slugFieldMapping.Analyzer = keyword.Name
	slugFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("slug", slugFieldMapping)

	// Tags - keyword analyzer keeps compound slugs intact (e.g., "summer-2025")
	tagsFieldMapping := bleve.NewTextFieldMapping()
	tagsFieldMapping.Analyzer = keyword.Name
	tagsFieldMapping.Store = true
	tagsFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("tags", tagsFieldMapping)

	// Groups - page placement groups
	groupsFieldMapping := bleve.NewTextFieldMapping()
	groupsFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("groups", groupsFieldMapping)

	// --- Numeric fields (range queries, sorting) ---

	durationFieldMapping := bleve.NewNumericFieldMapping()
	durationFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("duration", durationFieldMapping)

	trackCountFieldMapping := bleve.NewNumericFieldMapping()
	trackCountFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("track_count", trackCountFieldMapping)

	// Timestamps - for sorting by recency
	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	// Register the document mapping
	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
