// Package search finds catalog sources matching a free-text query, ranked
// by where and how well the query matched.
package search

import "github.com/arthur-debert/citeorder/catalog"

// Searchable source fields
const (
	FieldID        = "id"
	FieldAuthor    = "author"
	FieldTitle     = "title"
	FieldPublisher = "publisher"
	FieldAbstract  = "abstract"
)

// DefaultFields are searched when SearchOptions.Fields is empty
var DefaultFields = []string{FieldTitle, FieldAuthor, FieldID, FieldPublisher, FieldAbstract}

// SearchOptions configures search behavior
type SearchOptions struct {
	// Query is the search term to look for
	Query string

	// Fields specifies which fields to search in. Empty searches DefaultFields.
	Fields []string

	CaseSensitive bool

	// ExactMatch requires the entire field to match the query
	// When false, performs substring matching
	ExactMatch bool

	// EnableHighlight includes highlighted match text in results
	EnableHighlight bool

	// Highlight markers, "**" when empty
	HighlightStartMarker string
	HighlightEndMarker   string

	// MaxResults limits the number of search results
	// nil means no limit
	MaxResults *int
}

// SearchResult represents a matched source with metadata
type SearchResult struct {
	Source catalog.Source

	// Score represents match relevance (0.0 to 1.0, higher is better)
	Score float64

	// Highlights contains highlighted text for each matched field
	Highlights map[string]string

	// MatchType describes the best match found
	MatchType MatchType

	// MatchedFields lists all fields that contained matches, in search order
	MatchedFields []string
}

// MatchType indicates the type of match found
type MatchType string

const (
	MatchExactTitle    MatchType = "exact_title"
	MatchPartialTitle  MatchType = "partial_title"
	MatchExactAuthor   MatchType = "exact_author"
	MatchPartialAuthor MatchType = "partial_author"
	MatchField         MatchType = "field"
)

// MatchInfo is one occurrence of the query in a field
type MatchInfo struct {
	Start     int // byte offset
	End       int
	Text      string
	Score     float64
	MatchType MatchType
}

// SourceProvider supplies the sources to search
type SourceProvider interface {
	Sources() ([]catalog.Source, error)
}

// Searcher defines the main search interface
type Searcher interface {
	Search(options SearchOptions) ([]SearchResult, error)
}
