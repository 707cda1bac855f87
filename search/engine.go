package search

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/arthur-debert/citeorder/catalog"
)

// Engine implements the Searcher interface
type Engine struct {
	provider SourceProvider
}

// NewEngine creates a new search engine with the given source provider
func NewEngine(provider SourceProvider) *Engine {
	return &Engine{provider: provider}
}

// Search returns the matching sources, best first. Equal scores keep
// catalog order.
func (e *Engine) Search(options SearchOptions) ([]SearchResult, error) {
	if options.Query == "" {
		return []SearchResult{}, nil
	}

	srcs, err := e.provider.Sources()
	if err != nil {
		return nil, fmt.Errorf("failed to get sources: %w", err)
	}

	results := []SearchResult{}
	for _, src := range srcs {
		if result := e.searchSource(src, options); result != nil {
			results = append(results, *result)
		}
	}

	slices.SortStableFunc(results, func(a, b SearchResult) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if options.MaxResults != nil && *options.MaxResults > 0 && len(results) > *options.MaxResults {
		results = results[:*options.MaxResults]
	}
	return results, nil
}

func (e *Engine) searchSource(src catalog.Source, options SearchOptions) *SearchResult {
	startMarker := options.HighlightStartMarker
	endMarker := options.HighlightEndMarker
	if startMarker == "" {
		startMarker = "**"
	}
	if endMarker == "" {
		endMarker = "**"
	}

	fields := options.Fields
	if len(fields) == 0 {
		fields = DefaultFields
	}

	var (
		result   *SearchResult
		maxScore float64
	)
	for _, field := range fields {
		value, base, ok := fieldValue(src, field)
		if !ok {
			continue
		}
		matches := e.findMatches(value, field, options, base)
		if len(matches) == 0 {
			continue
		}

		if result == nil {
			result = &SearchResult{Source: src}
			if options.EnableHighlight {
				result.Highlights = make(map[string]string)
			}
		}
		result.MatchedFields = append(result.MatchedFields, field)
		if options.EnableHighlight {
			result.Highlights[field] = e.highlight(value, options.Query, options.CaseSensitive, startMarker, endMarker)
		}
		for _, m := range matches {
			if m.Score > maxScore {
				maxScore = m.Score
				result.MatchType = m.MatchType
			}
		}
	}

	if result != nil {
		result.Score = maxScore
	}
	return result
}

// fieldValue returns the text of field and the match type a partial match in it has
func fieldValue(src catalog.Source, field string) (string, MatchType, bool) {
	switch field {
	case FieldID:
		return src.ID, MatchField, true
	case FieldAuthor:
		return src.Author, MatchPartialAuthor, true
	case FieldTitle:
		return src.Title, MatchPartialTitle, true
	case FieldPublisher:
		return src.Publisher, MatchField, true
	case FieldAbstract:
		return src.Abstract, MatchField, true
	}
	return "", "", false
}

// calculateScore computes a relevance score for a substring match
func calculateScore(value, query, field string) float64 {
	baseScore := 0.5

	switch field {
	case FieldTitle:
		baseScore = 0.8
	case FieldAuthor:
		baseScore = 0.7
	}

	// Boost if match is at the beginning
	if strings.HasPrefix(value, query) {
		baseScore += 0.2
	}

	// Boost if query takes up a large portion of the field
	if coverage := float64(len(query)) / float64(len(value)); coverage > 0.5 {
		baseScore += 0.1
	}

	return min(baseScore, 1.0)
}

// findMatches finds every non-overlapping occurrence of the query in value
func (e *Engine) findMatches(value, field string, options SearchOptions, base MatchType) []MatchInfo {
	searchText, searchQuery := value, options.Query
	if !options.CaseSensitive {
		searchText = strings.ToLower(value)
		searchQuery = strings.ToLower(options.Query)
	}
	if searchQuery == "" || searchText == "" {
		return nil
	}

	if options.ExactMatch {
		if searchText != searchQuery {
			return nil
		}
		matchType := base
		switch base {
		case MatchPartialTitle:
			matchType = MatchExactTitle
		case MatchPartialAuthor:
			matchType = MatchExactAuthor
		}
		return []MatchInfo{{Start: 0, End: len(value), Text: value, Score: 1.0, MatchType: matchType}}
	}

	// case folding can change byte lengths, offsets then refer to the folded text
	original := value
	if len(searchText) != len(value) {
		original = searchText
	}

	var matches []MatchInfo
	n := len(searchQuery)
	for _, start := range matchPositions(searchText, searchQuery) {
		matches = append(matches, MatchInfo{
			Start:     start,
			End:       start + n,
			Text:      original[start : start+n],
			Score:     calculateScore(searchText, searchQuery, field),
			MatchType: base,
		})
	}
	return matches
}

// highlight wraps each match of query in value with the markers
func (e *Engine) highlight(value, query string, caseSensitive bool, startMarker, endMarker string) string {
	searchText, searchQuery := value, query
	if !caseSensitive {
		searchText = strings.ToLower(value)
		searchQuery = strings.ToLower(query)
	}
	positions := matchPositions(searchText, searchQuery)
	if len(positions) == 0 || len(searchText) != len(value) {
		return value
	}

	var builder strings.Builder
	lastEnd := 0
	for _, start := range positions {
		end := start + len(searchQuery)
		builder.WriteString(value[lastEnd:start])
		builder.WriteString(startMarker)
		builder.WriteString(value[start:end])
		builder.WriteString(endMarker)
		lastEnd = end
	}
	builder.WriteString(value[lastEnd:])
	return builder.String()
}

// matchPositions returns the byte offsets of non-overlapping occurrences of query
func matchPositions(text, query string) []int {
	var positions []int
	if query == "" {
		return positions
	}
	for i := 0; i <= len(text)-len(query); {
		if text[i:i+len(query)] == query {
			positions = append(positions, i)
			i += len(query)
			continue
		}
		i++
	}
	return positions
}
