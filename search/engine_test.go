package search

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/arthur-debert/citeorder/catalog"
)

// mockProvider serves fixed sources, or an error
type mockProvider struct {
	sources []catalog.Source
	err     error
}

func (m *mockProvider) Sources() ([]catalog.Source, error) {
	return m.sources, m.err
}

func sampleSources() []catalog.Source {
	return []catalog.Source{
		{ID: "ayala98", Author: "Gustavo Ayala", Title: "Mas allá del horizonte", Publisher: "No, manzana"},
		{ID: "horizon01", Author: "Horace Vane", Title: "Horizons", Abstract: "On the far horizon."},
		{ID: "p12", Author: "Patito, Belomento", Title: "Miscelaneas de mi vida"},
	}
}

func newTestEngine() *Engine {
	return NewEngine(&mockProvider{sources: sampleSources()})
}

func ids(results []SearchResult) []string {
	out := []string{}
	for _, r := range results {
		out = append(out, r.Source.ID)
	}
	return out
}

func TestSearch_EmptyQuery(t *testing.T) {
	results, err := newTestEngine().Search(SearchOptions{})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if results == nil || len(results) != 0 {
		t.Errorf("Search(\"\") = %v, want empty", results)
	}
}

func TestSearch_ProviderError(t *testing.T) {
	engine := NewEngine(&mockProvider{err: errors.New("disk error")})
	_, err := engine.Search(SearchOptions{Query: "x"})
	if err == nil || !strings.Contains(err.Error(), "failed to get sources") {
		t.Errorf("Search error = %v, want provider failure", err)
	}
}

func TestSearch_RanksTitlesFirst(t *testing.T) {
	results, err := newTestEngine().Search(SearchOptions{Query: "horizon"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"horizon01", "ayala98"}, ids(results)); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	best := results[0]
	if best.Score != 1.0 || best.MatchType != MatchPartialTitle {
		t.Errorf("best = score %v type %q", best.Score, best.MatchType)
	}
	if diff := cmp.Diff([]string{FieldTitle, FieldID, FieldAbstract}, best.MatchedFields); diff != "" {
		t.Errorf("MatchedFields mismatch (-want +got):\n%s", diff)
	}
	if results[1].Score != 0.8 {
		t.Errorf("second score = %v, want 0.8", results[1].Score)
	}
	if best.Highlights != nil {
		t.Error("Highlights set without EnableHighlight")
	}
}

func TestSearch_CaseSensitive(t *testing.T) {
	results, err := newTestEngine().Search(SearchOptions{Query: "Horizon", CaseSensitive: true})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"horizon01"}, ids(results)); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{FieldTitle}, results[0].MatchedFields); diff != "" {
		t.Errorf("MatchedFields mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_ExactMatch(t *testing.T) {
	results, err := newTestEngine().Search(SearchOptions{Query: "horizons", ExactMatch: true, Fields: []string{FieldTitle}})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].MatchType != MatchExactTitle || results[0].Score != 1.0 {
		t.Errorf("results = %+v", results)
	}

	results, _ = newTestEngine().Search(SearchOptions{Query: "horizon", ExactMatch: true, Fields: []string{FieldTitle}})
	if len(results) != 0 {
		t.Errorf("partial query matched exactly: %+v", results)
	}
}

func TestSearch_FieldsAndLimit(t *testing.T) {
	results, err := newTestEngine().Search(SearchOptions{Query: "ayala", Fields: []string{FieldAuthor, "year"}})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].MatchType != MatchPartialAuthor || results[0].Score != 0.7 {
		t.Errorf("author search = %+v", results)
	}

	limit := 1
	results, _ = newTestEngine().Search(SearchOptions{Query: "horizon", MaxResults: &limit})
	if diff := cmp.Diff([]string{"horizon01"}, ids(results)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}

func TestSearch_Highlight(t *testing.T) {
	results, err := newTestEngine().Search(SearchOptions{
		Query:           "horizon",
		Fields:          []string{FieldTitle},
		EnableHighlight: true,
	})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{FieldTitle: "**Horizon**s"}
	if diff := cmp.Diff(want, results[0].Highlights); diff != "" {
		t.Errorf("Highlights mismatch (-want +got):\n%s", diff)
	}

	results, _ = newTestEngine().Search(SearchOptions{
		Query:                "horizon",
		Fields:               []string{FieldTitle},
		EnableHighlight:      true,
		HighlightStartMarker: "<",
		HighlightEndMarker:   ">",
	})
	if got := results[1].Highlights[FieldTitle]; got != "Mas allá del <horizon>te" {
		t.Errorf("highlight = %q", got)
	}
}

func TestMatchPositions(t *testing.T) {
	tests := []struct {
		text, query string
		want        []int
	}{
		{"aaaa", "aa", []int{0, 2}},
		{"abcabc", "bc", []int{1, 4}},
		{"abc", "d", nil},
		{"ab", "abc", nil},
		{"abc", "", nil},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, matchPositions(tt.text, tt.query)); diff != "" {
			t.Errorf("matchPositions(%q, %q) mismatch (-want +got):\n%s", tt.text, tt.query, diff)
		}
	}
}

func TestSearchCatalog(t *testing.T) {
	c, err := catalog.New(sampleSources()...)
	if err != nil {
		t.Fatal(err)
	}
	results, err := SearchCatalog(c, SearchOptions{Query: "vida"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"p12"}, ids(results)); diff != "" {
		t.Errorf("ids mismatch (-want +got):\n%s", diff)
	}
}
