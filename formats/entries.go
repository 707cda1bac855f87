// Package formats renders bibliographies of the sources cited in a document.
package formats

import (
	"github.com/arthur-debert/citeorder/catalog"
	"github.com/arthur-debert/citeorder/sources"
)

// Entry is one numbered line of a bibliography
type Entry struct {
	Number      int
	Key         string
	Source      *catalog.Source // nil when the key is not in the catalog
	Occurrences int
}

// Entries lists the sources of reg in citation order, joined with their
// catalog data. cat may be nil.
func Entries(reg *sources.Registry, cat *catalog.Catalog) []Entry {
	entries := make([]Entry, 0, reg.Len())
	for i := 0; i < reg.Len(); i++ {
		src, err := reg.SourceAt(i)
		if err != nil {
			break
		}
		e := Entry{Number: i + 1, Key: src.Key(), Occurrences: src.Len()}
		if cat != nil {
			if s, ok := cat.Get(src.Key()); ok {
				e.Source = &s
			}
		}
		entries = append(entries, e)
	}
	return entries
}
