package search

import "github.com/arthur-debert/citeorder/catalog"

// CatalogAdapter adapts a catalog to work as a SourceProvider
type CatalogAdapter struct {
	catalog *catalog.Catalog
}

// NewCatalogAdapter creates a new adapter for a catalog
func NewCatalogAdapter(c *catalog.Catalog) *CatalogAdapter {
	return &CatalogAdapter{catalog: c}
}

// Sources implements SourceProvider
func (a *CatalogAdapter) Sources() ([]catalog.Source, error) {
	return a.catalog.All(), nil
}

// SearchCatalog is a convenience function to search a catalog directly
func SearchCatalog(c *catalog.Catalog, options SearchOptions) ([]SearchResult, error) {
	return NewEngine(NewCatalogAdapter(c)).Search(options)
}
