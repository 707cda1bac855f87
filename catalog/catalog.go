// Package catalog holds the bibliographic data behind source keys.
//
// A citation marker only carries a key; the catalog maps that key to the
// author, year and title a bibliography needs, and pages through its
// entries for pickers that list what can be cited.
package catalog

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"
)

var (
	ErrNotFound    = errors.New("source not found")
	ErrDuplicateID = errors.New("duplicate source id")
	ErrOutOfRange  = errors.New("out of range")
)

// Source is one catalog entry
type Source struct {
	ID        string `yaml:"id" json:"id"`
	Author    string `yaml:"author" json:"author"`
	Year      int    `yaml:"year,omitempty" json:"year,omitempty"`
	Title     string `yaml:"title" json:"title"`
	Publisher string `yaml:"publisher,omitempty" json:"publisher,omitempty"`
	Abstract  string `yaml:"abstract,omitempty" json:"abstract,omitempty"`
}

// Summary is the short form of a Source shown in listings
type Summary struct {
	ID     string `json:"id"`
	Author string `json:"author"`
	Year   int    `json:"year,omitempty"`
	Title  string `json:"title"`
}

// Summary returns the listing form of s
func (s Source) Summary() Summary {
	return Summary{ID: s.ID, Author: s.Author, Year: s.Year, Title: s.Title}
}

// file is the on-disk layout of a catalog
type file struct {
	Sources []Source `yaml:"sources"`
}

// Catalog is an ordered collection of sources
type Catalog struct {
	sources []*Source
	logger  *slog.Logger
}

// New creates a catalog holding srcs, in order
func New(srcs ...Source) (*Catalog, error) {
	c := &Catalog{logger: slog.Default().With("component", "catalog")}
	for _, src := range srcs {
		if _, err := c.Put(src); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Load reads a YAML catalog
func Load(r io.Reader) (*Catalog, error) {
	var f file
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	return New(f.Sources...)
}

// LoadFile reads the YAML catalog at path
func LoadFile(path string) (*Catalog, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	defer func() { _ = fh.Close() }()

	c, err := Load(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Len returns the number of sources
func (c *Catalog) Len() int {
	return len(c.sources)
}

// Put appends src and returns its id. A source without an id is given its
// index as id.
func (c *Catalog) Put(src Source) (string, error) {
	if src.ID == "" {
		src.ID = strconv.Itoa(len(c.sources))
	}
	if c.indexOf(src.ID) > -1 {
		return "", fmt.Errorf("%w: %q", ErrDuplicateID, src.ID)
	}
	c.sources = append(c.sources, &src)
	c.logger.Debug("source added", "id", src.ID, "index", len(c.sources)-1)
	return src.ID, nil
}

// Get returns the source with the given id
func (c *Catalog) Get(id string) (Source, bool) {
	i := c.indexOf(id)
	if i < 0 {
		return Source{}, false
	}
	return *c.sources[i], true
}

// GetMany returns the sources whose id is in ids, in catalog order.
// Unknown ids are skipped.
func (c *Catalog) GetMany(ids []string) []Source {
	out := []Source{}
	for _, src := range c.sources {
		if slices.Contains(ids, src.ID) {
			out = append(out, *src)
		}
	}
	return out
}

// Update overwrites the fields of source id that appear in fields, keyed by
// their YAML names. Unknown names are ignored and the id never changes.
func (c *Catalog) Update(id string, fields map[string]any) error {
	i := c.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, id)
	}

	data, err := yaml.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}
	updated := *c.sources[i]
	if err := yaml.Unmarshal(data, &updated); err != nil {
		return fmt.Errorf("failed to update source %q: %w", id, err)
	}
	updated.ID = id
	*c.sources[i] = updated
	c.logger.Debug("source updated", "id", id)
	return nil
}

// Range returns the sources with index in [min, max]
func (c *Catalog) Range(min, max int) ([]Source, error) {
	if min < 0 || max > len(c.sources)-1 || min > max {
		return nil, fmt.Errorf("%w: range [%d, %d] in catalog of %d sources", ErrOutOfRange, min, max, len(c.sources))
	}
	out := make([]Source, 0, max-min+1)
	for _, src := range c.sources[min : max+1] {
		out = append(out, *src)
	}
	return out, nil
}

func (c *Catalog) indexOf(id string) int {
	return slices.IndexFunc(c.sources, func(s *Source) bool { return s.ID == id })
}

// All returns every source in catalog order
func (c *Catalog) All() []Source {
	out := make([]Source, len(c.sources))
	for i, src := range c.sources {
		out[i] = *src
	}
	return out
}
