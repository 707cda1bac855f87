package catalog

import "fmt"

const (
	MaxPageSize = 20
	MinPageSize = 1
)

// Page is one page of catalog summaries
type Page struct {
	N             int       `json:"n"`
	Size          int       `json:"size"`
	Total         int       `json:"page_total"`
	Current       int       `json:"page_current"`
	RemainderSize int       `json:"remainder_page_size"`
	Min           int       `json:"min"`
	Max           int       `json:"max"` // inclusive
	Data          []Summary `json:"data"`
}

// Index returns page number page (counted from 1) of size entries. size is
// clamped to [MinPageSize, MaxPageSize]; the last page may be short.
func (c *Catalog) Index(size, page int) (Page, error) {
	size = min(max(size, MinPageSize), MaxPageSize)

	n := len(c.sources)
	full, rem := n/size, n%size
	total := full
	if rem > 0 {
		total++
	}

	p := Page{N: n, Size: size, Total: total, Current: page, RemainderSize: rem, Data: []Summary{}}
	if n == 0 && page == 1 {
		p.Max = -1
		return p, nil
	}
	if page < 1 || page > total {
		return Page{}, fmt.Errorf("%w: page %d of %d", ErrOutOfRange, page, total)
	}

	p.Min = (page - 1) * size
	if rem > 0 && page == total {
		p.Max = p.Min + rem - 1
	} else {
		p.Max = p.Min + size - 1
	}
	for _, src := range c.sources[p.Min : p.Max+1] {
		p.Data = append(p.Data, src.Summary())
	}
	return p, nil
}
