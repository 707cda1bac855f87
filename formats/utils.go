package formats

import (
	"fmt"
	"strings"
)

// describe writes "Author (Year). Title. Publisher." for e, passing the
// title through emph
func describe(e Entry, emph func(string) string) string {
	s := e.Source
	if s == nil {
		return e.Key + " (not in catalog)"
	}

	head := s.Author
	if head == "" {
		head = e.Key
	}
	if s.Year > 0 {
		head += fmt.Sprintf(" (%d)", s.Year)
	}

	parts := []string{head}
	if title := trimPeriod(s.Title); title != "" {
		parts = append(parts, emph(title))
	}
	if pub := trimPeriod(s.Publisher); pub != "" {
		parts = append(parts, pub)
	}
	return strings.Join(parts, ". ") + "."
}

func trimPeriod(s string) string {
	return strings.TrimRight(strings.TrimSpace(s), ".")
}
