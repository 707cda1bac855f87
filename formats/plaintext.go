package formats

import (
	"fmt"
	"strings"
)

// PlainText renders one "[n] ..." line per entry
var PlainText = &BibliographyFormat{
	Name:      "plaintext",
	Extension: ".txt",
	Render: func(entries []Entry) string {
		var b strings.Builder
		for _, e := range entries {
			fmt.Fprintf(&b, "[%d] %s\n", e.Number, describe(e, func(s string) string { return s }))
		}
		return b.String()
	},
}

func init() {
	if err := Register(PlainText); err != nil {
		panic(fmt.Sprintf("failed to register PlainText format: %v", err))
	}
}
