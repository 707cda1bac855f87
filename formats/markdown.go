package formats

import (
	"fmt"
	"strings"
)

// Markdown renders a "References" section with an ordered list
var Markdown = &BibliographyFormat{
	Name:      "markdown",
	Extension: ".md",
	Render: func(entries []Entry) string {
		if len(entries) == 0 {
			return ""
		}
		var b strings.Builder
		b.WriteString("## References\n\n")
		for _, e := range entries {
			fmt.Fprintf(&b, "%d. %s\n", e.Number, describe(e, func(s string) string { return "*" + s + "*" }))
		}
		return b.String()
	},
}

func init() {
	if err := Register(Markdown); err != nil {
		panic(fmt.Sprintf("failed to register Markdown format: %v", err))
	}
}
