package formats

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRegister(t *testing.T) {
	// Save original registry
	originalRegistry := registry
	defer func() { registry = originalRegistry }()

	registry = make(map[string]*BibliographyFormat)

	render := func([]Entry) string { return "" }
	tests := []struct {
		name      string
		format    *BibliographyFormat
		wantError bool
		errorMsg  string
	}{
		{
			name:   "valid format",
			format: &BibliographyFormat{Name: "test-format", Extension: ".test", Render: render},
		},
		{
			name:      "invalid name with uppercase",
			format:    &BibliographyFormat{Name: "TestFormat", Extension: ".test", Render: render},
			wantError: true,
			errorMsg:  "invalid format name",
		},
		{
			name:      "invalid name with special chars",
			format:    &BibliographyFormat{Name: "test@format", Extension: ".test", Render: render},
			wantError: true,
			errorMsg:  "invalid format name",
		},
		{
			name:      "empty name",
			format:    &BibliographyFormat{Extension: ".test", Render: render},
			wantError: true,
			errorMsg:  "invalid format name",
		},
		{
			name:      "missing renderer",
			format:    &BibliographyFormat{Name: "norender", Extension: ".x"},
			wantError: true,
			errorMsg:  "no renderer",
		},
		{
			name:   "extension without dot",
			format: &BibliographyFormat{Name: "test-format-2", Extension: "test", Render: render},
		},
		{
			name:      "duplicate",
			format:    &BibliographyFormat{Name: "test-format", Extension: ".test", Render: render},
			wantError: true,
			errorMsg:  "already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Register(tt.format)
			if tt.wantError {
				if err == nil {
					t.Errorf("expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q, got %q", tt.errorMsg, err.Error())
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !strings.HasPrefix(tt.format.Extension, ".") {
				t.Errorf("extension not normalized: %q", tt.format.Extension)
			}
		})
	}
}

func TestGetAndList(t *testing.T) {
	if diff := cmp.Diff([]string{"markdown", "plaintext"}, List()); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
	f, err := Get("markdown")
	if err != nil || f != Markdown {
		t.Errorf("Get(markdown) = %v, %v", f, err)
	}
	if _, err := Get("bibtex"); err == nil {
		t.Error("Get(bibtex) succeeded")
	}
}
