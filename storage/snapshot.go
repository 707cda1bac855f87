package storage

import (
	"fmt"
	"slices"

	"github.com/arthur-debert/citeorder/document"
)

// Capture records the text and markers of d
func Capture(d *document.Document) DocumentData {
	data := DocumentData{
		Text:    d.Render(func(*document.Marker) string { return "" }),
		Markers: []MarkerData{},
	}
	for _, m := range d.Markers() {
		data.Markers = append(data.Markers, MarkerData{Key: m.Key(), Type: m.Type(), Offset: m.Position()})
	}
	return data
}

// Restore fills the empty document d with data. Markers are mounted in
// document order, so marker ids are reassigned.
func (data DocumentData) Restore(d *document.Document) error {
	if d.Len() != 0 {
		return fmt.Errorf("restore into a document of length %d", d.Len())
	}
	if err := d.InsertText(0, data.Text); err != nil {
		return err
	}

	markers := slices.Clone(data.Markers)
	slices.SortStableFunc(markers, func(a, b MarkerData) int { return a.Offset - b.Offset })
	for _, m := range markers {
		if _, err := d.InsertMarker(m.Offset, m.Key, m.Type); err != nil {
			return fmt.Errorf("marker %q at %d: %w", m.Key, m.Offset, err)
		}
	}
	return nil
}
