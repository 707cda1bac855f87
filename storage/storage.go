// Package storage persists citation documents as JSON snapshots.
// It defines the snapshot layout and a file-based implementation guarded by
// a lock file, so concurrent CLI invocations do not interleave writes.
package storage

import (
	"time"

	"github.com/arthur-debert/citeorder/types"
)

// CurrentVersion is written into new snapshots
const CurrentVersion = "1.0"

// Snapshot is everything stored for one document. Sources holds the source
// keys in citation order at save time.
type Snapshot struct {
	Document DocumentData `json:"document"`
	Sources  []string     `json:"sources"`
	Metadata Metadata     `json:"metadata"`
}

// DocumentData is a document as plain text, without markers, plus the
// markers embedded in it
type DocumentData struct {
	Text    string       `json:"text"`
	Markers []MarkerData `json:"markers"`
}

// MarkerData is one embedded marker. Offset counts every element before it,
// markers included.
type MarkerData struct {
	Key    string           `json:"key"`
	Type   types.SourceType `json:"type"`
	Offset int              `json:"offset"`
}

// Metadata contains storage metadata
type Metadata struct {
	Version    string    `json:"version"`
	DocumentID string    `json:"document_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Storage loads and saves a whole snapshot at a time
type Storage interface {
	// Load reads the snapshot, or returns a fresh one when nothing is stored
	Load() (*Snapshot, error)

	// Save writes the snapshot, replacing what was stored
	Save(snap *Snapshot) error

	// Close releases any resources held by the storage
	Close() error
}
