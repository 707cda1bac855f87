// Package script reads and runs YAML edit scripts against a document.
//
// A script is a list of operations:
//
//	ops:
//	  - op: insert-text
//	    at: 0
//	    text: "As shown in , and later in ."
//	  - op: insert-marker
//	    at: 11
//	    key: smith2020
//	  - op: move
//	    marker: 0
//	    to: 27
//	  - op: delete
//	    from: 0
//	    to: 3
//
// An omitted "at" means the cursor.
package script

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/citeorder/citations"
	"github.com/arthur-debert/citeorder/document"
	"github.com/arthur-debert/citeorder/internal/validation"
)

// Operation names
const (
	OpInsertText   = "insert-text"
	OpInsertMarker = "insert-marker"
	OpDelete       = "delete"
	OpMove         = "move"
	OpCursor       = "cursor"
)

// Op is one edit
type Op struct {
	Op     string `yaml:"op"`
	At     *int   `yaml:"at,omitempty"`
	Text   string `yaml:"text,omitempty"`
	Key    string `yaml:"key,omitempty"`
	From   int    `yaml:"from,omitempty"`
	To     int    `yaml:"to,omitempty"`
	Marker int    `yaml:"marker,omitempty"` // index of the marker in document order
}

// Script is an ordered list of edits
type Script struct {
	Ops []Op `yaml:"ops"`
}

// Parse reads and checks a YAML script
func Parse(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to decode script: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks each operation without a document at hand
func (s *Script) Validate() error {
	for i, op := range s.Ops {
		if err := op.validate(); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Op, err)
		}
	}
	return nil
}

func (op Op) validate() error {
	if op.At != nil && *op.At < 0 {
		return fmt.Errorf("at cannot be negative, got %d", *op.At)
	}
	switch op.Op {
	case OpInsertText:
		if op.Text == "" {
			return errors.New("text cannot be empty")
		}
	case OpInsertMarker:
		return validation.ValidateKey(op.Key)
	case OpDelete:
		if op.From < 0 || op.To < op.From {
			return fmt.Errorf("invalid span [%d, %d)", op.From, op.To)
		}
	case OpMove:
		if op.Marker < 0 || op.To < 0 {
			return fmt.Errorf("marker and to cannot be negative")
		}
	case OpCursor:
		if op.At == nil {
			return errors.New("cursor needs at")
		}
	case "":
		return errors.New("missing op")
	default:
		return fmt.Errorf("unknown op %q", op.Op)
	}
	return nil
}

// Runner applies scripts to one document through its citation controller
type Runner struct {
	doc    *document.Document
	ctl    *citations.Controller
	logger *slog.Logger
}

// NewRunner creates a runner. logger may be nil.
func NewRunner(doc *document.Document, ctl *citations.Controller, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{doc: doc, ctl: ctl, logger: logger.With("component", "script")}
}

// Run applies the operations in order and stops at the first failure,
// leaving earlier edits in place
func (r *Runner) Run(s *Script) error {
	for i, op := range s.Ops {
		if err := r.apply(op); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, op.Op, err)
		}
		r.logger.Debug("op applied", "index", i, "op", op.Op, "length", r.doc.Len())
	}
	return nil
}

func (r *Runner) at(op Op) int {
	if op.At == nil {
		return r.doc.Cursor()
	}
	return *op.At
}

func (r *Runner) apply(op Op) error {
	switch op.Op {
	case OpInsertText:
		return r.doc.InsertText(r.at(op), op.Text)
	case OpInsertMarker:
		_, err := r.ctl.Insert(op.Key, r.at(op))
		return err
	case OpDelete:
		if err := validation.ValidateSpan(op.From, op.To, r.doc.Len()); err != nil {
			return err
		}
		return r.doc.Delete(op.From, op.To)
	case OpMove:
		markers := r.doc.Markers()
		if op.Marker >= len(markers) {
			return fmt.Errorf("marker %d out of range, document has %d", op.Marker, len(markers))
		}
		return r.doc.MoveMarker(markers[op.Marker].ID(), op.To)
	case OpCursor:
		return r.doc.SetCursor(*op.At)
	default:
		return op.validate()
	}
}
