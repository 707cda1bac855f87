package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/viper"

	"github.com/arthur-debert/citeorder/citations"
	"github.com/arthur-debert/citeorder/document"
	"github.com/arthur-debert/citeorder/events"
	"github.com/arthur-debert/citeorder/storage"
)

// session is a document loaded from its snapshot, with a live controller
type session struct {
	store *storage.JSONStorage
	snap  *storage.Snapshot
	bus   *events.Bus
	doc   *document.Document
	ctl   *citations.Controller
	// errs collects error notifications published while the session runs
	errs []error
}

func openSession(v *viper.Viper) (*session, error) {
	path := v.GetString(keyDoc)
	if path == "" {
		return nil, newConfigError("open document", "no document path",
			"Pass --doc FILE", "Set CITEORDER_DOC")
	}

	s := &session{
		store: storage.NewJSONStorage(path, storage.WithLockTimeout(v.GetDuration(keyLockTimeout))),
		bus:   events.NewBus(events.WithLogger(slog.Default())),
	}
	snap, err := s.store.Load()
	if err != nil {
		return nil, newCLIError("open document", fmt.Errorf("%s: %w", path, err))
	}
	s.snap = snap

	s.bus.OnAny(func(m events.Message) {
		if ev, ok := m.Data.(events.ErrorEvent); ok && m.Topic == events.TopicError {
			s.errs = append(s.errs, ev.Err)
		}
	})
	s.doc = document.New(s.bus)
	s.ctl, err = citations.New(s.doc, s.bus, citations.Config{})
	if err != nil {
		return nil, newCLIError("open document", err)
	}
	// the controller is already listening, so restoring numbers the markers
	if err := snap.Document.Restore(s.doc); err != nil {
		return nil, newCLIError("open document", fmt.Errorf("%s: %w", path, err))
	}

	slog.Debug("document opened", "path", path, "length", s.doc.Len(), "sources", s.ctl.Len(),
		"document_id", snap.Metadata.DocumentID)
	return s, nil
}

func (s *session) save() error {
	s.snap.Document = storage.Capture(s.doc)
	s.snap.Sources = s.ctl.Keys()
	if err := s.store.Save(s.snap); err != nil {
		return newCLIError("save document", err)
	}
	slog.Debug("document saved", "path", s.store.Path(), "sources", len(s.snap.Sources))
	return nil
}

func (s *session) close() {
	s.ctl.Close()
	_ = s.store.Close()
}
