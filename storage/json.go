package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

const (
	defaultLockTimeout = 3 * time.Second
	lockRetryDelay     = 100 * time.Millisecond
)

// Option configures a JSONStorage
type Option func(*JSONStorage)

// WithLockTimeout sets how long to wait for the lock file
func WithLockTimeout(d time.Duration) Option {
	return func(s *JSONStorage) {
		if d > 0 {
			s.lockTimeout = d
		}
	}
}

// JSONStorage implements Storage using a JSON file
type JSONStorage struct {
	filePath    string
	fileLock    *flock.Flock
	lockTimeout time.Duration
	mu          sync.RWMutex
	now         func() time.Time
}

// NewJSONStorage creates a new JSON file storage
func NewJSONStorage(filePath string, opts ...Option) *JSONStorage {
	s := &JSONStorage{
		filePath:    filePath,
		fileLock:    flock.New(filePath + ".lock"),
		lockTimeout: defaultLockTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the snapshot file path
func (s *JSONStorage) Path() string {
	return s.filePath
}

// Load reads the snapshot from the JSON file
func (s *JSONStorage) Load() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unlock, err := s.lock()
	if err != nil {
		return nil, err
	}
	defer unlock()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(data) == 0) {
		return s.fresh(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse JSON: %w", err)
	}
	if snap.Sources == nil {
		snap.Sources = []string{}
	}
	if snap.Document.Markers == nil {
		snap.Document.Markers = []MarkerData{}
	}
	return &snap, nil
}

// Save writes snap atomically, stamping its metadata
func (s *JSONStorage) Save(snap *Snapshot) error {
	if snap == nil {
		return errors.New("snapshot is nil")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if snap.Metadata.Version == "" {
		snap.Metadata.Version = CurrentVersion
	}
	if snap.Metadata.DocumentID == "" {
		snap.Metadata.DocumentID = uuid.New().String()
	}
	if snap.Metadata.CreatedAt.IsZero() {
		snap.Metadata.CreatedAt = now
	}
	snap.Metadata.UpdatedAt = now

	unlock, err := s.lock()
	if err != nil {
		return err
	}
	defer unlock()

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	// Write atomically
	tmpFile := s.filePath + ".tmp"
	if err := os.WriteFile(tmpFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tmpFile, s.filePath); err != nil {
		_ = os.Remove(tmpFile)
		return fmt.Errorf("failed to rename file: %w", err)
	}
	return nil
}

// Close releases resources
func (s *JSONStorage) Close() error {
	// Clean up lock file
	_ = os.Remove(s.filePath + ".lock")
	return nil
}

func (s *JSONStorage) lock() (func(), error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.lockTimeout)
	defer cancel()

	locked, err := s.fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("could not acquire file lock")
	}
	return func() { _ = s.fileLock.Unlock() }, nil
}

func (s *JSONStorage) fresh() *Snapshot {
	now := s.now()
	return &Snapshot{
		Document: DocumentData{Markers: []MarkerData{}},
		Sources:  []string{},
		Metadata: Metadata{
			Version:    CurrentVersion,
			DocumentID: uuid.New().String(),
			CreatedAt:  now,
			UpdatedAt:  now,
		},
	}
}
