package sources

import "slices"

// SourceReferences holds every reference to one source key and tracks the
// one placed first in the document
type SourceReferences struct {
	key   string
	refs  []Reference
	first Reference
}

// NewSourceReferences creates an empty set for key
func NewSourceReferences(key string) (*SourceReferences, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	return &SourceReferences{key: key}, nil
}

// Key returns the source key
func (s *SourceReferences) Key() string {
	return s.key
}

// First returns the reference with the smallest position, or nil when empty
func (s *SourceReferences) First() Reference {
	return s.first
}

// Len returns the number of references
func (s *SourceReferences) Len() int {
	return len(s.refs)
}

// List returns the references in insertion order. The slice is a copy.
func (s *SourceReferences) List() []Reference {
	return slices.Clone(s.refs)
}

// Put adds ref and reports whether it became the first reference.
// The caller routes references by key; Put does not check it.
// A reference only displaces the current first when it is strictly before it.
func (s *SourceReferences) Put(ref Reference) bool {
	s.refs = append(s.refs, ref)
	if s.first == nil || ref.Position() < s.first.Position() {
		s.first = ref
		return true
	}
	return false
}

// Get returns the reference with the given id
func (s *SourceReferences) Get(id int) (Reference, bool) {
	if j := s.indexOf(id); j > -1 {
		return s.refs[j], true
	}
	return nil, false
}

// At returns the j-th reference in insertion order
func (s *SourceReferences) At(j int) (Reference, error) {
	if j < 0 || j >= len(s.refs) {
		return nil, &RangeError{What: "reference", Index: j, Len: len(s.refs)}
	}
	return s.refs[j], nil
}

// Remove deletes the reference with the given id and reports whether it was
// the first. ErrReferenceNotFound is returned when no member has that id.
func (s *SourceReferences) Remove(id int) (bool, error) {
	j := s.indexOf(id)
	if j < 0 {
		return false, ErrReferenceNotFound
	}
	return s.RemoveAt(j)
}

// RemoveAt deletes the j-th reference in insertion order and reports whether it was the first
func (s *SourceReferences) RemoveAt(j int) (bool, error) {
	if j < 0 || j >= len(s.refs) {
		return false, &RangeError{What: "reference", Index: j, Len: len(s.refs)}
	}
	removed := s.refs[j]
	s.refs = slices.Delete(s.refs, j, j+1)
	if removed.ID() != s.first.ID() {
		return false, nil
	}
	s.first = s.minimum()
	return true, nil
}

// minimum scans for the smallest position; ties keep the earliest inserted
func (s *SourceReferences) minimum() Reference {
	var best Reference
	bestPos := 0
	for _, ref := range s.refs {
		pos := ref.Position()
		if best == nil || pos < bestPos {
			best, bestPos = ref, pos
		}
	}
	return best
}

func (s *SourceReferences) indexOf(id int) int {
	return slices.IndexFunc(s.refs, func(ref Reference) bool {
		return ref.ID() == id
	})
}
