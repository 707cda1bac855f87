package document

// IDSource hands out marker identities. Ids are never reused until Reset.
type IDSource struct {
	last int
}

// NewIDSource returns a source whose first id is 0
func NewIDSource() *IDSource {
	return &IDSource{last: -1}
}

// Next returns a fresh id
func (s *IDSource) Next() int {
	s.last++
	return s.last
}

// Last returns the most recently assigned id, -1 before the first
func (s *IDSource) Last() int {
	return s.last
}

// Reset restarts assignment at 0. Only call it between independent documents.
func (s *IDSource) Reset() {
	s.last = -1
}
