package sources

// OrderChange is the payload of events.TopicOrderChange. Ordinals from From
// onward may have changed; earlier ordinals are untouched.
type OrderChange struct {
	From     int
	Registry *Registry
}

// ReferenceAdded is the payload of events.TopicReferenceAdded and
// events.TopicReferenceAddedReordered
type ReferenceAdded struct {
	Reference Reference
	Ordinal   int // ordinal of the reference's source after the put
	Registry  *Registry
}

// ReferenceRemoved is the payload of events.TopicReferenceRemoved
type ReferenceRemoved struct {
	Reference Reference
	// Ordinal is the source's ordinal after the removal, or the ordinal it
	// vacated when the removal emptied it
	Ordinal  int
	WasFirst bool
	Registry *Registry
}
