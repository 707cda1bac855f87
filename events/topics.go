package events

// Topic names the reason a message was published
type Topic string

const (
	// TopicMarkerMounted is published by a surface when a marker is attached to its document.
	// Data: sources.MarkerEvent
	TopicMarkerMounted Topic = "source.embed.mounted"

	// TopicMarkerUnmounted is published by a surface when a marker is detached from its document.
	// Data: sources.MarkerEvent
	TopicMarkerUnmounted Topic = "source.embed.unmounted"

	// TopicOrderChange signals that the ordinal of one or more sources shifted,
	// starting at the ordinal carried by the payload
	TopicOrderChange Topic = "source.order.change"

	// TopicReferenceAdded signals a reference was added to an existing source
	// without changing the source order
	TopicReferenceAdded Topic = "reference.added"

	// TopicReferenceAddedReordered signals a reference was added and either created
	// a source or became the first reference of its source
	TopicReferenceAddedReordered Topic = "reference.added.reordered"

	// TopicReferenceRemoved signals a reference was removed from its source
	TopicReferenceRemoved Topic = "reference.removed"

	// TopicSourceUpdated is published after renderers were refreshed for a set of references
	TopicSourceUpdated Topic = "source.updated"

	// TopicRegistryNew is published when a controller registers a new reference
	TopicRegistryNew Topic = "source.registry.new"

	// TopicError carries an ErrorEvent
	TopicError Topic = "error"
)

// AllTopics returns every topic the module publishes
func AllTopics() []Topic {
	return []Topic{
		TopicMarkerMounted,
		TopicMarkerUnmounted,
		TopicOrderChange,
		TopicReferenceAdded,
		TopicReferenceAddedReordered,
		TopicReferenceRemoved,
		TopicSourceUpdated,
		TopicRegistryNew,
		TopicError,
	}
}
