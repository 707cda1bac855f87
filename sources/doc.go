// Package sources keeps the first-appearance numbering of citation sources in
// a live document.
//
// A Reference is one occurrence of a source inside the document. All the
// references sharing a source key live in a SourceReferences set, which caches
// the reference with the smallest document position as its first. The
// Registry owns one set per key and keeps the sets in ascending order of
// their first position, so a set's ordinal in the registry is the number a
// renderer displays (ordinal 0 is citation [1]).
//
// The registry never reads positions eagerly: positions are resolved from the
// live document through each reference when a decision needs them, and the
// cached first of a set is only recomputed when that first is removed.
//
// Every mutation reports what changed on an events.Publisher. Consumers such
// as KeyView resynchronize from the lowest ordinal affected instead of
// rebuilding:
//
//	bus := events.NewBus()
//	reg := sources.New(types.CitationDocument, bus)
//	view, _ := sources.NewKeyView(reg, bus, nil)
//	reg.Put(ref)          // publishes order change + reference added
//	view.List()           // keys in citation order
//
// Lookup failures (unknown key, unknown id, wrong type) are published as
// events.TopicError and surface to the caller as a -1 ordinal. Positional
// access out of range returns a *RangeError. RemoveByID returns an error when
// no source holds the id, since no ordinal can describe that outcome.
//
// The registry is not safe for concurrent use and does not guard against a
// notification handler mutating the registry that published it.
package sources
