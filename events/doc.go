// Package events provides the in-process notification bus used by citeorder.
//
// Messages are addressed by a (source type, topic) pair. Components that
// mutate state (the source registry, the document surface, the citations
// controller) publish on the bus; components that derive state (key views,
// renderers) subscribe to it. Nothing holds a direct reference to its
// observers.
//
// Dispatch is synchronous: Emit returns after every matching handler has run,
// in subscription order. Handlers subscribed while an Emit is in flight are
// not called for that message; handlers removed while it is in flight are
// skipped if they have not run yet. The bus lock only guards its subscriber
// table and is never held while a handler runs, so a handler may subscribe,
// unsubscribe or emit. The bus does not guard against a handler mutating the
// publisher that triggered it; callers serialize that themselves.
//
// A wildcard subscription registered with OnAny receives every message,
// after the handlers registered for the exact key.
package events
