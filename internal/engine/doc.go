// Package engine is the update coordinator: it turns host notifications into
// snapshot refreshes, diffs, and published change sets.
//
// A Session is attached to one server connection. Per entity the coordinator
// walks Unknown -> Tracked -> Retired: an appearance (or first discovery
// during the attach-time full sync) builds a snapshot and publishes the full
// initial set as created-changes; an update refreshes against the stored
// snapshot and publishes the diff; a removal publishes a terminal change set
// carrying the last known snapshot and drops the entity. A notification for
// an entity never seen recovers as an implicit creation, because the host's
// notification stream is not complete for entities that predate the attach.
//
// Everything runs synchronously on the host's callback thread. The host
// guarantees serialized, non-overlapping delivery, so there is no queue, no
// locking, and no cancellation here; the unit of work is one notification,
// processed to completion.
package engine
