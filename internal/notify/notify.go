// Package notify carries change notifications between sessions. Each
// notification names the storage key that changed and the new raw value,
// and subscriptions are registered per key, so no subscriber ever filters
// by key itself.
package notify

import "sync"

// Change describes one mutation of a persisted key.
type Change struct {
	// Key is the storage key (or remote collection name) that changed.
	Key string `json:"key"`
	// Value is the new JSON snapshot. May be empty for remote-collection
	// pings, in which case subscribers re-fetch.
	Value string `json:"value,omitempty"`
	// Rev is a per-publisher counter. Subscribers run deliveries through
	// a Tracker to drop ones that arrive out of order from the same
	// origin; revs from different origins are not comparable.
	Rev uint64 `json:"rev"`
	// Origin identifies the publishing container instance. A publisher's
	// own subscriptions are skipped: it already holds the authoritative
	// in-memory value.
	Origin string `json:"origin"`
}

// Notifier is the change-notification channel. Delivery to a given
// subscriber preserves publish order; delivery is asynchronous.
type Notifier interface {
	Publish(change Change) error
	// Subscribe registers fn for changes to key. Changes published with
	// the given origin are not delivered. The returned func cancels the
	// subscription.
	Subscribe(key, origin string, fn func(Change)) (cancel func())
}

// Tracker remembers the highest revision applied per origin so a
// subscriber can discard deliveries that arrive behind one it has
// already applied from the same publisher.
type Tracker struct {
	mu   sync.Mutex
	seen map[string]uint64
}

func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]uint64)}
}

// Stale reports whether change is at or behind the last revision applied
// from its origin, recording the revision otherwise. Changes without an
// origin (remote-collection pings) are never stale.
func (t *Tracker) Stale(change Change) bool {
	if change.Origin == "" {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if change.Rev <= t.seen[change.Origin] {
		return true
	}
	t.seen[change.Origin] = change.Rev
	return false
}
