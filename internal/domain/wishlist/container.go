// Package wishlist owns the saved-for-later product id set.
package wishlist

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/example/storefront/internal/kvstore"
	"github.com/example/storefront/internal/notify"
	"github.com/google/uuid"
)

const storageKey = kvstore.KeyWishlist

// Container holds the wishlist: an ordered set of product ids. Add and
// Remove are idempotent.
type Container struct {
	mu       sync.RWMutex
	ids      []int
	store    kvstore.Store
	notifier notify.Notifier
	origin   string
	rev      uint64
	tracker  *notify.Tracker
	cancel   func()
}

func NewContainer(store kvstore.Store, notifier notify.Notifier) *Container {
	c := &Container{
		store:    store,
		notifier: notifier,
		origin:   uuid.New().String(),
		tracker:  notify.NewTracker(),
	}
	c.ids = c.hydrate()
	if notifier != nil {
		c.cancel = notifier.Subscribe(storageKey, c.origin, c.onChange)
	}
	return c
}

func (c *Container) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Container) hydrate() []int {
	raw, found, err := c.store.Get(storageKey)
	if err != nil {
		log.Printf("[Wishlist] failed to read persisted wishlist, starting empty: %v", err)
		return nil
	}
	if !found {
		return nil
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		log.Printf("[Wishlist] malformed persisted wishlist, starting empty: %v", err)
		return nil
	}
	return ids
}

func (c *Container) persist() {
	data, err := json.Marshal(c.ids)
	if err != nil {
		log.Printf("[Wishlist] failed to serialize wishlist: %v", err)
		return
	}
	if err := c.store.Set(storageKey, string(data)); err != nil {
		log.Printf("[Wishlist] failed to persist wishlist, keeping in-memory state: %v", err)
		return
	}
	if c.notifier != nil {
		c.rev++
		change := notify.Change{Key: storageKey, Value: string(data), Rev: c.rev, Origin: c.origin}
		if err := c.notifier.Publish(change); err != nil {
			log.Printf("[Wishlist] failed to publish change: %v", err)
		}
	}
}

func (c *Container) onChange(change notify.Change) {
	if c.tracker.Stale(change) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if change.Value == "" {
		c.ids = c.hydrate()
		return
	}
	var ids []int
	if err := json.Unmarshal([]byte(change.Value), &ids); err != nil {
		log.Printf("[Wishlist] malformed change notification: %v", err)
		return
	}
	c.ids = ids
}

// Add saves a product id. Adding a present id is a no-op.
func (c *Container) Add(productID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.ids {
		if id == productID {
			return
		}
	}
	c.ids = append(c.ids, productID)
	c.persist()
}

// Remove drops a product id. Removing an absent id is a no-op.
func (c *Container) Remove(productID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, id := range c.ids {
		if id == productID {
			c.ids = append(c.ids[:i], c.ids[i+1:]...)
			c.persist()
			return
		}
	}
}

// Contains reports whether productID is saved.
func (c *Container) Contains(productID int) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.ids {
		if id == productID {
			return true
		}
	}
	return false
}

// IDs returns the saved product ids in insertion order.
func (c *Container) IDs() []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]int, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// Count returns the number of saved products.
func (c *Container) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ids)
}
