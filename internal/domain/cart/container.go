// Package cart owns the in-memory shopping cart and keeps it mirrored
// into the persisted store under the cart key.
package cart

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/example/storefront/internal/kvstore"
	"github.com/example/storefront/internal/model"
	"github.com/example/storefront/internal/notify"
	"github.com/google/uuid"
)

const storageKey = kvstore.KeyCart

var ErrInvalidQuantity = errors.New("quantity must be at least 1")

// Container holds the cart collection. Mutations persist the full
// snapshot and publish a change; foreign changes re-hydrate the
// collection. Persistence failures are logged and the in-memory mutation
// stands: the session must not break because the store is unavailable.
type Container struct {
	mu       sync.RWMutex
	items    []model.CartItem
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
	c.items = c.hydrate()
	if notifier != nil {
		c.cancel = notifier.Subscribe(storageKey, c.origin, c.onChange)
	}
	return c
}

// Close cancels the change subscription.
func (c *Container) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Container) hydrate() []model.CartItem {
	raw, found, err := c.store.Get(storageKey)
	if err != nil {
		log.Printf("[Cart] failed to read persisted cart, starting empty: %v", err)
		return nil
	}
	if !found {
		return nil
	}
	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("[Cart] malformed persisted cart, starting empty: %v", err)
		return nil
	}
	return items
}

// persist writes the snapshot and publishes the change. Callers hold the
// write lock.
func (c *Container) persist() {
	data, err := json.Marshal(c.items)
	if err != nil {
		log.Printf("[Cart] failed to serialize cart: %v", err)
		return
	}
	if err := c.store.Set(storageKey, string(data)); err != nil {
		log.Printf("[Cart] failed to persist cart, keeping in-memory state: %v", err)
		return
	}
	if c.notifier != nil {
		c.rev++
		change := notify.Change{Key: storageKey, Value: string(data), Rev: c.rev, Origin: c.origin}
		if err := c.notifier.Publish(change); err != nil {
			log.Printf("[Cart] failed to publish change: %v", err)
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
		c.items = c.hydrate()
		return
	}
	var items []model.CartItem
	if err := json.Unmarshal([]byte(change.Value), &items); err != nil {
		log.Printf("[Cart] malformed change notification: %v", err)
		return
	}
	c.items = items
}

// Add puts quantity units of product into the cart. Quantities of an
// already-present product are summed; new lines keep insertion order.
func (c *Container) Add(product model.Product, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	merged := false
	for i := range c.items {
		if c.items[i].Product.ID == product.ID {
			c.items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		c.items = append(c.items, model.CartItem{Product: product, Quantity: quantity})
	}
	c.persist()
	return nil
}

// Remove deletes the line for productID. Removing an absent product is a
// no-op.
func (c *Container) Remove(productID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.persist()
			return
		}
	}
}

// UpdateQuantity sets the quantity of an existing line. Quantities below
// one are rejected; this operation never deletes a line.
func (c *Container) UpdateQuantity(productID, quantity int) error {
	if quantity < 1 {
		return ErrInvalidQuantity
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			c.persist()
			return nil
		}
	}
	return nil
}

// Clear empties the cart.
func (c *Container) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
	c.persist()
}

// Items returns the cart lines in insertion order.
func (c *Container) Items() []model.CartItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	items := make([]model.CartItem, len(c.items))
	copy(items, c.items)
	return items
}

// Count returns the total number of units in the cart.
func (c *Container) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, item := range c.items {
		total += item.Quantity
	}
	return total
}

// Total returns the cart's price total.
func (c *Container) Total() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	total := 0
	for _, item := range c.items {
		total += item.Product.Price * item.Quantity
	}
	return total
}
