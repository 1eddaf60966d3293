// Package product owns the catalog. The collection is read-mostly: only
// the rating summary mutates, when a review is added. One container type
// serves both backing modes, selected at construction time: local
// (persisted store + seed fallback) or remote (full-collection fetch
// with push-triggered re-sync).
package product

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/example/storefront/internal/kvstore"
	"github.com/example/storefront/internal/model"
	"github.com/example/storefront/internal/notify"
	"github.com/example/storefront/internal/seed"
	"github.com/google/uuid"
)

const storageKey = kvstore.KeyProducts

// RemoteCollection is the logical collection name on the remote store.
const RemoteCollection = "products"

var ErrNotFound = errors.New("product not found")

// RemoteSource is the slice of the remote sync adapter the catalog needs.
type RemoteSource interface {
	FetchProducts(ctx context.Context) ([]model.Product, error)
	Subscribe(collection string, fn func()) (cancel func())
}

type Container struct {
	mu         sync.RWMutex
	products   []model.Product
	categories []model.Category

	store    kvstore.Store
	notifier notify.Notifier
	remote   RemoteSource
	origin   string
	rev      uint64
	tracker  *notify.Tracker
	cancel   func()
}

// NewContainer builds a locally backed catalog: hydrated from the
// persisted store, falling back to the bundled seed catalog.
func NewContainer(store kvstore.Store, notifier notify.Notifier) *Container {
	c := &Container{
		store:      store,
		notifier:   notifier,
		categories: seed.Categories(),
		origin:     uuid.New().String(),
		tracker:    notify.NewTracker(),
	}
	c.products = c.hydrate()
	if notifier != nil {
		c.cancel = notifier.Subscribe(storageKey, c.origin, c.onChange)
	}
	return c
}

// NewRemoteContainer builds a remotely backed catalog. The initial fetch
// failing leaves the seed catalog in place; every push notification for
// the products collection triggers a full re-fetch.
func NewRemoteContainer(ctx context.Context, remote RemoteSource) *Container {
	c := &Container{
		remote:     remote,
		categories: seed.Categories(),
		products:   seed.Products(),
	}
	c.Refresh(ctx)
	c.cancel = remote.Subscribe(RemoteCollection, func() {
		c.Refresh(context.Background())
	})
	return c
}

func (c *Container) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

func (c *Container) hydrate() []model.Product {
	raw, found, err := c.store.Get(storageKey)
	if err != nil {
		log.Printf("[Product] failed to read persisted catalog, using seed data: %v", err)
		return seed.Products()
	}
	if !found {
		return seed.Products()
	}
	var products []model.Product
	if err := json.Unmarshal([]byte(raw), &products); err != nil {
		log.Printf("[Product] malformed persisted catalog, using seed data: %v", err)
		return seed.Products()
	}
	return products
}

// Refresh re-fetches the collection from the remote store. On failure the
// existing in-memory catalog is retained.
func (c *Container) Refresh(ctx context.Context) {
	if c.remote == nil {
		return
	}
	products, err := c.remote.FetchProducts(ctx)
	if err != nil {
		log.Printf("[Product] remote fetch failed, keeping current catalog: %v", err)
		return
	}
	c.mu.Lock()
	c.products = products
	c.mu.Unlock()
}

func (c *Container) persist() {
	if c.store == nil {
		// Remote mode: rating summaries are recomputed in memory only;
		// the remote catalog is authoritative and read-only here.
		return
	}
	data, err := json.Marshal(c.products)
	if err != nil {
		log.Printf("[Product] failed to serialize catalog: %v", err)
		return
	}
	if err := c.store.Set(storageKey, string(data)); err != nil {
		log.Printf("[Product] failed to persist catalog, keeping in-memory state: %v", err)
		return
	}
	if c.notifier != nil {
		c.rev++
		change := notify.Change{Key: storageKey, Value: string(data), Rev: c.rev, Origin: c.origin}
		if err := c.notifier.Publish(change); err != nil {
			log.Printf("[Product] failed to publish change: %v", err)
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
		c.products = c.hydrate()
		return
	}
	var products []model.Product
	if err := json.Unmarshal([]byte(change.Value), &products); err != nil {
		log.Printf("[Product] malformed change notification: %v", err)
		return
	}
	c.products = products
}

// All returns the catalog.
func (c *Container) All() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	products := make([]model.Product, len(c.products))
	copy(products, c.products)
	return products
}

// Get returns the product with the given id.
func (c *Container) Get(id int) (model.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// ByCategory returns the products in a category.
func (c *Container) ByCategory(categoryID string) []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.Product
	for _, p := range c.products {
		if p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	return out
}

// Search returns products whose name or description contains the query,
// case-insensitively. A plain substring filter, nothing fancier.
func (c *Container) Search(query string) []model.Product {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.Product
	for _, p := range c.products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

// FlashSale returns discounted products.
func (c *Container) FlashSale() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.Product
	for _, p := range c.products {
		if p.OriginalPrice > p.Price {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns the browsable categories.
func (c *Container) Categories() []model.Category {
	return c.categories
}

// ApplyRating replaces the rating summary of a product and persists the
// catalog. Used by the review container after adding a review.
func (c *Container) ApplyRating(productID int, rating model.Rating) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.products {
		if c.products[i].ID == productID {
			r := rating
			c.products[i].Rating = &r
			c.persist()
			return nil
		}
	}
	return ErrNotFound
}
