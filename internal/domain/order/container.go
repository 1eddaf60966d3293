// Package order owns the order history. The read view is
// most-recent-first: new orders are always prepended.
package order

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/example/storefront/internal/kvstore"
	"github.com/example/storefront/internal/model"
	"github.com/example/storefront/internal/notify"
	"github.com/example/storefront/internal/seed"
	"github.com/example/storefront/internal/toast"
	"github.com/google/uuid"
)

const storageKey = kvstore.KeyOrders

// RemoteCollection is the logical collection name on the remote store.
const RemoteCollection = "orders"

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrIncompleteAddress = errors.New("shipping address is incomplete")
	ErrNotFound          = errors.New("order not found")
)

// RemoteSink is the slice of the remote sync adapter the order container
// needs: full-collection reads, inserts, and a change push.
type RemoteSink interface {
	FetchOrders(ctx context.Context) ([]model.Order, error)
	InsertOrder(ctx context.Context, o model.Order) error
	Subscribe(collection string, fn func()) (cancel func())
}

type Container struct {
	mu       sync.RWMutex
	orders   []model.Order
	store    kvstore.Store
	notifier notify.Notifier
	remote   RemoteSink
	toasts   *toast.Bus
	origin   string
	rev      uint64
	tracker  *notify.Tracker
	cancel   func()
}

// NewContainer builds a locally backed order container, hydrated from
// the persisted store with the bundled order history as fallback.
func NewContainer(store kvstore.Store, notifier notify.Notifier, toasts *toast.Bus) *Container {
	c := &Container{
		store:    store,
		notifier: notifier,
		toasts:   toasts,
		origin:   uuid.New().String(),
		tracker:  notify.NewTracker(),
	}
	c.orders = c.hydrate()
	if notifier != nil {
		c.cancel = notifier.Subscribe(storageKey, c.origin, c.onChange)
	}
	return c
}

// NewRemoteContainer builds a remotely backed order container. Inserts
// are optimistic: the order is shown immediately and written in the
// background. Push notifications trigger a full re-fetch.
func NewRemoteContainer(ctx context.Context, remote RemoteSink, toasts *toast.Bus) *Container {
	c := &Container{
		remote: remote,
		toasts: toasts,
		orders: seed.Orders(),
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

func (c *Container) hydrate() []model.Order {
	raw, found, err := c.store.Get(storageKey)
	if err != nil {
		log.Printf("[Order] failed to read persisted orders, using seed data: %v", err)
		return seed.Orders()
	}
	if !found {
		return seed.Orders()
	}
	var orders []model.Order
	if err := json.Unmarshal([]byte(raw), &orders); err != nil {
		log.Printf("[Order] malformed persisted orders, using seed data: %v", err)
		return seed.Orders()
	}
	return orders
}

// Refresh re-fetches the order list from the remote store, keeping the
// current list on failure.
func (c *Container) Refresh(ctx context.Context) {
	if c.remote == nil {
		return
	}
	orders, err := c.remote.FetchOrders(ctx)
	if err != nil {
		log.Printf("[Order] remote fetch failed, keeping current orders: %v", err)
		return
	}
	c.mu.Lock()
	c.orders = orders
	c.mu.Unlock()
}

func (c *Container) persist() {
	if c.store == nil {
		return
	}
	data, err := json.Marshal(c.orders)
	if err != nil {
		log.Printf("[Order] failed to serialize orders: %v", err)
		return
	}
	if err := c.store.Set(storageKey, string(data)); err != nil {
		log.Printf("[Order] failed to persist orders, keeping in-memory state: %v", err)
		return
	}
	if c.notifier != nil {
		c.rev++
		change := notify.Change{Key: storageKey, Value: string(data), Rev: c.rev, Origin: c.origin}
		if err := c.notifier.Publish(change); err != nil {
			log.Printf("[Order] failed to publish change: %v", err)
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
		c.orders = c.hydrate()
		return
	}
	var orders []model.Order
	if err := json.Unmarshal([]byte(change.Value), &orders); err != nil {
		log.Printf("[Order] malformed change notification: %v", err)
		return
	}
	c.orders = orders
}

// Add prepends the order and persists. In remote mode the prepend is
// optimistic and the remote write runs in the background; a failed write
// marks the entry unconfirmed rather than rolling it back, so the buyer
// keeps seeing the order they were told succeeded.
func (c *Container) Add(o model.Order) {
	c.mu.Lock()
	c.orders = append([]model.Order{o}, c.orders...)
	c.persist()
	c.mu.Unlock()

	if c.remote != nil {
		go c.syncRemote(o)
	}
}

func (c *Container) syncRemote(o model.Order) {
	if err := c.remote.InsertOrder(context.Background(), o); err != nil {
		log.Printf("[Order] remote insert of %s failed, marking unconfirmed: %v", o.ID, err)
		c.markUnconfirmed(o.ID)
		if c.toasts != nil {
			c.toasts.Show("Your order could not be confirmed yet. We'll keep trying.", toast.SeverityWarning)
		}
	}
}

func (c *Container) markUnconfirmed(orderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.orders {
		if c.orders[i].ID == orderID {
			c.orders[i].Unconfirmed = true
			c.persist()
			return
		}
	}
}

// CheckoutInput is what the checkout surface collects.
type CheckoutInput struct {
	Items         []model.CartItem
	Address       model.Address
	PaymentMethod string
}

// Checkout validates the input and places a new order with status
// "To ship". Invalid input is rejected before any mutation and surfaced
// on the toast bus.
func (c *Container) Checkout(input CheckoutInput) (model.Order, error) {
	if len(input.Items) == 0 {
		c.showError("Your cart is empty.")
		return model.Order{}, ErrEmptyCart
	}
	addr := input.Address
	if addr.FirstName == "" || addr.Phone == "" || addr.Street == "" {
		c.showError("Please fill in required shipping details.")
		return model.Order{}, ErrIncompleteAddress
	}

	seller := input.Items[0].Product.Brand
	if seller == "" {
		seller = "NOKLITY Store"
	}

	items := make([]model.OrderItem, 0, len(input.Items))
	total := 0
	for _, ci := range input.Items {
		variant := "Standard"
		if len(ci.Product.Colors) > 0 {
			variant = ci.Product.Colors[0].Name
		}
		items = append(items, model.OrderItem{
			ID:       ci.Product.ID,
			Name:     ci.Product.Name,
			ImageURL: ci.Product.ImageURL,
			Variant:  variant,
			Price:    ci.Product.Price,
			Quantity: ci.Quantity,
		})
		total += ci.Product.Price * ci.Quantity
	}

	now := time.Now()
	paymentStatus := "Paid"
	if input.PaymentMethod == "Cash on Delivery" {
		paymentStatus = "Pending"
	}
	snapshot := addr
	o := model.Order{
		ID:                newOrderID(),
		SellerName:        seller,
		Status:            model.StatusToShip,
		Items:             items,
		Total:             total,
		CustomerName:      strings.TrimSpace(addr.FirstName + " " + addr.LastName),
		CustomerPhone:     addr.Phone,
		OrderDate:         now.Format("2006-01-02 15:04"),
		EstimatedDelivery: "3-5 Business Days",
		DeliveryPartner:   "NOKLITY Express",
		PaymentInfo: &model.PaymentInfo{
			Method: input.PaymentMethod,
			Status: paymentStatus,
			Date:   now.Format("2006-01-02"),
		},
		ShippingAddress: &snapshot,
	}

	c.Add(o)
	return o, nil
}

// newOrderID builds a short human-readable order number.
func newOrderID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "NOK-" + raw[:6]
}

// All returns the order list, most recent first.
func (c *Container) All() []model.Order {
	c.mu.RLock()
	defer c.mu.RUnlock()
	orders := make([]model.Order, len(c.orders))
	copy(orders, c.orders)
	return orders
}

// Get returns the order with the given id.
func (c *Container) Get(id string) (model.Order, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, o := range c.orders {
		if o.ID == id {
			return o, true
		}
	}
	return model.Order{}, false
}

// Tracking returns the delivery history for an order.
func (c *Container) Tracking(id string) ([]model.TrackingEvent, error) {
	o, ok := c.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return o.TrackingHistory, nil
}

func (c *Container) showError(text string) {
	if c.toasts != nil {
		c.toasts.Show(text, toast.SeverityError)
	}
}
