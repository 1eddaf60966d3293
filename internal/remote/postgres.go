// Package remote bridges the product and order containers to a remote
// tabular store with push notifications. Any change event triggers a
// full re-fetch of the collection rather than incremental patching; for
// catalogs this size, convergence beats cleverness.
package remote

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/example/storefront/internal/model"
	"github.com/example/storefront/internal/notify"
	_ "github.com/lib/pq"
)

// Store reads and writes the remote collections over PostgreSQL and
// relays change pushes through the notifier.
type Store struct {
	db       *sql.DB
	notifier notify.Notifier
}

// Connect establishes the PostgreSQL connection.
func Connect(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the remote tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS remote_products (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price INTEGER NOT NULL,
			original_price INTEGER,
			image_url TEXT NOT NULL DEFAULT '',
			category_id TEXT NOT NULL DEFAULT '',
			brand TEXT,
			free_shipping BOOLEAN NOT NULL DEFAULT FALSE,
			sold INTEGER NOT NULL DEFAULT 0,
			rating JSONB,
			details JSONB
		)`,
		`CREATE TABLE IF NOT EXISTS remote_orders (
			id TEXT PRIMARY KEY,
			seller_name TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			items JSONB NOT NULL,
			total INTEGER NOT NULL DEFAULT 0,
			details JSONB,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure remote schema: %w", err)
		}
	}
	return nil
}

func NewStore(db *sql.DB, notifier notify.Notifier) *Store {
	return &Store{db: db, notifier: notifier}
}

// productDetails holds the nested product fields stored as one JSON
// column; the remote schema is flatter than the domain shape.
type productDetails struct {
	Images []string            `json:"images,omitempty"`
	Colors []model.ColorOption `json:"colors,omitempty"`
	Sizes  []string            `json:"sizes,omitempty"`
}

// orderDetails holds the nested order fields stored as one JSON column.
type orderDetails struct {
	CustomerName      string                `json:"customerName,omitempty"`
	CustomerPhone     string                `json:"customerPhone,omitempty"`
	OrderDate         string                `json:"orderDate,omitempty"`
	EstimatedDelivery string                `json:"estimatedDelivery,omitempty"`
	DeliveryPartner   string                `json:"deliveryPartner,omitempty"`
	TrackingHistory   []model.TrackingEvent `json:"trackingHistory,omitempty"`
	PaymentInfo       *model.PaymentInfo    `json:"paymentInfo,omitempty"`
	ShippingAddress   *model.Address        `json:"shippingAddress,omitempty"`
}

// FetchProducts reads the full products collection, mapping rows to the
// domain shape and filling defaults for fields the schema omits: a row
// without a rating gets zero stars and zero count.
func (s *Store) FetchProducts(ctx context.Context) ([]model.Product, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, price, original_price, image_url,
		        category_id, brand, free_shipping, sold, rating, details
		 FROM remote_products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		var (
			p             model.Product
			originalPrice sql.NullInt64
			brand         sql.NullString
			ratingJSON    []byte
			detailsJSON   []byte
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &originalPrice,
			&p.ImageURL, &p.CategoryID, &brand, &p.FreeShipping, &p.Sold,
			&ratingJSON, &detailsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan product row: %w", err)
		}
		if originalPrice.Valid {
			p.OriginalPrice = int(originalPrice.Int64)
		}
		if brand.Valid {
			p.Brand = brand.String
		}
		p.Rating = &model.Rating{}
		if len(ratingJSON) > 0 {
			if err := json.Unmarshal(ratingJSON, p.Rating); err != nil {
				log.Printf("[Remote] malformed rating for product %d, defaulting to zero: %v", p.ID, err)
				p.Rating = &model.Rating{}
			}
		}
		if len(detailsJSON) > 0 {
			var d productDetails
			if err := json.Unmarshal(detailsJSON, &d); err != nil {
				log.Printf("[Remote] malformed details for product %d: %v", p.ID, err)
			} else {
				p.Images = d.Images
				p.Colors = d.Colors
				p.Sizes = d.Sizes
			}
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate product rows: %w", err)
	}
	return products, nil
}

// FetchOrders reads the full orders collection, most recent first.
func (s *Store) FetchOrders(ctx context.Context) ([]model.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, seller_name, status, items, total, details
		 FROM remote_orders ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		var (
			o           model.Order
			status      string
			itemsJSON   []byte
			detailsJSON []byte
		)
		if err := rows.Scan(&o.ID, &o.SellerName, &status, &itemsJSON, &o.Total, &detailsJSON); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		o.Status = model.OrderStatus(status)
		if err := json.Unmarshal(itemsJSON, &o.Items); err != nil {
			return nil, fmt.Errorf("failed to decode items for order %s: %w", o.ID, err)
		}
		if len(detailsJSON) > 0 {
			var d orderDetails
			if err := json.Unmarshal(detailsJSON, &d); err != nil {
				log.Printf("[Remote] malformed details for order %s: %v", o.ID, err)
			} else {
				o.CustomerName = d.CustomerName
				o.CustomerPhone = d.CustomerPhone
				o.OrderDate = d.OrderDate
				o.EstimatedDelivery = d.EstimatedDelivery
				o.DeliveryPartner = d.DeliveryPartner
				o.TrackingHistory = d.TrackingHistory
				o.PaymentInfo = d.PaymentInfo
				o.ShippingAddress = d.ShippingAddress
			}
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate order rows: %w", err)
	}
	return orders, nil
}

// InsertOrder writes one order and publishes a change ping for the
// orders collection so other clients re-fetch.
func (s *Store) InsertOrder(ctx context.Context, o model.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to encode order items: %w", err)
	}
	detailsJSON, err := json.Marshal(orderDetails{
		CustomerName:      o.CustomerName,
		CustomerPhone:     o.CustomerPhone,
		OrderDate:         o.OrderDate,
		EstimatedDelivery: o.EstimatedDelivery,
		DeliveryPartner:   o.DeliveryPartner,
		TrackingHistory:   o.TrackingHistory,
		PaymentInfo:       o.PaymentInfo,
		ShippingAddress:   o.ShippingAddress,
	})
	if err != nil {
		return fmt.Errorf("failed to encode order details: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO remote_orders (id, seller_name, status, items, total, details)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.SellerName, string(o.Status), itemsJSON, o.Total, detailsJSON)
	if err != nil {
		return fmt.Errorf("failed to insert order %s: %w", o.ID, err)
	}

	s.ping("orders")
	return nil
}

// Subscribe registers interest in change pushes for a collection. The
// notification carries no value; subscribers re-fetch.
func (s *Store) Subscribe(collection string, fn func()) func() {
	if s.notifier == nil {
		return func() {}
	}
	return s.notifier.Subscribe(collection, "", func(notify.Change) { fn() })
}

func (s *Store) ping(collection string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(notify.Change{Key: collection}); err != nil {
		log.Printf("[Remote] failed to publish %s change: %v", collection, err)
	}
}
