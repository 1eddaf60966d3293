// Package kvstore provides the persisted key-value store the state
// containers mirror themselves into. Values are JSON-encoded collection
// snapshots; there is no transactional guarantee across keys.
package kvstore

// Fixed storage keys. These strings are the wire contract shared with
// any other process writing the same store (e.g. an admin surface).
const (
	KeyUser     = "user"
	KeyCart     = "cart"
	KeyWishlist = "wishlist"
	KeyProducts = "admin_products"
	KeyOrders   = "admin_orders"
	KeyReviews  = "site_reviews"
)

// Store is the durable key-value contract. Get reports found=false for a
// missing key; callers treat that as "hydrate from seed data".
type Store interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
	Delete(key string) error
}
