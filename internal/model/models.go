// Package model holds the entity shapes shared by the state containers.
// JSON tags follow the persisted snapshot format, which is the wire
// contract between sessions (and with the admin surface editing the same
// keys), so they must stay stable.
package model

// RatingBreakdown counts reviews per star value.
type RatingBreakdown struct {
	Five  int `json:"5"`
	Four  int `json:"4"`
	Three int `json:"3"`
	Two   int `json:"2"`
	One   int `json:"1"`
}

// Total returns the number of reviews across all buckets.
func (b RatingBreakdown) Total() int {
	return b.Five + b.Four + b.Three + b.Two + b.One
}

// WeightedSum returns the star-weighted sum across buckets.
func (b RatingBreakdown) WeightedSum() int {
	return 5*b.Five + 4*b.Four + 3*b.Three + 2*b.Two + 1*b.One
}

// Rating summarizes the reviews of a product.
type Rating struct {
	Stars     float64          `json:"stars"`
	Count     int              `json:"count"`
	Breakdown *RatingBreakdown `json:"breakdown,omitempty"`
}

// ColorOption is a purchasable color variant of a product.
type ColorOption struct {
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// Product is an immutable catalog entry, except for Rating which is
// recomputed when a review is added.
type Product struct {
	ID            int           `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Price         int           `json:"price"`
	OriginalPrice int           `json:"originalPrice,omitempty"`
	ImageURL      string        `json:"imageUrl"`
	Images        []string      `json:"images,omitempty"`
	CategoryID    string        `json:"categoryId"`
	Brand         string        `json:"brand,omitempty"`
	Colors        []ColorOption `json:"colors,omitempty"`
	Sizes         []string      `json:"sizes,omitempty"`
	Rating        *Rating       `json:"rating,omitempty"`
	FreeShipping  bool          `json:"freeShipping,omitempty"`
	Sold          int           `json:"sold,omitempty"`
}

// Category groups products for browsing.
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	ImageURL    string `json:"imageUrl"`
}

// CartItem pairs a product with a quantity. At most one CartItem exists
// per product id in a cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// SellerRating is the buyer's verdict on the seller in a review.
type SellerRating string

const (
	SellerPositive SellerRating = "Positive"
	SellerNeutral  SellerRating = "Neutral"
	SellerNegative SellerRating = "Negative"
)

// Review is a buyer review of a product.
type Review struct {
	ID                string       `json:"id"`
	ProductID         int          `json:"productId"`
	Author            string       `json:"author"`
	Rating            int          `json:"rating"`
	Comment           string       `json:"comment"`
	Date              string       `json:"date"`
	VerifiedPurchase  bool         `json:"verifiedPurchase"`
	ImageURLs         []string     `json:"imageUrls,omitempty"`
	VariantInfo       string       `json:"variantInfo,omitempty"`
	SellerRating      SellerRating `json:"sellerRating,omitempty"`
	IsAnonymous       bool         `json:"isAnonymous,omitempty"`
}

// OrderStatus enumerates the lifecycle states shown to the buyer.
type OrderStatus string

const (
	StatusToPay     OrderStatus = "To Pay"
	StatusToShip    OrderStatus = "To ship"
	StatusToReceive OrderStatus = "To Receive"
	StatusShipped   OrderStatus = "Shipped"
	StatusDelivered OrderStatus = "Delivered"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
	StatusToReview  OrderStatus = "To Review"
)

// OrderItem is a purchased line within an order.
type OrderItem struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
	Variant  string `json:"variant"`
	Price    int    `json:"price"`
	Quantity int    `json:"quantity"`
}

// TrackingEvent is one step of an order's delivery history.
type TrackingEvent struct {
	Timestamp   string `json:"timestamp"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// PaymentInfo records how an order was (or will be) paid.
type PaymentInfo struct {
	Method string `json:"method"`
	Status string `json:"status"`
	Date   string `json:"date"`
}

// Order is a placed order. Unconfirmed marks an optimistic entry whose
// remote write failed; it is shown to the buyer but never durably
// recorded by the backing store.
type Order struct {
	ID                string          `json:"id"`
	SellerName        string          `json:"sellerName"`
	Status            OrderStatus     `json:"status"`
	Items             []OrderItem     `json:"items"`
	Total             int             `json:"total,omitempty"`
	CustomerName      string          `json:"customerName,omitempty"`
	CustomerPhone     string          `json:"customerPhone,omitempty"`
	OrderDate         string          `json:"orderDate,omitempty"`
	EstimatedDelivery string          `json:"estimatedDelivery,omitempty"`
	DeliveryPartner   string          `json:"deliveryPartner,omitempty"`
	TrackingHistory   []TrackingEvent `json:"trackingHistory,omitempty"`
	PaymentInfo       *PaymentInfo    `json:"paymentInfo,omitempty"`
	ShippingAddress   *Address        `json:"shippingAddress,omitempty"`
	Unconfirmed       bool            `json:"unconfirmed,omitempty"`
}

// Address is a saved shipping address. At most one address per user has
// IsDefault set; if the user has any addresses, exactly one is default.
type Address struct {
	ID         string `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	IsDefault  bool   `json:"isDefault"`
}

// User is the authenticated shopper. PasswordHash is part of the
// persisted snapshot but must be stripped before leaving the API.
type User struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"passwordHash,omitempty"`
	PhoneNumber     string    `json:"phoneNumber,omitempty"`
	DateOfBirth     string    `json:"dateOfBirth,omitempty"`
	PhotoURL        string    `json:"photoUrl,omitempty"`
	ThemePreference string    `json:"themePreference,omitempty"`
	Addresses       []Address `json:"addresses"`
}
