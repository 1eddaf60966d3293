// Package review owns product reviews and keeps the owning product's
// rating summary in step with them.
package review

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
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

const storageKey = kvstore.KeyReviews

var (
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
	ErrEmptyComment  = errors.New("comment must not be empty")
)

// NewReview is the input for adding a review.
type NewReview struct {
	Author       string             `json:"author"`
	Rating       int                `json:"rating"`
	Comment      string             `json:"comment"`
	Verified     bool               `json:"verifiedPurchase"`
	ImageURLs    []string           `json:"imageUrls,omitempty"`
	VariantInfo  string             `json:"variantInfo,omitempty"`
	SellerRating model.SellerRating `json:"sellerRating,omitempty"`
	IsAnonymous  bool               `json:"isAnonymous,omitempty"`
}

// RatingSink is the slice of the product container the review container
// needs to recompute rating summaries.
type RatingSink interface {
	Get(productID int) (model.Product, bool)
	ApplyRating(productID int, rating model.Rating) error
}

type Container struct {
	mu       sync.RWMutex
	reviews  []model.Review
	store    kvstore.Store
	notifier notify.Notifier
	ratings  RatingSink
	toasts   *toast.Bus
	origin   string
	rev      uint64
	tracker  *notify.Tracker
	cancel   func()

	// now is swappable so tests get deterministic ids and dates.
	now func() time.Time
}

func NewContainer(store kvstore.Store, notifier notify.Notifier, ratings RatingSink, toasts *toast.Bus) *Container {
	c := &Container{
		store:    store,
		notifier: notifier,
		ratings:  ratings,
		toasts:   toasts,
		origin:   uuid.New().String(),
		tracker:  notify.NewTracker(),
		now:      time.Now,
	}
	c.reviews = c.hydrate()
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

func (c *Container) hydrate() []model.Review {
	raw, found, err := c.store.Get(storageKey)
	if err != nil {
		log.Printf("[Review] failed to read persisted reviews, using seed data: %v", err)
		return seed.Reviews()
	}
	if !found {
		return seed.Reviews()
	}
	var reviews []model.Review
	if err := json.Unmarshal([]byte(raw), &reviews); err != nil {
		log.Printf("[Review] malformed persisted reviews, using seed data: %v", err)
		return seed.Reviews()
	}
	return reviews
}

func (c *Container) persist() {
	data, err := json.Marshal(c.reviews)
	if err != nil {
		log.Printf("[Review] failed to serialize reviews: %v", err)
		return
	}
	if err := c.store.Set(storageKey, string(data)); err != nil {
		log.Printf("[Review] failed to persist reviews, keeping in-memory state: %v", err)
		return
	}
	if c.notifier != nil {
		c.rev++
		change := notify.Change{Key: storageKey, Value: string(data), Rev: c.rev, Origin: c.origin}
		if err := c.notifier.Publish(change); err != nil {
			log.Printf("[Review] failed to publish change: %v", err)
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
		c.reviews = c.hydrate()
		return
	}
	var reviews []model.Review
	if err := json.Unmarshal([]byte(change.Value), &reviews); err != nil {
		log.Printf("[Review] malformed change notification: %v", err)
		return
	}
	c.reviews = reviews
}

// Add validates and prepends a review, then recomputes the owning
// product's rating summary. Invalid input is rejected before any
// mutation and surfaced on the toast bus.
func (c *Container) Add(productID int, input NewReview) (model.Review, error) {
	if input.Rating < 1 || input.Rating > 5 {
		c.showError("Please select a star rating.")
		return model.Review{}, ErrInvalidRating
	}
	if strings.TrimSpace(input.Comment) == "" {
		c.showError("Please write a few words about the product.")
		return model.Review{}, ErrEmptyComment
	}

	now := c.now()
	author := input.Author
	if input.IsAnonymous || author == "" {
		author = "Anonymous"
	}
	rev := model.Review{
		ID:               fmt.Sprintf("rev%d", now.UnixMilli()),
		ProductID:        productID,
		Author:           author,
		Rating:           input.Rating,
		Comment:          input.Comment,
		Date:             now.Format("2006-01-02"),
		VerifiedPurchase: input.Verified,
		ImageURLs:        input.ImageURLs,
		VariantInfo:      input.VariantInfo,
		SellerRating:     input.SellerRating,
		IsAnonymous:      input.IsAnonymous,
	}

	c.mu.Lock()
	c.reviews = append([]model.Review{rev}, c.reviews...)
	c.persist()
	c.mu.Unlock()

	c.recomputeRating(productID, input.Rating)
	return rev, nil
}

// recomputeRating folds one new star value into the product's summary:
// count+1, matching bucket+1, and the average moved by the weighted
// incremental formula. The bucket counts may undercount the total when
// the product shipped without a breakdown, so the average never derives
// from them.
func (c *Container) recomputeRating(productID, stars int) {
	if c.ratings == nil {
		return
	}
	p, ok := c.ratings.Get(productID)
	if !ok {
		log.Printf("[Review] rating not recomputed: product %d not found", productID)
		return
	}

	rating := model.Rating{}
	if p.Rating != nil {
		rating = *p.Rating
	}
	breakdown := model.RatingBreakdown{}
	if rating.Breakdown != nil {
		breakdown = *rating.Breakdown
	}
	switch stars {
	case 5:
		breakdown.Five++
	case 4:
		breakdown.Four++
	case 3:
		breakdown.Three++
	case 2:
		breakdown.Two++
	case 1:
		breakdown.One++
	}

	rating.Stars = (rating.Stars*float64(rating.Count) + float64(stars)) / float64(rating.Count+1)
	rating.Count++
	rating.Breakdown = &breakdown

	if err := c.ratings.ApplyRating(productID, rating); err != nil {
		log.Printf("[Review] failed to apply rating to product %d: %v", productID, err)
	}
}

// ForProduct returns the product's reviews, most recent first.
func (c *Container) ForProduct(productID int) []model.Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []model.Review
	for _, r := range c.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	// ISO dates sort lexicographically.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out
}

// All returns every review, newest first.
func (c *Container) All() []model.Review {
	c.mu.RLock()
	defer c.mu.RUnlock()
	reviews := make([]model.Review, len(c.reviews))
	copy(reviews, c.reviews)
	return reviews
}

func (c *Container) showError(text string) {
	if c.toasts != nil {
		c.toasts.Show(text, toast.SeverityError)
	}
}
