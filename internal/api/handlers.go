package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/review"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/domain/wishlist"
	"github.com/example/storefront/internal/model"
	"github.com/example/storefront/internal/toast"
)

// Handlers exposes the state containers to the presentation layer. The
// containers hold the session's state; handlers only decode requests,
// call container operations, and encode read views.
type Handlers struct {
	products *product.Container
	carts    *cart.Container
	wishes   *wishlist.Container
	reviews  *review.Container
	orders   *order.Container
	users    *user.Container
	toasts   *toast.Bus
}

func NewHandlers(
	products *product.Container,
	carts *cart.Container,
	wishes *wishlist.Container,
	reviews *review.Container,
	orders *order.Container,
	users *user.Container,
	toasts *toast.Bus,
) *Handlers {
	return &Handlers{
		products: products,
		carts:    carts,
		wishes:   wishes,
		reviews:  reviews,
		orders:   orders,
		users:    users,
		toasts:   toasts,
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	if q := r.URL.Query().Get("q"); q != "" {
		respondJSON(w, http.StatusOK, h.products.Search(q))
		return
	}
	if category := r.URL.Query().Get("category"); category != "" {
		respondJSON(w, http.StatusOK, h.products.ByCategory(category))
		return
	}
	respondJSON(w, http.StatusOK, h.products.All())
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/products/")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	p, ok := h.products.Get(id)
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

func (h *Handlers) GetFlashSale(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.products.FlashSale())
}

func (h *Handlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.products.Categories())
}

// Cart Handlers

type cartView struct {
	Items []model.CartItem `json:"items"`
	Count int              `json:"count"`
	Total int              `json:"total"`
}

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, cartView{
		Items: h.carts.Items(),
		Count: h.carts.Count(),
		Total: h.carts.Total(),
	})
}

func (h *Handlers) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID int `json:"productId"`
		Quantity  int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	p, ok := h.products.Get(req.ProductID)
	if !ok {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err := h.carts.Add(p, req.Quantity); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/cart/items/")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.carts.UpdateQuantity(id, req.Quantity); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/cart/items/")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	h.carts.Remove(id)
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.carts.Clear()
	w.WriteHeader(http.StatusOK)
}

// Wishlist Handlers

func (h *Handlers) GetWishlist(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"productIds": h.wishes.IDs(),
		"count":      h.wishes.Count(),
	})
}

func (h *Handlers) AddToWishlist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/wishlist/")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	h.wishes.Add(id)
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) RemoveFromWishlist(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r.URL.Path, "/wishlist/")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	h.wishes.Remove(id)
	w.WriteHeader(http.StatusOK)
}

// Review Handlers

func (h *Handlers) GetReviews(w http.ResponseWriter, r *http.Request) {
	if strings.HasPrefix(r.URL.Path, "/products/") {
		path := strings.TrimSuffix(r.URL.Path, "/reviews")
		id, err := pathID(path, "/products/")
		if err != nil {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}
		respondJSON(w, http.StatusOK, h.reviews.ForProduct(id))
		return
	}
	if pid := r.URL.Query().Get("productId"); pid != "" {
		id, err := strconv.Atoi(pid)
		if err != nil {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}
		respondJSON(w, http.StatusOK, h.reviews.ForProduct(id))
		return
	}
	respondJSON(w, http.StatusOK, h.reviews.All())
}

func (h *Handlers) AddReview(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/reviews")
	id, err := pathID(path, "/products/")
	if err != nil {
		http.Error(w, "invalid product id", http.StatusBadRequest)
		return
	}
	var input review.NewReview
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	rev, err := h.reviews.Add(id, input)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	respondJSON(w, http.StatusCreated, rev)
}

// Order Handlers

func (h *Handlers) GetOrders(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.orders.All())
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")
	o, ok := h.orders.Get(id)
	if !ok {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, o)
}

func (h *Handlers) GetTracking(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/orders/")
	id = strings.TrimSuffix(id, "/tracking")
	history, err := h.orders.Tracking(id)
	if err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, history)
}

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Address       model.Address `json:"address"`
		PaymentMethod string        `json:"paymentMethod"`
		SaveAddress   bool          `json:"saveAddress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if req.SaveAddress && h.users.IsAuthenticated() {
		if _, err := h.users.AddAddress(req.Address); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	o, err := h.orders.Checkout(order.CheckoutInput{
		Items:         h.carts.Items(),
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, order.ErrEmptyCart) || errors.Is(err, order.ErrIncompleteAddress) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}

	h.carts.Clear()
	respondJSON(w, http.StatusCreated, o)
}

// Toast Handler

func (h *Handlers) GetToast(w http.ResponseWriter, r *http.Request) {
	if msg := h.toasts.Current(); msg != nil {
		respondJSON(w, http.StatusOK, msg)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Helper functions

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func extractPathParam(path, prefix string) string {
	return strings.TrimPrefix(path, prefix)
}

func pathID(path, prefix string) (int, error) {
	return strconv.Atoi(extractPathParam(path, prefix))
}
