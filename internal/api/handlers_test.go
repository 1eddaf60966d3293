package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/domain/cart"
	"github.com/example/storefront/internal/domain/order"
	"github.com/example/storefront/internal/domain/product"
	"github.com/example/storefront/internal/domain/review"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/domain/wishlist"
	"github.com/example/storefront/internal/kvstore"
	"github.com/example/storefront/internal/model"
	"github.com/example/storefront/internal/toast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	router http.Handler
	carts  *cart.Container
	orders *order.Container
	users  *user.Container
	toasts *toast.Bus
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	store := kvstore.NewMemory()
	jwtService := auth.NewJWTService("test-secret-key-for-api-tests----", 24*time.Hour)
	toasts := toast.NewBus()

	products := product.NewContainer(store, nil)
	carts := cart.NewContainer(store, nil)
	wishes := wishlist.NewContainer(store, nil)
	reviews := review.NewContainer(store, nil, products, toasts)
	orders := order.NewContainer(store, nil, toasts)
	users := user.NewContainer(store, nil, jwtService, toasts)

	handlers := NewHandlers(products, carts, wishes, reviews, orders, users, toasts)
	authHandlers := NewAuthHandlers(users, jwtService)

	return &testAPI{
		router: NewRouter(handlers, authHandlers, jwtService),
		carts:  carts,
		orders: orders,
		users:  users,
		toasts: toasts,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// ============================================
// Product Endpoints
// ============================================

func TestAPI_GetProducts(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/products", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]model.Product](t, rec)
	assert.NotEmpty(t, products)
}

func TestAPI_GetProducts_Search(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/products?q=earbuds", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]model.Product](t, rec)
	require.NotEmpty(t, products)
	assert.Equal(t, 3, products[0].ID)
}

func TestAPI_GetProduct(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/products/101", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[model.Product](t, rec)
	assert.Equal(t, 101, p.ID)
}

func TestAPI_GetProduct_NotFound(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/products/999999", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_GetFlashSale(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/products/flash-sale", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]model.Product](t, rec)
	require.NotEmpty(t, products)
	for _, p := range products {
		assert.Greater(t, p.OriginalPrice, p.Price)
	}
}

// ============================================
// Cart Endpoints
// ============================================

func TestAPI_CartFlow(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/cart/items", map[string]any{"productId": 101, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/cart/items", map[string]any{"productId": 101, "quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/cart", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[struct {
		Items []model.CartItem `json:"items"`
		Count int              `json:"count"`
		Total int              `json:"total"`
	}](t, rec)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Count)
	assert.Equal(t, 3*549, view.Total)

	rec = a.do(t, http.MethodPut, "/cart/items/101", map[string]any{"quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, a.carts.Count())

	rec = a.do(t, http.MethodDelete, "/cart/items/101", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, a.carts.Items())
}

func TestAPI_AddToCart_UnknownProduct(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/cart/items", map[string]any{"productId": 999999, "quantity": 1})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_UpdateCartItem_InvalidQuantity(t *testing.T) {
	a := newTestAPI(t)
	a.do(t, http.MethodPost, "/cart/items", map[string]any{"productId": 101, "quantity": 2})

	rec := a.do(t, http.MethodPut, "/cart/items/101", map[string]any{"quantity": 0})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 2, a.carts.Count())
}

// ============================================
// Wishlist Endpoints
// ============================================

func TestAPI_WishlistFlow(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPut, "/wishlist/101", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = a.do(t, http.MethodPut, "/wishlist/101", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/wishlist", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	view := decode[struct {
		ProductIDs []int `json:"productIds"`
		Count      int   `json:"count"`
	}](t, rec)
	assert.Equal(t, []int{101}, view.ProductIDs)
	assert.Equal(t, 1, view.Count)

	rec = a.do(t, http.MethodDelete, "/wishlist/101", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodGet, "/wishlist", nil)
	view = decode[struct {
		ProductIDs []int `json:"productIds"`
		Count      int   `json:"count"`
	}](t, rec)
	assert.Equal(t, 0, view.Count)
}

// ============================================
// Review Endpoints
// ============================================

func TestAPI_AddReview(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/products/201/reviews", map[string]any{
		"author": "Alice", "rating": 5, "comment": "Great sandals",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	rev := decode[model.Review](t, rec)
	assert.Equal(t, 201, rev.ProductID)

	// The product summary moved: 4.0 over 113 picks up one 5-star.
	rec = a.do(t, http.MethodGet, "/products/201", nil)
	p := decode[model.Product](t, rec)
	require.NotNil(t, p.Rating)
	assert.Equal(t, 114, p.Rating.Count)
	assert.InDelta(t, (4.0*113+5)/114, p.Rating.Stars, 0.0001)
}

func TestAPI_AddReview_Invalid(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/products/201/reviews", map[string]any{
		"author": "Alice", "rating": 0, "comment": "no stars picked",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_GetReviews_ByProduct(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/reviews?productId=201", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	reviews := decode[[]model.Review](t, rec)
	require.NotEmpty(t, reviews)
	for _, r := range reviews {
		assert.Equal(t, 201, r.ProductID)
	}
}

// ============================================
// Checkout Flow
// ============================================

func TestAPI_Checkout(t *testing.T) {
	a := newTestAPI(t)
	ordersBefore := len(a.orders.All())

	rec := a.do(t, http.MethodPost, "/cart/items", map[string]any{"productId": 101, "quantity": 2})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = a.do(t, http.MethodPost, "/checkout", map[string]any{
		"address": map[string]any{
			"firstName": "Rahim", "phone": "01712345678", "street": "12 Station Road",
		},
		"paymentMethod": "Cash on Delivery",
	})

	require.Equal(t, http.StatusCreated, rec.Code)
	o := decode[model.Order](t, rec)
	assert.Equal(t, model.StatusToShip, o.Status)
	assert.Equal(t, 2*549, o.Total)

	// Order prepended, cart emptied.
	orders := a.orders.All()
	require.Len(t, orders, ordersBefore+1)
	assert.Equal(t, o.ID, orders[0].ID)
	assert.Empty(t, a.carts.Items())
}

func TestAPI_Checkout_EmptyCart(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/checkout", map[string]any{
		"address": map[string]any{
			"firstName": "Rahim", "phone": "01712345678", "street": "12 Station Road",
		},
		"paymentMethod": "bKash",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// ============================================
// Auth Endpoints
// ============================================

func TestAPI_SignupLoginFlow(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/auth/signup", map[string]any{
		"name": "Rahim", "email": "rahim@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[AuthResponse](t, rec)
	assert.Equal(t, "rahim@example.com", resp.User.Email)

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_token" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie, "signup must set the session cookie")

	// The cookie authenticates account routes.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(sessionCookie)
	meRec := httptest.NewRecorder()
	a.router.ServeHTTP(meRec, req)
	require.Equal(t, http.StatusOK, meRec.Code)

	// Without it they are rejected.
	rec = a.do(t, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_Login_WrongPassword(t *testing.T) {
	a := newTestAPI(t)
	a.do(t, http.MethodPost, "/auth/signup", map[string]any{
		"name": "Rahim", "email": "rahim@example.com", "password": "password123",
	})

	rec := a.do(t, http.MethodPost, "/auth/login", map[string]any{
		"email": "rahim@example.com", "password": "wrongpassword",
	})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPI_AuthResponsesOmitPasswordHash(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodPost, "/auth/signup", map[string]any{
		"name": "Rahim", "email": "rahim@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "passwordHash", "the bcrypt hash must never go out on the wire")
	assert.NotContains(t, rec.Body.String(), "$2a$")

	var sessionCookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session_token" {
			sessionCookie = c
		}
	}
	require.NotNil(t, sessionCookie)

	rec = a.do(t, http.MethodPost, "/auth/login", map[string]any{
		"email": "rahim@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "passwordHash")

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(sessionCookie)
	meRec := httptest.NewRecorder()
	a.router.ServeHTTP(meRec, req)
	require.Equal(t, http.StatusOK, meRec.Code)
	assert.NotContains(t, meRec.Body.String(), "passwordHash")

	profileReq := httptest.NewRequest(http.MethodPut, "/account/profile", bytes.NewBufferString(`{"phoneNumber":"01712345678"}`))
	profileReq.AddCookie(sessionCookie)
	profileRec := httptest.NewRecorder()
	a.router.ServeHTTP(profileRec, profileReq)
	require.Equal(t, http.StatusOK, profileRec.Code)
	assert.NotContains(t, profileRec.Body.String(), "passwordHash")
}

// ============================================
// Toast Endpoint
// ============================================

func TestAPI_GetToast(t *testing.T) {
	a := newTestAPI(t)

	rec := a.do(t, http.MethodGet, "/toast", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	a.toasts.Show("Order placed", toast.SeveritySuccess)

	rec = a.do(t, http.MethodGet, "/toast", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msg := decode[toast.Message](t, rec)
	assert.Equal(t, "Order placed", msg.Text)
}
