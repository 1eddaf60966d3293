package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/domain/user"
	"github.com/example/storefront/internal/model"
)

// AuthHandlers handles account-related HTTP requests
type AuthHandlers struct {
	users      *user.Container
	jwtService *auth.JWTService
}

func NewAuthHandlers(users *user.Container, jwtService *auth.JWTService) *AuthHandlers {
	return &AuthHandlers{
		users:      users,
		jwtService: jwtService,
	}
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the wire shape of a user. The persisted snapshot
// carries the bcrypt password hash; responses never do.
type UserResponse struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	PhoneNumber     string          `json:"phoneNumber,omitempty"`
	DateOfBirth     string          `json:"dateOfBirth,omitempty"`
	PhotoURL        string          `json:"photoUrl,omitempty"`
	ThemePreference string          `json:"themePreference,omitempty"`
	Addresses       []model.Address `json:"addresses"`
}

func newUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Name:            u.Name,
		Email:           u.Email,
		PhoneNumber:     u.PhoneNumber,
		DateOfBirth:     u.DateOfBirth,
		PhotoURL:        u.PhotoURL,
		ThemePreference: u.ThemePreference,
		Addresses:       u.Addresses,
	}
}

// AuthResponse represents the authentication response
type AuthResponse struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message,omitempty"`
}

// Signup handles account creation
func (h *AuthHandlers) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, token, err := h.users.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrPasswordTooShort):
			respondJSONError(w, "Password must be at least 8 characters", http.StatusBadRequest)
		case errors.Is(err, user.ErrMissingFields):
			respondJSONError(w, "Name and email are required", http.StatusBadRequest)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}

	h.setSessionCookie(w, r, token)
	respondJSON(w, http.StatusCreated, AuthResponse{
		User:    newUserResponse(u),
		Message: "Signup successful",
	})
}

// Login handles user login
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, token, err := h.users.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			respondJSONError(w, "Invalid email or password", http.StatusUnauthorized)
			return
		}
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.setSessionCookie(w, r, token)
	respondJSON(w, http.StatusOK, AuthResponse{
		User:    newUserResponse(u),
		Message: "Login successful",
	})
}

// Logout drops the session and clears the cookie
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.users.Logout()
	h.clearSessionCookie(w)
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Logout successful",
	})
}

// Me returns the current authenticated user's profile
func (h *AuthHandlers) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := h.users.Current()
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(u))
}

// UpdateProfile merges the submitted fields into the current profile
func (h *AuthHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var update user.ProfileUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	u, err := h.users.UpdateProfile(update)
	if err != nil {
		if errors.Is(err, user.ErrNotAuthenticated) {
			respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		respondJSONError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, newUserResponse(u))
}

// GetAddresses lists the saved addresses
func (h *AuthHandlers) GetAddresses(w http.ResponseWriter, r *http.Request) {
	u, ok := h.users.Current()
	if !ok {
		respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, u.Addresses)
}

// AddAddress saves a new shipping address
func (h *AuthHandlers) AddAddress(w http.ResponseWriter, r *http.Request) {
	var addr model.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	saved, err := h.users.AddAddress(addr)
	if err != nil {
		switch {
		case errors.Is(err, user.ErrNotAuthenticated):
			respondJSONError(w, "Unauthorized", http.StatusUnauthorized)
		case errors.Is(err, user.ErrIncompleteAddress):
			respondJSONError(w, "Address requires first name, phone and street", http.StatusBadRequest)
		default:
			respondJSONError(w, err.Error(), http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusCreated, saved)
}

// Helper methods

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.jwtService.TokenExpiry().Seconds()),
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandlers) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_token",
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
