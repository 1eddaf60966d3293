// Package user owns the authenticated shopper: profile, theme
// preference, and saved addresses. The address list maintains a single
// default: if any addresses exist, exactly one has the default flag.
package user

import (
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/example/storefront/internal/auth"
	"github.com/example/storefront/internal/kvstore"
	"github.com/example/storefront/internal/model"
	"github.com/example/storefront/internal/notify"
	"github.com/example/storefront/internal/toast"
	"github.com/google/uuid"
)

const storageKey = kvstore.KeyUser

var (
	ErrNotAuthenticated   = errors.New("not logged in")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("name and email are required")
	ErrIncompleteAddress  = errors.New("address requires first name, phone and street")
)

type Container struct {
	mu       sync.RWMutex
	user     *model.User
	store    kvstore.Store
	notifier notify.Notifier
	jwt      *auth.JWTService
	toasts   *toast.Bus
	origin   string
	rev      uint64
	tracker  *notify.Tracker
	cancel   func()
}

func NewContainer(store kvstore.Store, notifier notify.Notifier, jwtService *auth.JWTService, toasts *toast.Bus) *Container {
	c := &Container{
		store:    store,
		notifier: notifier,
		jwt:      jwtService,
		toasts:   toasts,
		origin:   uuid.New().String(),
		tracker:  notify.NewTracker(),
	}
	c.user = c.hydrate()
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

func (c *Container) hydrate() *model.User {
	raw, found, err := c.store.Get(storageKey)
	if err != nil {
		log.Printf("[User] failed to read persisted user: %v", err)
		return nil
	}
	if !found || raw == "" {
		return nil
	}
	var u model.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		log.Printf("[User] malformed persisted user: %v", err)
		return nil
	}
	return &u
}

func (c *Container) persist() {
	if c.user == nil {
		if err := c.store.Delete(storageKey); err != nil {
			log.Printf("[User] failed to clear persisted user: %v", err)
		}
		c.publish("")
		return
	}
	data, err := json.Marshal(c.user)
	if err != nil {
		log.Printf("[User] failed to serialize user: %v", err)
		return
	}
	if err := c.store.Set(storageKey, string(data)); err != nil {
		log.Printf("[User] failed to persist user, keeping in-memory state: %v", err)
		return
	}
	c.publish(string(data))
}

func (c *Container) publish(value string) {
	if c.notifier == nil {
		return
	}
	c.rev++
	change := notify.Change{Key: storageKey, Value: value, Rev: c.rev, Origin: c.origin}
	if err := c.notifier.Publish(change); err != nil {
		log.Printf("[User] failed to publish change: %v", err)
	}
}

func (c *Container) onChange(change notify.Change) {
	if c.tracker.Stale(change) {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if change.Value == "" {
		c.user = c.hydrate()
		return
	}
	var u model.User
	if err := json.Unmarshal([]byte(change.Value), &u); err != nil {
		log.Printf("[User] malformed change notification: %v", err)
		return
	}
	c.user = &u
}

// Signup creates a new user, stores the bcrypt hash of the password, and
// issues a session token.
func (c *Container) Signup(name, email, password string) (model.User, string, error) {
	if name == "" || email == "" {
		c.showError("Name and email are required.")
		return model.User{}, "", ErrMissingFields
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		c.showError("Password must be at least 8 characters.")
		return model.User{}, "", err
	}

	u := model.User{
		ID:              uuid.New().String(),
		Name:            name,
		Email:           email,
		PasswordHash:    hash,
		ThemePreference: "light",
		Addresses:       []model.Address{},
	}

	c.mu.Lock()
	c.user = &u
	c.persist()
	c.mu.Unlock()

	token, err := c.issueToken(u)
	if err != nil {
		return model.User{}, "", err
	}
	return u, token, nil
}

// Login retrieves the persisted user when the email matches and the
// password checks out, then issues a session token. With no record at
// all (first visit, or after logout wiped the snapshot) a fresh user is
// constructed from the credentials instead.
func (c *Container) Login(email, password string) (model.User, string, error) {
	if email == "" {
		c.showError("Email is required.")
		return model.User{}, "", ErrMissingFields
	}

	c.mu.Lock()
	stored := c.user
	if stored == nil {
		stored = c.hydrate()
	}
	if stored == nil {
		c.mu.Unlock()
		return c.constructUser(email, password)
	}
	if stored.Email != email || !auth.CheckPassword(password, stored.PasswordHash) {
		c.mu.Unlock()
		c.showError("Invalid email or password.")
		return model.User{}, "", ErrInvalidCredentials
	}
	c.user = stored
	c.persist()
	c.mu.Unlock()

	token, err := c.issueToken(*stored)
	if err != nil {
		return model.User{}, "", err
	}
	return *stored, token, nil
}

// constructUser builds a user record from login credentials, naming the
// account after the email's local part.
func (c *Container) constructUser(email, password string) (model.User, string, error) {
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	return c.Signup(name, email, password)
}

// Logout drops the session and the persisted user snapshot.
func (c *Container) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.user = nil
	c.persist()
}

// ProfileUpdate carries the fields UpdateProfile may merge. Nil fields
// are left untouched.
type ProfileUpdate struct {
	Name            *string `json:"name,omitempty"`
	Email           *string `json:"email,omitempty"`
	PhoneNumber     *string `json:"phoneNumber,omitempty"`
	DateOfBirth     *string `json:"dateOfBirth,omitempty"`
	PhotoURL        *string `json:"photoUrl,omitempty"`
	ThemePreference *string `json:"themePreference,omitempty"`
}

// UpdateProfile merges the given fields into the current user.
func (c *Container) UpdateProfile(update ProfileUpdate) (model.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return model.User{}, ErrNotAuthenticated
	}
	if update.Name != nil {
		c.user.Name = *update.Name
	}
	if update.Email != nil {
		c.user.Email = *update.Email
	}
	if update.PhoneNumber != nil {
		c.user.PhoneNumber = *update.PhoneNumber
	}
	if update.DateOfBirth != nil {
		c.user.DateOfBirth = *update.DateOfBirth
	}
	if update.PhotoURL != nil {
		c.user.PhotoURL = *update.PhotoURL
	}
	if update.ThemePreference != nil {
		c.user.ThemePreference = *update.ThemePreference
	}
	c.persist()
	return *c.user, nil
}

// AddAddress assigns a fresh id and appends the address, enforcing the
// single-default invariant: the first address is always default, and a
// new default clears the flag on every other address.
func (c *Container) AddAddress(addr model.Address) (model.Address, error) {
	if addr.FirstName == "" || addr.Phone == "" || addr.Street == "" {
		c.showError("Please fill in required address fields.")
		return model.Address{}, ErrIncompleteAddress
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil {
		return model.Address{}, ErrNotAuthenticated
	}

	addr.ID = uuid.New().String()
	if len(c.user.Addresses) == 0 {
		addr.IsDefault = true
	} else if addr.IsDefault {
		for i := range c.user.Addresses {
			c.user.Addresses[i].IsDefault = false
		}
	}
	c.user.Addresses = append(c.user.Addresses, addr)
	c.persist()
	return addr, nil
}

// Current returns a copy of the logged-in user.
func (c *Container) Current() (model.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return model.User{}, false
	}
	return *c.user, true
}

// IsAuthenticated reports whether a user is logged in.
func (c *Container) IsAuthenticated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user != nil
}

func (c *Container) issueToken(u model.User) (string, error) {
	if c.jwt == nil {
		return "", nil
	}
	token, _, err := c.jwt.GenerateToken(u.ID, u.Email)
	if err != nil {
		return "", err
	}
	return token, nil
}

func (c *Container) showError(text string) {
	if c.toasts != nil {
		c.toasts.Show(text, toast.SeverityError)
	}
}
