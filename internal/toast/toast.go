// Package toast is a single-slot channel for ephemeral user-facing
// messages. At most one subscriber (the on-screen renderer) is active;
// a new message replaces the current one and restarts its dismissal
// timer. Nothing is queued.
package toast

import (
	"sync"
	"time"
)

// Severity classifies a toast message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Message is one displayed toast.
type Message struct {
	Text     string   `json:"text"`
	Severity Severity `json:"severity"`
}

// DisplayDuration is how long a message stays up before auto-dismissal.
const DisplayDuration = 2300 * time.Millisecond

// Bus is an explicitly constructed instance owned by the composition
// root and injected into whatever needs to show messages.
type Bus struct {
	mu       sync.Mutex
	listener func(Message)
	current  *Message
	timer    *time.Timer
	ttl      time.Duration
}

func NewBus() *Bus {
	return &Bus{ttl: DisplayDuration}
}

// NewBusWithTTL builds a bus with a custom display duration. Tests use
// short durations to observe dismissal.
func NewBusWithTTL(ttl time.Duration) *Bus {
	return &Bus{ttl: ttl}
}

// Show publishes a message. An in-flight message is replaced immediately
// and its remaining display time dropped.
func (b *Bus) Show(text string, severity Severity) {
	b.mu.Lock()
	msg := Message{Text: text, Severity: severity}
	b.current = &msg
	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.ttl, func() { b.dismiss(msg) })
	listener := b.listener
	b.mu.Unlock()

	if listener != nil {
		listener(msg)
	}
}

// Subscribe registers the renderer. Registering replaces any previous
// subscriber.
func (b *Bus) Subscribe(fn func(Message)) {
	b.mu.Lock()
	b.listener = fn
	b.mu.Unlock()
}

// Unsubscribe removes the active subscriber.
func (b *Bus) Unsubscribe() {
	b.mu.Lock()
	b.listener = nil
	b.mu.Unlock()
}

// Current returns the message on display, or nil after dismissal.
func (b *Bus) Current() *Message {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return nil
	}
	msg := *b.current
	return &msg
}

// dismiss clears the slot only if msg is still the one on display.
func (b *Bus) dismiss(msg Message) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil && *b.current == msg {
		b.current = nil
	}
}
