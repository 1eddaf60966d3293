package notify

import (
	"log"
	"sync"
)

const subscriberBuffer = 64

type subscription struct {
	key    string
	origin string
	ch     chan Change
	done   chan struct{}
}

// Memory is an in-process Notifier. Sessions living in the same process
// (and tests) share one instance; each subscriber gets its own ordered
// delivery goroutine.
type Memory struct {
	mu   sync.Mutex
	subs map[*subscription]struct{}
	wg   sync.WaitGroup
}

func NewMemory() *Memory {
	return &Memory{subs: make(map[*subscription]struct{})}
}

func (m *Memory) Publish(change Change) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sub := range m.subs {
		if sub.key != change.Key || (sub.origin != "" && sub.origin == change.Origin) {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			// A stalled subscriber loses this delivery; it re-converges
			// on the next one since every change carries the full value.
			log.Printf("[Notify] dropping change for %q: subscriber backlog full", change.Key)
		}
	}
	return nil
}

func (m *Memory) Subscribe(key, origin string, fn func(Change)) func() {
	sub := &subscription{
		key:    key,
		origin: origin,
		ch:     make(chan Change, subscriberBuffer),
		done:   make(chan struct{}),
	}

	m.mu.Lock()
	m.subs[sub] = struct{}{}
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		for {
			select {
			case change := <-sub.ch:
				fn(change)
			case <-sub.done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.subs, sub)
			m.mu.Unlock()
			close(sub.done)
		})
	}
}

// Close waits for all dispatch goroutines to exit. Subscriptions must be
// cancelled first.
func (m *Memory) Close() {
	m.wg.Wait()
}
