package events

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/primal-host/primal-folio/internal/logging"
)

// Content domains that emit changes.
const (
	DomainHero         = "hero"
	DomainAbout        = "about"
	DomainContact      = "contact"
	DomainSkills       = "skills"
	DomainProjects     = "projects"
	DomainExperiences  = "experiences"
	DomainTestimonials = "testimonials"
)

// Change actions.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// subscriberBuffer is the number of live changes queued per subscriber
// before it is dropped as a slow consumer.
const subscriberBuffer = 256

// ErrClosed is returned by Subscribe after Shutdown.
var ErrClosed = errors.New("events: manager closed")

var timeNow = time.Now

// Change describes one successful content mutation. Key is the category
// id for skills, the numeric id for items, and empty for sections.
type Change struct {
	Seq    int64     `json:"seq"`
	Domain string    `json:"domain"`
	Action string    `json:"action"`
	Key    string    `json:"key,omitempty"`
	Time   time.Time `json:"time"`
}

// Subscription is a live feed of changes. C is never closed; Done is
// closed when the subscription is cancelled, dropped as a slow consumer,
// or the manager shuts down.
type Subscription struct {
	C    <-chan Change
	Done <-chan struct{}

	ch   chan Change
	done chan struct{}
	once sync.Once
	m    *Manager
}

// Cancel unregisters the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	s.m.remove(s)
}

func (s *Subscription) close() {
	s.once.Do(func() { close(s.done) })
}

// Manager handles change sequencing, persistence, and fan-out to
// subscribers.
type Manager struct {
	log Log

	// emitMu keeps broadcast order equal to seq order.
	emitMu sync.Mutex

	mu     sync.RWMutex
	subs   map[*Subscription]struct{}
	closed bool
}

// NewManager creates a Manager. A nil log falls back to an in-memory
// log, so sequence numbers restart with the process.
func NewManager(log Log) *Manager {
	if log == nil {
		log = NewMemoryLog(DefaultMemoryLimit)
	}
	return &Manager{
		log:  log,
		subs: make(map[*Subscription]struct{}),
	}
}

// Emit persists a change and broadcasts it to all subscribers. Returns
// error only if persistence fails.
func (m *Manager) Emit(ctx context.Context, domain, action, key string) (Change, error) {
	m.emitMu.Lock()
	defer m.emitMu.Unlock()

	c, err := m.log.Persist(ctx, Change{Domain: domain, Action: action, Key: key})
	if err != nil {
		return Change{}, fmt.Errorf("events: persist: %w", err)
	}
	m.broadcast(c)
	return c, nil
}

// Subscribe registers a live subscriber. Register before calling Replay
// so no change falls between replay end and live start; the caller must
// skip live changes whose seq it already replayed.
func (m *Manager) Subscribe() (*Subscription, error) {
	ch := make(chan Change, subscriberBuffer)
	done := make(chan struct{})
	sub := &Subscription{C: ch, Done: done, ch: ch, done: done, m: m}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrClosed
	}
	m.subs[sub] = struct{}{}
	return sub, nil
}

// Replay calls fn for every stored change with seq > since.
func (m *Manager) Replay(ctx context.Context, since int64, fn func(Change) error) error {
	return m.log.Replay(ctx, since, fn)
}

// Subscribers returns the number of live subscribers.
func (m *Manager) Subscribers() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.subs)
}

// Shutdown closes every subscription and rejects new ones.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for sub := range m.subs {
		sub.close()
		delete(m.subs, sub)
	}
}

func (m *Manager) remove(sub *Subscription) {
	m.mu.Lock()
	delete(m.subs, sub)
	m.mu.Unlock()
	sub.close()
}

// broadcast sends a change to all subscribers. Slow consumers whose
// buffers are full are dropped; they should reconnect with a cursor.
func (m *Manager) broadcast(c Change) {
	var slow []*Subscription

	m.mu.RLock()
	for sub := range m.subs {
		select {
		case sub.ch <- c:
		default:
			slow = append(slow, sub)
		}
	}
	m.mu.RUnlock()

	for _, sub := range slow {
		logging.Warn().Int64("seq", c.Seq).Msg("events: dropping slow subscriber")
		m.remove(sub)
	}
}
