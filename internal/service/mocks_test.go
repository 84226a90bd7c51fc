package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"upipay/internal/domain"
	"upipay/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK PAYMENT INTENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentIntentRepository is an in-memory PaymentIntentRepository.
type MockPaymentIntentRepository struct {
	mu      sync.RWMutex
	intents map[string]*domain.PaymentIntent
	nextID  int64

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
	GetError    error
}

// NewMockPaymentIntentRepository creates a new mock repository.
func NewMockPaymentIntentRepository() *MockPaymentIntentRepository {
	return &MockPaymentIntentRepository{
		intents: make(map[string]*domain.PaymentIntent),
	}
}

func (m *MockPaymentIntentRepository) Create(ctx context.Context, intent *domain.PaymentIntent) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.intents[intent.OrderID]; ok {
		return fmt.Errorf("insert payment intent %s: %w", intent.OrderID, repository.ErrConstraintViolation)
	}
	m.nextID++
	intent.ID = m.nextID
	copy := *intent
	m.intents[intent.OrderID] = &copy
	return nil
}

func (m *MockPaymentIntentRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentIntent, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	intent, ok := m.intents[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *intent
	return &copy, nil
}

func (m *MockPaymentIntentRepository) UpdateUTRAndStatus(ctx context.Context, orderID, utr string) (bool, error) {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return false, m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	intent, ok := m.intents[orderID]
	if !ok {
		return false, nil
	}
	intent.UTRReference = &utr
	intent.Status = domain.PaymentStatusUTRSubmitted
	return true, nil
}

func (m *MockPaymentIntentRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.intents)), nil
}

// Snapshot returns copies of all stored intents.
func (m *MockPaymentIntentRepository) Snapshot() map[string]domain.PaymentIntent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]domain.PaymentIntent, len(m.intents))
	for k, v := range m.intents {
		out[k] = *v
	}
	return out
}

// ──────────────────────────────────────────────
// MOCK INTENT CACHE
// ──────────────────────────────────────────────

// MockIntentCache is an in-memory IntentCacheInterface.
type MockIntentCache struct {
	mu      sync.Mutex
	intents map[string]*domain.PaymentIntent

	GetCallCount        int32
	InvalidateCallCount int32

	GetError error
}

// NewMockIntentCache creates a new mock cache.
func NewMockIntentCache() *MockIntentCache {
	return &MockIntentCache{intents: make(map[string]*domain.PaymentIntent)}
}

func (c *MockIntentCache) GetIntent(ctx context.Context, orderID string) (*domain.PaymentIntent, error) {
	atomic.AddInt32(&c.GetCallCount, 1)
	if c.GetError != nil {
		return nil, c.GetError
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	intent, ok := c.intents[orderID]
	if !ok {
		return nil, nil
	}
	copy := *intent
	return &copy, nil
}

func (c *MockIntentCache) SetIntent(ctx context.Context, intent *domain.PaymentIntent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	copy := *intent
	c.intents[intent.OrderID] = &copy
	return nil
}

func (c *MockIntentCache) InvalidateIntent(ctx context.Context, orderID string) error {
	atomic.AddInt32(&c.InvalidateCallCount, 1)
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.intents, orderID)
	return nil
}

// Has reports whether an order is cached.
func (c *MockIntentCache) Has(orderID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.intents[orderID]
	return ok
}

// ──────────────────────────────────────────────
// CLOCK AND ORDER ID STUBS
// ──────────────────────────────────────────────

// stepClock returns start, start+step, start+2*step, ...
type stepClock struct {
	mu   sync.Mutex
	next time.Time
	step time.Duration
}

func newStepClock(start time.Time, step time.Duration) *stepClock {
	return &stepClock{next: start, step: step}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.next
	c.next = c.next.Add(c.step)
	return now
}

// sequenceOrderIDs hands out the given IDs in order, then repeats the last one.
type sequenceOrderIDs struct {
	mu  sync.Mutex
	ids []string
	pos int
}

func (g *sequenceOrderIDs) NewOrderID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	id := g.ids[g.pos]
	if g.pos < len(g.ids)-1 {
		g.pos++
	}
	return id
}
