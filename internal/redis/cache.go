package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"upipay/internal/domain"
)

// DefaultIntentCacheTTL is used when no TTL is configured.
const DefaultIntentCacheTTL = 30 * time.Second

const intentCachePrefix = "cache:payment_intent:"

// CachedIntent is the JSON form of a payment intent kept in Redis.
type CachedIntent struct {
	ID           int64           `json:"id"`
	OrderID      string          `json:"order_id"`
	Amount       decimal.Decimal `json:"amount"`
	PayeeVPA     string          `json:"payee_vpa"`
	PaymentURI   string          `json:"payment_uri"`
	UTRReference *string         `json:"utr_reference,omitempty"`
	Status       string          `json:"status"`
	CreatedAt    time.Time       `json:"created_at"`
}

// CacheStore handles payment intent caching in Redis.
type CacheStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = DefaultIntentCacheTTL
	}
	return &CacheStore{client: client, ttl: ttl}
}

// GetIntent retrieves a payment intent from cache. A miss returns nil, nil.
func (s *CacheStore) GetIntent(ctx context.Context, orderID string) (*domain.PaymentIntent, error) {
	data, err := s.client.Get(ctx, intentCachePrefix+orderID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var cached CachedIntent
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return cached.toDomain(), nil
}

// SetIntent stores a payment intent in cache.
func (s *CacheStore) SetIntent(ctx context.Context, intent *domain.PaymentIntent) error {
	data, err := json.Marshal(fromDomain(intent))
	if err != nil {
		return err
	}
	return s.client.Set(ctx, intentCachePrefix+intent.OrderID, data, s.ttl).Err()
}

// InvalidateIntent removes a payment intent from cache.
func (s *CacheStore) InvalidateIntent(ctx context.Context, orderID string) error {
	return s.client.Del(ctx, intentCachePrefix+orderID).Err()
}

func fromDomain(p *domain.PaymentIntent) *CachedIntent {
	return &CachedIntent{
		ID:           p.ID,
		OrderID:      p.OrderID,
		Amount:       p.Amount,
		PayeeVPA:     p.PayeeVPA,
		PaymentURI:   p.PaymentURI,
		UTRReference: p.UTRReference,
		Status:       string(p.Status),
		CreatedAt:    p.CreatedAt,
	}
}

func (c *CachedIntent) toDomain() *domain.PaymentIntent {
	return &domain.PaymentIntent{
		ID:           c.ID,
		OrderID:      c.OrderID,
		Amount:       c.Amount,
		PayeeVPA:     c.PayeeVPA,
		PaymentURI:   c.PaymentURI,
		UTRReference: c.UTRReference,
		Status:       domain.PaymentStatus(c.Status),
		CreatedAt:    c.CreatedAt,
	}
}
