package redis

import (
	"context"

	"upipay/internal/domain"
)

// IntentCacheInterface defines the cache operations used by the payment service.
type IntentCacheInterface interface {
	GetIntent(ctx context.Context, orderID string) (*domain.PaymentIntent, error)
	SetIntent(ctx context.Context, intent *domain.PaymentIntent) error
	InvalidateIntent(ctx context.Context, orderID string) error
}

// Ensure concrete types implement interfaces.
var _ IntentCacheInterface = (*CacheStore)(nil)
