package repository

import (
	"context"

	"upipay/internal/domain"
)

// PaymentIntentRepository defines the persistence operations for payment intents.
type PaymentIntentRepository interface {
	// Create persists a new payment intent and assigns its ID.
	// Returns ErrConstraintViolation if the order ID is already taken.
	Create(ctx context.Context, intent *domain.PaymentIntent) error

	// GetByOrderID retrieves a payment intent by its order ID.
	GetByOrderID(ctx context.Context, orderID string) (*domain.PaymentIntent, error)

	// UpdateUTRAndStatus records the UTR and moves the intent to UTR_SUBMITTED.
	// Reports false without error when no intent has the order ID.
	UpdateUTRAndStatus(ctx context.Context, orderID, utr string) (bool, error)

	// Count returns the number of stored payment intents.
	Count(ctx context.Context) (int64, error)
}
