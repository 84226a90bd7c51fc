package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	qrcode "github.com/skip2/go-qrcode"

	"upipay/internal/domain"
	"upipay/internal/logger"
	"upipay/internal/metrics"
	internalRedis "upipay/internal/redis"
	"upipay/internal/repository"
)

// maxOrderIDAttempts bounds regeneration after order ID collisions.
const maxOrderIDAttempts = 5

// QR code size bounds in pixels.
const (
	MinQRSize     = 128
	MaxQRSize     = 1024
	DefaultQRSize = 256
)

// PaymentServiceParams carries the dependencies of PaymentService.
// Cache, Metrics, Logger, Clock and OrderIDs are optional.
type PaymentServiceParams struct {
	Repo     repository.PaymentIntentRepository
	Cache    internalRedis.IntentCacheInterface
	Metrics  *metrics.PaymentMetrics
	Logger   *logger.Logger
	Clock    domain.Clock
	OrderIDs OrderIDGenerator
	Payee    Payee
	Amount   decimal.Decimal
}

// PaymentService creates payment intents and records UTR submissions.
type PaymentService struct {
	repo     repository.PaymentIntentRepository
	cache    internalRedis.IntentCacheInterface
	metrics  *metrics.PaymentMetrics
	log      *logger.Logger
	clock    domain.Clock
	orderIDs OrderIDGenerator
	payee    Payee
	amount   decimal.Decimal
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(p PaymentServiceParams) *PaymentService {
	s := &PaymentService{
		repo:     p.Repo,
		cache:    p.Cache,
		metrics:  p.Metrics,
		log:      p.Logger,
		clock:    p.Clock,
		orderIDs: p.OrderIDs,
		payee:    p.Payee,
		amount:   p.Amount,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	if s.clock == nil {
		s.clock = domain.SystemClock{}
	}
	if s.orderIDs == nil {
		s.orderIDs = NewUUIDOrderIDGenerator(DefaultOrderIDLength)
	}
	return s
}

// CreatePaymentIntent issues a new PENDING payment intent with a fresh order ID.
// Colliding order IDs are regenerated; other storage errors are returned as is.
func (s *PaymentService) CreatePaymentIntent(ctx context.Context) (*domain.PaymentIntent, error) {
	for attempt := 1; attempt <= maxOrderIDAttempts; attempt++ {
		orderID := s.orderIDs.NewOrderID()

		intent := &domain.PaymentIntent{
			OrderID:    orderID,
			Amount:     s.amount,
			PayeeVPA:   s.payee.VPA,
			PaymentURI: BuildPaymentURI(s.payee, s.amount, orderID),
			Status:     domain.PaymentStatusPending,
			CreatedAt:  s.clock.Now(),
		}

		err := s.repo.Create(ctx, intent)
		if err == nil {
			s.metrics.IncCreated()
			s.log.Info(s.log.WithField(ctx, "order_id", orderID), "payment intent created")
			return intent, nil
		}

		if !errors.Is(err, repository.ErrConstraintViolation) {
			return nil, err
		}

		s.metrics.IncCollision()
		s.log.Warn(s.log.WithFields(ctx, map[string]any{
			"order_id": orderID,
			"attempt":  attempt,
		}), "order id collision, regenerating")
	}

	return nil, ErrOrderIDExhausted
}

// SubmitUTR records a self-reported UTR against an order.
// It reports whether the order existed; an unknown order is not an error.
func (s *PaymentService) SubmitUTR(ctx context.Context, orderID, utr string) (bool, error) {
	ctx = s.log.WithField(ctx, "order_id", orderID)

	updated, err := s.repo.UpdateUTRAndStatus(ctx, orderID, utr)
	if err != nil {
		return false, fmt.Errorf("submit utr: %w", err)
	}

	if !updated {
		s.metrics.IncSubmission(metrics.ResultNotFound)
		s.log.Warn(ctx, "utr submitted for unknown order")
		return false, nil
	}

	s.metrics.IncSubmission(metrics.ResultUpdated)
	s.log.Info(ctx, "utr submitted")

	if s.cache != nil {
		if err := s.cache.InvalidateIntent(ctx, orderID); err != nil {
			s.log.Error(ctx, "failed to invalidate cached payment intent", err)
		}
	}

	return true, nil
}

// GetPaymentIntent retrieves a payment intent by order ID, consulting the cache first.
func (s *PaymentService) GetPaymentIntent(ctx context.Context, orderID string) (*domain.PaymentIntent, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	if s.cache != nil {
		cached, err := s.cache.GetIntent(ctx, orderID)
		if err != nil {
			s.log.Error(s.log.WithField(ctx, "order_id", orderID), "payment intent cache read failed", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	intent, err := s.repo.GetByOrderID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	// A pending intent can change under a concurrent submission, so only
	// submitted intents are cached.
	if s.cache != nil && intent.Status != domain.PaymentStatusPending {
		if err := s.cache.SetIntent(ctx, intent); err != nil {
			s.log.Error(s.log.WithField(ctx, "order_id", orderID), "payment intent cache write failed", err)
		}
	}

	return intent, nil
}

// QRCode renders the payment URI of an order as a PNG.
func (s *PaymentService) QRCode(ctx context.Context, orderID string, size int) ([]byte, error) {
	if size < MinQRSize || size > MaxQRSize {
		return nil, ErrInvalidQRSize
	}

	intent, err := s.GetPaymentIntent(ctx, orderID)
	if err != nil {
		return nil, err
	}

	return EncodeQR(intent.PaymentURI, size)
}

// EncodeQR encodes content as a square PNG QR code.
func EncodeQR(content string, size int) ([]byte, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("encode qr code: %w", err)
	}
	return png, nil
}
