package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the current status of a payment intent.
type PaymentStatus string

const (
	PaymentStatusPending      PaymentStatus = "PENDING"
	PaymentStatusUTRSubmitted PaymentStatus = "UTR_SUBMITTED"
)

// CurrencyINR is the only currency payment links are issued in.
const CurrencyINR = "INR"

// PaymentIntent is a UPI payment request issued to a payer.
type PaymentIntent struct {
	ID           int64
	OrderID      string
	Amount       decimal.Decimal
	PayeeVPA     string
	PaymentURI   string
	UTRReference *string // nil until the payer submits a UTR
	Status       PaymentStatus
	CreatedAt    time.Time
}

// UTR returns the submitted UTR or an empty string.
func (p *PaymentIntent) UTR() string {
	if p.UTRReference == nil {
		return ""
	}
	return *p.UTRReference
}
