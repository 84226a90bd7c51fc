package service

import (
	"fmt"

	"github.com/shopspring/decimal"

	"upipay/internal/domain"
)

// Payee identifies who receives UPI payments.
type Payee struct {
	VPA        string // pa
	Name       string // pn
	NotePrefix string // tn is NotePrefix_orderID
}

// BuildPaymentURI renders the upi://pay link for an order.
// Values are inserted verbatim into the fixed template.
func BuildPaymentURI(payee Payee, amount decimal.Decimal, orderID string) string {
	return fmt.Sprintf(
		"upi://pay?pa=%s&pn=%s&am=%s&cu=%s&tn=%s_%s",
		payee.VPA,
		payee.Name,
		amount.StringFixed(2),
		domain.CurrencyINR,
		payee.NotePrefix,
		orderID,
	)
}
