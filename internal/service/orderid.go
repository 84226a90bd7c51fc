package service

import (
	"strings"

	"github.com/google/uuid"
)

// Order ID length bounds. A UUID has 32 hex digits.
const (
	MinOrderIDLength     = 4
	MaxOrderIDLength     = 32
	DefaultOrderIDLength = 8
)

// OrderIDGenerator produces candidate order IDs.
type OrderIDGenerator interface {
	NewOrderID() string
}

// UUIDOrderIDGenerator takes the leading hex digits of a random v4 UUID.
type UUIDOrderIDGenerator struct {
	length int
}

// NewUUIDOrderIDGenerator creates a generator; out of range lengths fall back to the default.
func NewUUIDOrderIDGenerator(length int) *UUIDOrderIDGenerator {
	if length < MinOrderIDLength || length > MaxOrderIDLength {
		length = DefaultOrderIDLength
	}
	return &UUIDOrderIDGenerator{length: length}
}

func (g *UUIDOrderIDGenerator) NewOrderID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return hex[:g.length]
}
