package service

import "errors"

var (
	// ErrInvalidOrderID is returned when an order ID is empty.
	ErrInvalidOrderID = errors.New("invalid order id")

	// ErrOrderIDExhausted is returned when every generated order ID collided.
	ErrOrderIDExhausted = errors.New("could not allocate a unique order id")

	// ErrInvalidQRSize is returned when a QR code size is out of range.
	ErrInvalidQRSize = errors.New("invalid qr code size")
)
