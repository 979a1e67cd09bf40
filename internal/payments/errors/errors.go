package errors

import "errors"

var (
	ErrNotFound = errors.New("payment not found")

	ErrNoCompletedPayment = errors.New("no completed payment for booking")

	ErrAlreadyRefunded = errors.New("payment already refunded")
)
