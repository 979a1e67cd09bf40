package errors

import "errors"

var (
	ErrNotFound = errors.New("booking not found")

	ErrSlotUnavailable = errors.New("parking slot is not open for booking")
)
