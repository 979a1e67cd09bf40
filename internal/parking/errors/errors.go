package errors

import "errors"

var (
	ErrNotFound = errors.New("parking slot not found")

	ErrInvalidStatus = errors.New("invalid parking slot status")
)
