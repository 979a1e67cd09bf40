package errors

import "errors"

var (
	ErrNotFound = errors.New("user not found")

	ErrEmailTaken = errors.New("email already registered")

	ErrInsufficientFunds = errors.New("balance too low for transfer")
)
