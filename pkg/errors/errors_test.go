package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(CodeValidation, "validation failed", http.StatusUnprocessableEntity)

	if err.Code != CodeValidation {
		t.Errorf("expected code %s, got %s", CodeValidation, err.Code)
	}
	if err.Message != "validation failed" {
		t.Errorf("expected message 'validation failed', got %s", err.Message)
	}
	if err.HTTPStatus != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, err.HTTPStatus)
	}
}

func TestWrap(t *testing.T) {
	originalErr := errors.New("database connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if !errors.Is(wrapped, originalErr) {
		t.Errorf("expected wrapped error to unwrap to the original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "something broke",
				Err:     errors.New("disk full"),
			},
			expected: "INTERNAL_ERROR: something broke (caused by: disk full)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Booking", "abc-123")

	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", err.HTTPStatus)
	}
	if err.Details["id"] != "abc-123" {
		t.Errorf("expected id detail 'abc-123', got %v", err.Details["id"])
	}
}

func TestHasCode(t *testing.T) {
	err := InsufficientFunds("balance too low")

	if !HasCode(err, CodeInsufficientFunds) {
		t.Errorf("expected HasCode to match %s", CodeInsufficientFunds)
	}
	if HasCode(err, CodeNotFound) {
		t.Errorf("did not expect HasCode to match %s", CodeNotFound)
	}
	if HasCode(errors.New("plain"), CodeInternal) {
		t.Errorf("plain errors must not match any code")
	}

	wrapped := fmt.Errorf("outer: %w", err)
	if !HasCode(wrapped, CodeInsufficientFunds) {
		t.Errorf("expected HasCode to see through wrapping")
	}
}

func TestAsAppError_PlainError(t *testing.T) {
	appErr := AsAppError(errors.New("boom"))

	if appErr.Code != CodeInternal {
		t.Errorf("expected plain errors to map to %s, got %s", CodeInternal, appErr.Code)
	}
}
