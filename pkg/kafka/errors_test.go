package kafka

import (
	"errors"
	"fmt"
	"testing"
)

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"connection refused", errors.New("dial tcp 10.0.0.1:9092: connect: connection refused"), ErrorTypeTransient},
		{"deadline exceeded", errors.New("context deadline exceeded"), ErrorTypeTransient},
		{"io timeout", errors.New("read tcp: i/o timeout"), ErrorTypeTransient},
		{"broken pipe", errors.New("write: broken pipe"), ErrorTypeTransient},
		{"malformed payload", errors.New("invalid message format"), ErrorTypePermanent},
		{"tagged transient", NewTransientError("write failed", errors.New("whatever")), ErrorTypeTransient},
		{"tagged permanent", NewPermanentError("write failed", errors.New("whatever")), ErrorTypePermanent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyError_WrappedKafkaError(t *testing.T) {
	inner := NewTransientError("write failed", errors.New("broker down"))
	wrapped := fmt.Errorf("publish: %w", inner)

	if got := ClassifyError(wrapped); got != ErrorTypeTransient {
		t.Errorf("classification must survive wrapping, got %v", got)
	}
}

func TestKafkaErrorUnwrap(t *testing.T) {
	cause := errors.New("broker down")
	err := NewTransientError("write failed", cause)

	if !errors.Is(err, cause) {
		t.Error("expected the original cause to be reachable via errors.Is")
	}
	if !err.IsTransient() {
		t.Error("expected a transient error")
	}
}

func TestRetryCountHeader(t *testing.T) {
	msg := NewMessage().WithKey("k").WithValue(map[string]string{"a": "b"}).Build()

	if got := msg.GetRetryCount(); got != 0 {
		t.Errorf("fresh message must have retry count 0, got %d", got)
	}

	msg.IncrementRetryCount()
	msg.IncrementRetryCount()
	if got := msg.GetRetryCount(); got != 2 {
		t.Errorf("expected retry count 2, got %d", got)
	}
}
