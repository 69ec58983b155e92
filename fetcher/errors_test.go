package fetcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestClassifyRunError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want string // "timeout" | "protocol" | "navigation" | "passthrough"
	}{
		{"deadline", context.DeadlineExceeded, "timeout"},
		{"wrapped deadline", fmt.Errorf("run: %w", context.DeadlineExceeded), "timeout"},
		{"reset", errors.New("read tcp: connection reset by peer"), "protocol"},
		{"websocket", errors.New("websocket: close 1006"), "protocol"},
		{"detached", errors.New("execution context was detached"), "navigation"},
		{"target closed", errors.New("chrome failed: target closed"), "navigation"},
		{"other", errors.New("invalid selector"), "passthrough"},
		{"canceled", context.Canceled, "passthrough"},
	}

	for _, tt := range tests {
		got := classifyRunError(tt.in)

		var kind string
		var timeoutErr *TimeoutError
		var protoErr *ProtocolError
		var navErr *NavigationError
		switch {
		case errors.As(got, &timeoutErr):
			kind = "timeout"
		case errors.As(got, &protoErr):
			kind = "protocol"
		case errors.As(got, &navErr):
			kind = "navigation"
		default:
			kind = "passthrough"
		}

		if kind != tt.want {
			t.Errorf("%s: classified as %s, want %s", tt.name, kind, tt.want)
		}
	}
}

func TestIsTransient(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		err  error
		want bool
	}{
		{&ProtocolError{Err: base}, true},
		{&NavigationError{Err: base}, true},
		{fmt.Errorf("attempt: %w", &ProtocolError{Err: base}), true},
		{&TimeoutError{Err: base}, false},
		{&SessionError{Err: base}, false},
		{base, false},
		{nil, false},
	}

	for _, tt := range tests {
		if got := IsTransient(tt.err); got != tt.want {
			t.Errorf("IsTransient(%v): got %v, want %v", tt.err, got, tt.want)
		}
	}
}
