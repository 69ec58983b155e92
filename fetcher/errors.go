package fetcher

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// SessionError reports that a new session could not be opened.
type SessionError struct {
	Err error
}

func (e *SessionError) Error() string { return fmt.Sprintf("fetcher: open session: %v", e.Err) }
func (e *SessionError) Unwrap() error { return e.Err }

// NavigationError covers transient page-level failures: detached targets,
// closed sessions, aborted navigations.
type NavigationError struct {
	Err error
}

func (e *NavigationError) Error() string { return fmt.Sprintf("fetcher: navigation: %v", e.Err) }
func (e *NavigationError) Unwrap() error { return e.Err }

// ProtocolError covers transient transport failures between the worker
// and the browser: reset connections, broken websockets.
type ProtocolError struct {
	Err error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("fetcher: protocol: %v", e.Err) }
func (e *ProtocolError) Unwrap() error { return e.Err }

// TimeoutError reports an exhausted navigation deadline. Timeouts are
// terminal: the wait budget was already spent, retrying just spends it
// again.
type TimeoutError struct {
	Err error
}

func (e *TimeoutError) Error() string { return fmt.Sprintf("fetcher: timeout: %v", e.Err) }
func (e *TimeoutError) Unwrap() error { return e.Err }

// IsTransient reports whether a failed attempt is worth a fresh session.
func IsTransient(err error) bool {
	var nav *NavigationError
	var proto *ProtocolError
	return errors.As(err, &nav) || errors.As(err, &proto)
}

// classifyRunError maps a raw chromedp error onto the fetcher taxonomy.
// Unrecognized errors pass through untouched and are treated as terminal.
func classifyRunError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "websocket"),
		strings.Contains(msg, "connection reset"),
		strings.Contains(msg, "broken pipe"),
		strings.Contains(msg, "unexpected eof"),
		strings.Contains(msg, "protocol error"):
		return &ProtocolError{Err: err}
	case strings.Contains(msg, "detached"),
		strings.Contains(msg, "target closed"),
		strings.Contains(msg, "session closed"),
		strings.Contains(msg, "net::err_aborted"):
		return &NavigationError{Err: err}
	}
	return err
}
