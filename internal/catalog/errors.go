// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"errors"
	"fmt"
)

// TransportError reports that the request never produced an HTTP response:
// connection failures, timeouts, cancellation, or rate-limiter waits that
// were cut short.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string { return fmt.Sprintf("catalog transport: %v", e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }

// HTTPStatusError reports a response whose status is outside 200-299.
type HTTPStatusError struct {
	StatusCode int
	// Detail is the upstream error description when the body carried one.
	Detail string
}

func (e *HTTPStatusError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("catalog returned HTTP %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("catalog returned HTTP %d", e.StatusCode)
}

// DecodeError reports a response body that is not the expected JSON shape.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string { return fmt.Sprintf("decoding catalog response: %v", e.Err) }
func (e *DecodeError) Unwrap() error { return e.Err }

// Retryable reports whether err is one of the catalog failure kinds that
// should be shown to the user as a generic "try again" message.
func Retryable(err error) bool {
	var te *TransportError
	var he *HTTPStatusError
	var de *DecodeError
	return errors.As(err, &te) || errors.As(err, &he) || errors.As(err, &de)
}
