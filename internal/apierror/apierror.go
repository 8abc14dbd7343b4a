// Package apierror defines the single tagged error value every catalog
// failure is classified into. Classification happens once, at the access
// service boundary; downstream layers only inspect the resulting value.
package apierror

import (
	"context"
	"fmt"
	"net"
	"net/url"

	"github.com/go-faster/errors"
)

// Kind discriminates the error union.
type Kind string

const (
	KindNetwork      Kind = "network"
	KindValidation   Kind = "validation"
	KindUnauthorized Kind = "unauthorized"
	KindNotFound     Kind = "notfound"
	KindRateLimit    Kind = "ratelimit"
	KindServer       Kind = "server"
	KindUnknown      Kind = "unknown"
)

// userMessages holds the one fixed user-facing message per kind.
var userMessages = map[Kind]string{
	KindNetwork:      "Connection failed. Please check your internet connection and try again.",
	KindValidation:   "We received unexpected data. Please try again later.",
	KindUnauthorized: "You are not authorized to access this resource.",
	KindNotFound:     "The requested resource was not found.",
	KindRateLimit:    "Too many requests. Please wait a moment and try again.",
	KindServer:       "The server encountered an error. Please try again.",
	KindUnknown:      "Something went wrong. Please try again.",
}

// Error is a tagged union carrying everything the presentation layer needs
// to display exactly one failure at a time.
type Error struct {
	Kind        Kind
	Message     string
	Status      int
	Code        string
	IsRetryable bool
	RetryCount  int
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Surface collapses the full kind set onto the four displayable
// categories the presentation layer understands.
func (e *Error) Surface() Kind {
	switch e.Kind {
	case KindNetwork, KindValidation, KindServer:
		return e.Kind
	case KindRateLimit:
		return KindServer
	default:
		return KindUnknown
	}
}

// Message returns the fixed user-facing string for the given kind.
func Message(kind Kind) string {
	return userMessages[kind]
}

// Network builds a retryable connection-level error.
func Network(detail string) *Error {
	return &Error{
		Kind:        KindNetwork,
		Message:     userMessages[KindNetwork],
		Code:        detail,
		IsRetryable: true,
	}
}

// Validation builds a non-retryable malformed-data error. Validation
// failures never become retryable: re-requesting the same broken payload
// cannot succeed.
func Validation(detail string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: userMessages[KindValidation],
		Code:    detail,
	}
}

// FromStatus maps an HTTP status code onto the taxonomy. Retryability is a
// pure function of the status: 401/403/404 never retry, 429 and 5xx do,
// and unknown statuses default to retryable.
func FromStatus(status int) *Error {
	kind := kindForStatus(status)
	return &Error{
		Kind:        kind,
		Message:     userMessages[kind],
		Status:      status,
		Code:        fmt.Sprintf("HTTP_%d", status),
		IsRetryable: retryableStatus(status),
	}
}

func kindForStatus(status int) Kind {
	switch {
	case status == 400:
		return KindValidation
	case status == 401 || status == 403:
		return KindUnauthorized
	case status == 404:
		return KindNotFound
	case status == 429:
		return KindRateLimit
	case status >= 500 && status < 600:
		return KindServer
	default:
		return KindUnknown
	}
}

func retryableStatus(status int) bool {
	switch {
	case status == 400, status == 401, status == 403, status == 404:
		return false
	default:
		return true
	}
}

// Classify converts an arbitrary failure into the taxonomy. Already
// classified errors pass through unchanged; transport-level failures
// become network errors; anything else is unknown and retryable.
func Classify(err error) *Error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr
	}

	if errors.Is(err, context.Canceled) {
		return &Error{
			Kind:    KindNetwork,
			Message: userMessages[KindNetwork],
			Code:    "CANCELED",
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return Network("TIMEOUT")
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Network("NETWORK_ERROR")
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return Network("NETWORK_ERROR")
	}

	return &Error{
		Kind:        KindUnknown,
		Message:     userMessages[KindUnknown],
		Code:        "UNKNOWN",
		IsRetryable: true,
	}
}

// ValidateResponse rejects empty response bodies and bodies missing any of
// the required fields. A nil return means the body passed.
func ValidateResponse(body map[string]any, required ...string) *Error {
	if len(body) == 0 {
		return Validation("EMPTY_RESPONSE")
	}
	for _, field := range required {
		if v, ok := body[field]; !ok || v == nil {
			return Validation("MISSING_FIELD_" + field)
		}
	}
	return nil
}
