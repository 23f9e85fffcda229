package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type Kind string

const (
	KindTransient  Kind = "transient"
	KindRateLimit  Kind = "rate_limit"
	KindAuth       Kind = "auth"
	KindValidation Kind = "validation"
	KindBadRequest Kind = "bad_request"
	// KindParse marks a provider body that did not contain the expected JSON payload.
	KindParse    Kind = "parse"
	KindNotFound Kind = "not_found"
)

// Error is the provider error type. Every provider failure surfaces as one.
type Error struct {
	Kind Kind
	// Provider names the upstream service, e.g. "dictionary".
	Provider string
	// SafeMessage is intended for user-facing output and logs.
	SafeMessage string
	// Cause keeps the original internal error for troubleshooting.
	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if msg := strings.TrimSpace(e.SafeMessage); msg != "" {
		return msg
	}
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "unknown error"
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func defaultSafeMessage(kind Kind) string {
	switch kind {
	case KindTransient:
		return "Temporary upstream error. Please try again."
	case KindRateLimit:
		return "Rate limit exceeded. Please try again later."
	case KindAuth:
		return "Authentication failed. Please verify your API key and permissions."
	case KindValidation:
		return "Response validation failed."
	case KindBadRequest:
		return "Request rejected by upstream API."
	case KindParse:
		return "Response did not contain a readable JSON payload."
	case KindNotFound:
		return "No entry found."
	default:
		return "Request failed."
	}
}

func New(kind Kind, safeMessage string, cause error) error {
	msg := strings.TrimSpace(safeMessage)
	if msg == "" {
		msg = defaultSafeMessage(kind)
	}
	return &Error{
		Kind:        kind,
		SafeMessage: msg,
		Cause:       cause,
	}
}

// WithProvider tags err with the provider name when err is an *Error.
func WithProvider(err error, provider string) error {
	var e *Error
	if errors.As(err, &e) && e.Provider == "" {
		e.Provider = provider
	}
	return err
}

func Transient(err error) error {
	return New(KindTransient, "", err)
}

func RateLimit(err error) error {
	return New(KindRateLimit, "", err)
}

func Auth(err error) error {
	return New(KindAuth, "", err)
}

func Validation(err error) error {
	return New(KindValidation, "", err)
}

func BadRequest(err error) error {
	return New(KindBadRequest, "", err)
}

func Parse(err error) error {
	return New(KindParse, "", err)
}

// FromStatus maps an HTTP status code from service to an error kind.
func FromStatus(service string, code int, cause error) error {
	label := strings.TrimSpace(service)
	if label == "" {
		label = "upstream"
	}
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return New(KindAuth, fmt.Sprintf("%s authentication failed (%d).", label, code), cause)
	case code == http.StatusNotFound:
		return New(KindNotFound, fmt.Sprintf("%s has no entry (404).", label), cause)
	case code == http.StatusTooManyRequests:
		return New(KindRateLimit, fmt.Sprintf("%s rate limit exceeded (429).", label), cause)
	case code == http.StatusRequestTimeout || code >= 500:
		return New(KindTransient, fmt.Sprintf("%s temporary error (%d).", label, code), cause)
	default:
		return New(KindBadRequest, fmt.Sprintf("%s request rejected (%d).", label, code), cause)
	}
}

func KindOf(err error) (Kind, bool) {
	var e *Error
	if !errors.As(err, &e) {
		return "", false
	}
	return e.Kind, true
}

func PublicMessage(err error) string {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Error()
	}
	return err.Error()
}

func IsRetryable(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	// Parse failures are LLM output quality issues; a second sample may succeed.
	return e.Kind == KindTransient || e.Kind == KindRateLimit || e.Kind == KindParse
}

func IsRateLimit(err error) bool {
	return hasKind(err, KindRateLimit)
}

func IsParse(err error) bool {
	return hasKind(err, KindParse)
}

func IsNotFound(err error) bool {
	return hasKind(err, KindNotFound)
}

func hasKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
