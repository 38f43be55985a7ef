// Package errors defines the typed error taxonomy the storefront API speaks.
// Every service returns an *Error carrying one of the codes below; the HTTP
// layer maps the code to a status and decides how much detail a shopper may
// see.
package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
)

// Code identifies a failure class across the storefront services.
type Code string

const (
	CodeValidation    Code = "VALIDATION_ERROR"
	CodeUnauthorized  Code = "UNAUTHORIZED"
	CodeForbidden     Code = "FORBIDDEN"
	CodeNotFound      Code = "NOT_FOUND"
	CodeConflict      Code = "CONFLICT"
	CodeStateConflict Code = "STATE_CONFLICT"
	CodeIdempotency   Code = "IDEMPOTENCY_KEY_REUSED"
	CodeRateLimit     Code = "RATE_LIMIT_EXCEEDED"
	CodeInternal      Code = "INTERNAL_ERROR"
	CodeDependency    Code = "DEPENDENCY_ERROR"
)

// Metadata describes how a code renders at the HTTP boundary. ClientFault
// marks codes caused by the request itself; those may surface the caller's
// message, everything else gets the generic public message only.
type Metadata struct {
	HTTPStatus     int
	ClientFault    bool
	PublicMessage  string
	DetailsAllowed bool
}

func clientFault(status int, publicMessage string, detailsAllowed bool) Metadata {
	return Metadata{
		HTTPStatus:     status,
		ClientFault:    true,
		PublicMessage:  publicMessage,
		DetailsAllowed: detailsAllowed,
	}
}

func serverFault(status int, publicMessage string, detailsAllowed bool) Metadata {
	return Metadata{
		HTTPStatus:     status,
		PublicMessage:  publicMessage,
		DetailsAllowed: detailsAllowed,
	}
}

var metadataByCode = map[Code]Metadata{
	CodeValidation:    clientFault(http.StatusBadRequest, "request failed validation", true),
	CodeUnauthorized:  clientFault(http.StatusUnauthorized, "sign-in required", false),
	CodeForbidden:     clientFault(http.StatusForbidden, "not allowed for this account", false),
	CodeNotFound:      clientFault(http.StatusNotFound, "requested resource was not found", false),
	CodeConflict:      clientFault(http.StatusConflict, "conflicting update detected", false),
	CodeStateConflict: clientFault(http.StatusUnprocessableEntity, "current state does not allow this action", true),
	CodeIdempotency:   clientFault(http.StatusConflict, "idempotency key already used", true),
	CodeRateLimit:     clientFault(http.StatusTooManyRequests, "too many requests", false),
	CodeInternal:      serverFault(http.StatusInternalServerError, "something went wrong", false),
	CodeDependency:    serverFault(http.StatusServiceUnavailable, "a backing service is unavailable", true),
}

// MetadataFor returns the render rules for a code; unknown codes are treated
// as internal so nothing accidental leaks.
func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

// Error is the typed error every storefront service returns. The cause chain
// is preserved for logs; code, message and details drive the API payload.
type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

// WithDetails attaches structured context, e.g. a cart rejection reason or
// the blocking order status. Rendered to clients only when the code allows.
func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// As extracts the typed error from anywhere in the chain, or nil.
func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}
