package common

import (
	"errors"
	"net/http"
)

// ErrorKind is the machine-distinguishable error class carried by every
// failed API response. Kinds double as i18n message keys.
type ErrorKind string

const (
	KindInvalidInput       ErrorKind = "invalid_input"
	KindUnauthorized       ErrorKind = "unauthorized"
	KindForbidden          ErrorKind = "forbidden"
	KindNotFound           ErrorKind = "not_found"
	KindGone               ErrorKind = "gone"
	KindConflict           ErrorKind = "conflict"
	KindCodeConflict       ErrorKind = "code_conflict"
	KindExhaustedNamespace ErrorKind = "exhausted_namespace"
	KindStoreUnavailable   ErrorKind = "store_unavailable"
	KindInternal           ErrorKind = "internal"
)

// APIError attaches a kind and a message key to an error so handlers can map
// service failures onto HTTP statuses without string matching.
type APIError struct {
	Kind    ErrorKind
	Message string // message key, translated at the edge
	Err     error  // optional cause
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

func NewError(kind ErrorKind, message string) *APIError {
	return &APIError{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *APIError {
	return &APIError{Kind: kind, Message: message, Err: err}
}

// StatusForKind maps an error kind to its conventional HTTP status.
func StatusForKind(kind ErrorKind) int {
	switch kind {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindGone:
		return http.StatusGone
	case KindConflict, KindCodeConflict:
		return http.StatusConflict
	case KindStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// KindOf extracts the kind from an error chain, KindInternal if absent.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindInternal
}
