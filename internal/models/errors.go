// Package models defines the data structures for the claims engine.
package models

import (
	"errors"
	"net/http"
)

// ErrorKind classifies a request failure for HTTP status mapping.
type ErrorKind int

const (
	KindValidation ErrorKind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindConflict
	KindUpstream
)

// HTTPStatus returns the status code for the error kind.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// RequestError is a request failure with a caller-facing message.
// The message is the exact string serialized in the error response body.
type RequestError struct {
	Kind    ErrorKind
	Message string
}

// Error implements the error interface.
func (e *RequestError) Error() string {
	return e.Message
}

// Invalid creates a validation error (400).
func Invalid(message string) *RequestError {
	return &RequestError{Kind: KindValidation, Message: message}
}

// Unauthorized creates an authentication error (401).
func Unauthorized(message string) *RequestError {
	return &RequestError{Kind: KindUnauthorized, Message: message}
}

// Forbidden creates an authorization error (403).
func Forbidden(message string) *RequestError {
	return &RequestError{Kind: KindForbidden, Message: message}
}

// NotFound creates a missing-entity error (404).
func NotFound(message string) *RequestError {
	return &RequestError{Kind: KindNotFound, Message: message}
}

// Conflict creates a duplicate-entity error (409).
func Conflict(message string) *RequestError {
	return &RequestError{Kind: KindConflict, Message: message}
}

// AsRequestError extracts a RequestError from an error chain.
func AsRequestError(err error) (*RequestError, bool) {
	var reqErr *RequestError
	if errors.As(err, &reqErr) {
		return reqErr, true
	}
	return nil, false
}
