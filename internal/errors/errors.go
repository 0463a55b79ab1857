// Copyright (c) 2025 Tag Sense
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package errors defines typed errors with categories for user-friendly reporting.
// Every failed bridge operation returns an *E whose Kind tells the caller which
// step failed: reaching the service, the service's HTTP status, the reply body,
// or the caller's own arguments.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// ConnectionFailure indicates the target could not be reached within the
	// operation timeout, or the transport failed (DNS, refused connection, reset).
	ConnectionFailure Kind = "connection_failure"
	// UpstreamError indicates the target answered with a non-2xx HTTP status.
	UpstreamError Kind = "upstream_error"
	// MalformedResponse indicates a 2xx reply whose body could not be used.
	MalformedResponse Kind = "malformed_response"
	// ValidationError indicates a required argument was missing or empty.
	ValidationError Kind = "validation_error"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	// StatusCode is the HTTP status for UpstreamError, zero otherwise.
	StatusCode int
	Err        error
}

func (e *E) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *E) Unwrap() error { return e.Err }

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Newf is New with a format string.
func Newf(kind Kind, format string, args ...any) *E {
	return &E{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Upstream builds an UpstreamError for the given HTTP status.
func Upstream(status int, target string) *E {
	return &E{
		Kind:       UpstreamError,
		Message:    fmt.Sprintf("%s returned HTTP %d", target, status),
		StatusCode: status,
	}
}

// KindOf returns the Kind of the first *E in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// StatusOf returns the HTTP status carried by an UpstreamError in err's chain.
func StatusOf(err error) int {
	var e *E
	if stderrors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}

// Message returns the human-readable text of err without the kind prefix.
func Message(err error) string {
	var e *E
	if !stderrors.As(err, &e) {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// HasKind reports whether err carries the given kind.
func HasKind(err error, kind Kind) bool { return KindOf(err) == kind }
