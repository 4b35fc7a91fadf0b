package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
)

const (
	opList       = "list"
	opCreate     = "create"
	opGet        = "get"
	opUpdate     = "update_status"
	opUploadFile = "upload_photo"
)

// Error is an upstream failure classified at the store boundary.
// Message is safe to show to clients: it never carries credentials or raw
// upstream text, except the reason WordPress gave for rejecting a payload.
// The raw answer stays in Err.
type Error struct {
	Op      string
	Kind    error
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// responseError is a non-2xx answer from the upstream API.
type responseError struct {
	Status  int
	Code    string
	Message string
}

func (e *responseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d", e.Status)
}

func classify(op string, err error) *Error {
	var already *Error
	if errors.As(err, &already) {
		return already
	}

	e := &Error{Op: op, Kind: ErrUpstream, Err: err}

	var re *responseError
	switch {
	case errors.As(err, &re):
		e.Status = re.Status
		switch re.Status {
		case http.StatusUnauthorized:
			e.Kind = ErrAuthentication
		case http.StatusForbidden:
			e.Kind = ErrPermission
		case http.StatusNotFound:
			e.Kind = ErrNotFound
		case http.StatusBadRequest:
			e.Kind = ErrInvalidPayload
		}
	case isTransport(err):
		e.Kind = ErrTransport
	}

	e.Message = message(op, e.Kind, detail(err))
	return e
}

func isTransport(err error) bool {
	var ue *url.Error
	var ne net.Error
	return errors.As(err, &ue) || errors.As(err, &ne) || errors.Is(err, context.DeadlineExceeded)
}

func detail(err error) string {
	var re *responseError
	if errors.As(err, &re) {
		if re.Message != "" {
			return re.Message
		}
		return fmt.Sprintf("HTTP %d", re.Status)
	}
	return "unexpected response from WordPress"
}

func message(op string, kind error, detail string) string {
	if kind == ErrTransport {
		return "Cannot connect to WordPress. Please check the WordPress URL."
	}

	switch op {
	case opList:
		switch kind {
		case ErrAuthentication:
			return "WordPress authentication failed. Please check your credentials."
		case ErrNotFound:
			return "Reviews endpoint not found. Please ensure the Reviews custom post type is properly configured."
		}
		return "Failed to fetch reviews from WordPress."
	case opCreate:
		switch kind {
		case ErrAuthentication:
			return "WordPress authentication failed. Cannot create review."
		case ErrPermission:
			return "Permission denied. User may not have rights to create reviews."
		case ErrInvalidPayload:
			if detail == "" {
				detail = "Invalid review data"
			}
			return "WordPress validation error: " + detail
		}
		return "Failed to create review in WordPress."
	case opGet:
		if kind == ErrNotFound {
			return "Review not found"
		}
	case opUpdate:
		if kind == ErrNotFound {
			return "Review not found"
		}
		if kind == ErrPermission {
			return "Permission denied. User may not have rights to moderate reviews."
		}
	}

	switch kind {
	case ErrAuthentication:
		return "WordPress authentication failed. Please check your credentials."
	case ErrPermission:
		return "Permission denied by WordPress."
	case ErrInvalidPayload:
		return "WordPress validation error: " + detail
	}
	switch op {
	case opGet:
		return "Failed to fetch review from WordPress."
	case opUpdate:
		return "Failed to update review status in WordPress."
	}
	return "WordPress request failed."
}
