package client

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrBaseURLInvalid indicates the API base URL is not an absolute http(s) URL.
	ErrBaseURLInvalid = errors.New("client: base url must be an absolute http or https url")
	// ErrIDRequired indicates an operation was called without a post id.
	ErrIDRequired = errors.New("client: post id is required")
)

const msgPostNotFound = "Post not found"

// Error describes a failed API call. Message is safe to show to readers.
type Error struct {
	Category goerrors.Category
	Status   int
	Message  string
	cause    error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsNotFound reports whether err describes a missing post.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Category == goerrors.CategoryNotFound
}

// IsNetworkFailure reports whether err came from the transport or a non-2xx response.
func IsNetworkFailure(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Category == goerrors.CategoryExternal
}

func notFound(status int) *Error {
	return &Error{
		Category: goerrors.CategoryNotFound,
		Status:   status,
		Message:  msgPostNotFound,
	}
}

func networkFailure(message string, status int, cause error) *Error {
	return &Error{
		Category: goerrors.CategoryExternal,
		Status:   status,
		Message:  message,
		cause:    cause,
	}
}

func statusFailure(what string, status int) *Error {
	return networkFailure(fmt.Sprintf("Failed to fetch %s: %d", what, status), status, nil)
}

func rejected(status int, message string) *Error {
	return &Error{
		Category: goerrors.CategoryValidation,
		Status:   status,
		Message:  message,
	}
}
