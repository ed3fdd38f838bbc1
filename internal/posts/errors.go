package posts

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

var (
	ErrPostNotFound   = errors.New("posts: post not found")
	ErrPostIDRequired = errors.New("posts: post id required")
	ErrMissingFields  = errors.New("posts: missing required fields")
	ErrCorruptRecord  = errors.New("posts: stored record is not a valid post")
)

const (
	postValidationCode = "POST_VALIDATION_FAILED"
	postMissingFields  = "POST_MISSING_FIELDS"
)

func wrapValidationError(sentinel, cause error) error {
	if cause != nil && goerrors.IsWrapped(cause) {
		return cause
	}
	code := postValidationCode
	if errors.Is(sentinel, ErrMissingFields) {
		code = postMissingFields
	}
	return goerrors.Wrap(errors.Join(sentinel, cause), goerrors.CategoryValidation, sentinel.Error()).
		WithTextCode(code)
}
