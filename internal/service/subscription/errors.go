package subscription

import "errors"

var (
	// ErrDuplicateEmail indicates the email address already has a subscriber row.
	ErrDuplicateEmail = errors.New("email already subscribed")

	// ErrTokenNotFound indicates a confirmation token with no matching row.
	ErrTokenNotFound = errors.New("subscription token not found")

	// ErrNotFound indicates the requested subscriber does not exist.
	ErrNotFound = errors.New("subscriber not found")
)
