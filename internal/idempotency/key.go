package idempotency

import "fmt"

// maxKeyLength bounds client-supplied keys; the column is short on purpose,
// clients are expected to send a UUID.
const maxKeyLength = 50

// Key is a validated client-supplied idempotency key (1 to 49 characters).
// The zero value is invalid; construct through ParseKey.
type Key struct {
	s string
}

// ParseKey validates s as an idempotency key.
func ParseKey(s string) (Key, error) {
	if s == "" {
		return Key{}, fmt.Errorf("idempotency key is empty")
	}
	if len(s) >= maxKeyLength {
		return Key{}, fmt.Errorf("idempotency key must be shorter than %d characters", maxKeyLength)
	}
	return Key{s: s}, nil
}

// String returns the raw key.
func (k Key) String() string { return k.s }
