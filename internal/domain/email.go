package domain

import (
	"fmt"
	"strings"
)

// EmailAddress is a validated subscriber email. The zero value is invalid;
// construct through ParseEmailAddress.
type EmailAddress struct {
	s string
}

// ParseEmailAddress validates s as an email address. The checks are
// deliberately shallow (non-empty local part, single @, non-empty domain
// with a dot): the confirmation email is the real proof of deliverability.
func ParseEmailAddress(s string) (EmailAddress, error) {
	if strings.TrimSpace(s) == "" {
		return EmailAddress{}, fmt.Errorf("email is empty")
	}
	if strings.ContainsAny(s, " \t\r\n") {
		return EmailAddress{}, fmt.Errorf("email contains whitespace")
	}

	at := strings.Count(s, "@")
	if at != 1 {
		return EmailAddress{}, fmt.Errorf("email must contain exactly one @")
	}

	parts := strings.SplitN(s, "@", 2)
	local, dom := parts[0], parts[1]
	if local == "" {
		return EmailAddress{}, fmt.Errorf("email is missing the part before @")
	}
	if dom == "" || !strings.Contains(dom, ".") || strings.HasPrefix(dom, ".") || strings.HasSuffix(dom, ".") {
		return EmailAddress{}, fmt.Errorf("email domain %q is invalid", dom)
	}

	return EmailAddress{s: s}, nil
}

// String returns the raw address.
func (e EmailAddress) String() string { return e.s }

// IsZero reports whether e was never parsed.
func (e EmailAddress) IsZero() bool { return e.s == "" }
