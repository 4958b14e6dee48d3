package domain

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"
)

// maxNameGraphemes bounds the display name length in user-perceived
// characters (grapheme clusters), not bytes or runes.
const maxNameGraphemes = 256

var forbiddenNameCharacters = []rune{'/', '(', ')', '"', '<', '>', '\\', '{', '}'}

// SubscriberName is a validated display name. The zero value is invalid;
// construct through ParseSubscriberName.
type SubscriberName struct {
	s string
}

// ParseSubscriberName validates s as a display name:
// non-empty after trimming, at most 256 grapheme clusters, and none of
// the characters /()"<>\{}.
func ParseSubscriberName(s string) (SubscriberName, error) {
	if strings.TrimSpace(s) == "" {
		return SubscriberName{}, fmt.Errorf("name is empty")
	}
	if uniseg.GraphemeClusterCount(s) > maxNameGraphemes {
		return SubscriberName{}, fmt.Errorf("name exceeds %d characters", maxNameGraphemes)
	}
	for _, r := range s {
		for _, f := range forbiddenNameCharacters {
			if r == f {
				return SubscriberName{}, fmt.Errorf("name contains forbidden character %q", f)
			}
		}
	}
	return SubscriberName{s: s}, nil
}

// String returns the raw name.
func (n SubscriberName) String() string { return n.s }
