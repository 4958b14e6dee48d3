// Package subscription implements the double opt-in signup flow: storing
// pending subscribers together with their confirmation tokens, sending the
// confirmation email, and promoting subscribers to confirmed when a token
// is redeemed.
package subscription
