package domain

import "time"

// AccessToken is an opaque bearer credential bound to exactly one user.
// Only a sha256 digest of the secret is stored; the plaintext form
// "<id>|<secret>" is shown to the caller once, at issue time. A user may
// hold several live tokens, each independently revocable.
type AccessToken struct {
	ID         string     `json:"id"`
	UserID     string     `json:"-"`
	Name       string     `json:"name"`
	TokenHash  string     `json:"-"`
	CreatedAt  time.Time  `json:"created_at"`
	LastUsedAt *time.Time `json:"last_used_at"`
}
