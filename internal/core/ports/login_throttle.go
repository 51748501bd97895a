package ports

import "context"

// LoginThrottle limits repeated failed logins per email. Implementations are
// best-effort: a throttle backend failure must never block authentication,
// which always re-validates credentials against the authoritative store.
type LoginThrottle interface {
	TooManyAttempts(ctx context.Context, email string) (bool, error)
	RecordFailure(ctx context.Context, email string) error
	Clear(ctx context.Context, email string) error
}
