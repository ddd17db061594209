package ports

import "time"

// TokenService issues and validates signed bearer tokens. Tokens are
// stateless: once issued they cannot be revoked before expiry.
type TokenService interface {
	// Issue signs a token asserting subject until now+ttl. A non-positive
	// ttl falls back to the service default.
	Issue(subject string, ttl time.Duration) (string, error)
	// Validate verifies signature and expiry and returns the subject claim.
	// Any structural, signature, expiry, or missing-subject failure yields
	// domain.ErrInvalidToken.
	Validate(token string) (string, error)
}
