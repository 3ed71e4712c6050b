package domain

import "errors"

var ErrSigningKey = errors.New("signing key unavailable")
var ErrInvalidToken = errors.New("invalid token")

// Identity is the authenticated caller extracted from a verified token.
// No operation runs with a partially populated identity: both fields are
// guaranteed non-empty after a successful Verify.
type Identity struct {
	SubjectID string
	Role      Role
}
