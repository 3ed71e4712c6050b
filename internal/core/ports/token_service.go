package ports

import "github.com/salonbook/booking-api/internal/core/domain"

// TokenService issues and verifies signed identity tokens. Implementations
// must reject any token not produced under the current key with
// domain.ErrInvalidToken.
type TokenService interface {
	// Issue signs {subject-id, role} under the process key.
	Issue(subjectID string, role domain.Role) (string, error)
	// Verify authenticates the token and returns the embedded identity.
	Verify(token string) (*domain.Identity, error)
}
