package service

import (
	"crypto/rsa"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/salonbook/booking-api/internal/core/domain"
	"github.com/salonbook/booking-api/internal/core/ports"
)

// identityClaims is the signed token payload. No expiry claim is set: tokens
// stay valid until the signing key rotates. Known gap carried over from the
// previous deployment, documented in DESIGN.md.
type identityClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func identityFromClaims(claims *identityClaims) (*domain.Identity, error) {
	role := domain.Role(claims.Role)
	if claims.Subject == "" || !role.Valid() {
		return nil, domain.ErrInvalidToken
	}
	return &domain.Identity{SubjectID: claims.Subject, Role: role}, nil
}

// HMACTokenService signs and verifies identity tokens with a shared secret (HS256).
type HMACTokenService struct {
	secret []byte
}

func NewHMACTokenService(secret string) *HMACTokenService {
	return &HMACTokenService{secret: []byte(secret)}
}

func (s *HMACTokenService) Issue(subjectID string, role domain.Role) (string, error) {
	if len(s.secret) == 0 {
		return "", domain.ErrSigningKey
	}
	claims := identityClaims{
		Role:             string(role),
		RegisteredClaims: jwt.RegisteredClaims{Subject: subjectID},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		// never echo the underlying error: it may reference key material
		return "", domain.ErrSigningKey
	}
	return signed, nil
}

func (s *HMACTokenService) Verify(token string) (*domain.Identity, error) {
	if len(s.secret) == 0 {
		return nil, domain.ErrSigningKey
	}
	claims := &identityClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	return identityFromClaims(claims)
}

// RSATokenService signs with an RSA private key and verifies with the public
// key (RS256). Verify-only deployments may construct it with just the public
// half; Issue then fails with domain.ErrSigningKey.
type RSATokenService struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
}

func NewRSATokenService(privatePEM, publicPEM []byte) (*RSATokenService, error) {
	svc := &RSATokenService{}

	if len(privatePEM) > 0 {
		key, err := jwt.ParseRSAPrivateKeyFromPEM(privatePEM)
		if err != nil {
			return nil, domain.ErrSigningKey
		}
		svc.privateKey = key
		svc.publicKey = &key.PublicKey
	}
	if len(publicPEM) > 0 {
		key, err := jwt.ParseRSAPublicKeyFromPEM(publicPEM)
		if err != nil {
			return nil, domain.ErrSigningKey
		}
		svc.publicKey = key
	}
	if svc.publicKey == nil {
		return nil, domain.ErrSigningKey
	}
	return svc, nil
}

func (s *RSATokenService) Issue(subjectID string, role domain.Role) (string, error) {
	if s.privateKey == nil {
		return "", domain.ErrSigningKey
	}
	claims := identityClaims{
		Role:             string(role),
		RegisteredClaims: jwt.RegisteredClaims{Subject: subjectID},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", domain.ErrSigningKey
	}
	return signed, nil
}

func (s *RSATokenService) Verify(token string) (*domain.Identity, error) {
	claims := &identityClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.publicKey, nil
	})
	if err != nil || !tkn.Valid {
		return nil, domain.ErrInvalidToken
	}
	return identityFromClaims(claims)
}

// NewTokenService selects the key-handling variant from configuration so call
// sites never care which scheme is active. alg is "HS256" or "RS256".
func NewTokenService(alg, secret string, privatePEM, publicPEM []byte) (ports.TokenService, error) {
	switch strings.ToUpper(strings.TrimSpace(alg)) {
	case "", "HS256":
		if secret == "" {
			return nil, domain.ErrSigningKey
		}
		return NewHMACTokenService(secret), nil
	case "RS256":
		return NewRSATokenService(privatePEM, publicPEM)
	default:
		return nil, domain.ErrSigningKey
	}
}
