package service

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"strings"
	"testing"

	"github.com/salonbook/booking-api/internal/core/domain"
)

func TestHMACTokenService_RoundTrip(t *testing.T) {
	svc := NewHMACTokenService("test-secret")

	token, err := svc.Issue("user-42", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if token == "" {
		t.Fatalf("expected a token, got empty string")
	}

	ident, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ident.SubjectID != "user-42" {
		t.Fatalf("expected subject user-42, got %q", ident.SubjectID)
	}
	if ident.Role != domain.RoleCustomer {
		t.Fatalf("expected role Customer, got %q", ident.Role)
	}
}

func TestHMACTokenService_MissingKey(t *testing.T) {
	svc := NewHMACTokenService("")

	if _, err := svc.Issue("user-1", domain.RoleAdmin); !errors.Is(err, domain.ErrSigningKey) {
		t.Fatalf("expected ErrSigningKey, got %v", err)
	}
	if _, err := svc.Verify("whatever"); !errors.Is(err, domain.ErrSigningKey) {
		t.Fatalf("expected ErrSigningKey, got %v", err)
	}
}

func TestHMACTokenService_RejectsTampered(t *testing.T) {
	svc := NewHMACTokenService("test-secret")
	token, err := svc.Issue("user-42", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	cases := map[string]string{
		"garbage":           "not-a-token",
		"truncated":         token[:len(token)-10],
		"flipped signature": token[:len(token)-2] + "zz",
		"empty":             "",
	}
	// splice a different payload between the original header and signature
	parts := strings.Split(token, ".")
	if len(parts) == 3 {
		other, _ := svc.Issue("user-43", domain.RoleAdmin)
		otherParts := strings.Split(other, ".")
		cases["swapped payload"] = parts[0] + "." + otherParts[1] + "." + parts[2]
	}

	for name, tampered := range cases {
		if _, err := svc.Verify(tampered); !errors.Is(err, domain.ErrInvalidToken) {
			t.Errorf("%s: expected ErrInvalidToken, got %v", name, err)
		}
	}
}

func TestHMACTokenService_RejectsForeignKey(t *testing.T) {
	issuer := NewHMACTokenService("key-one")
	verifier := NewHMACTokenService("key-two")

	token, err := issuer.Issue("user-42", domain.RoleCustomer)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for foreign key, got %v", err)
	}
}

func testRSAKeyPEMs(t *testing.T) (privatePEM, publicPEM []byte) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate rsa key: %v", err)
	}
	privatePEM = pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pub, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	if err != nil {
		t.Fatalf("marshal public key: %v", err)
	}
	publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pub})
	return privatePEM, publicPEM
}

func TestRSATokenService_RoundTrip(t *testing.T) {
	privatePEM, publicPEM := testRSAKeyPEMs(t)

	svc, err := NewRSATokenService(privatePEM, publicPEM)
	if err != nil {
		t.Fatalf("NewRSATokenService returned error: %v", err)
	}

	token, err := svc.Issue("user-7", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	ident, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ident.SubjectID != "user-7" || ident.Role != domain.RoleAdmin {
		t.Fatalf("unexpected identity: %+v", ident)
	}
}

func TestRSATokenService_VerifyOnly(t *testing.T) {
	_, publicPEM := testRSAKeyPEMs(t)

	svc, err := NewRSATokenService(nil, publicPEM)
	if err != nil {
		t.Fatalf("NewRSATokenService returned error: %v", err)
	}
	if _, err := svc.Issue("user-1", domain.RoleCustomer); !errors.Is(err, domain.ErrSigningKey) {
		t.Fatalf("expected ErrSigningKey without private key, got %v", err)
	}
}

func TestRSATokenService_RejectsAlgConfusion(t *testing.T) {
	privatePEM, publicPEM := testRSAKeyPEMs(t)
	rsaSvc, err := NewRSATokenService(privatePEM, publicPEM)
	if err != nil {
		t.Fatalf("NewRSATokenService returned error: %v", err)
	}
	hmacSvc := NewHMACTokenService("test-secret")

	hmacToken, _ := hmacSvc.Issue("user-1", domain.RoleCustomer)
	if _, err := rsaSvc.Verify(hmacToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("RSA verifier accepted HMAC token: %v", err)
	}

	rsaToken, _ := rsaSvc.Issue("user-1", domain.RoleCustomer)
	if _, err := hmacSvc.Verify(rsaToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("HMAC verifier accepted RSA token: %v", err)
	}
}

func TestNewTokenService_Selection(t *testing.T) {
	if _, err := NewTokenService("HS256", "secret", nil, nil); err != nil {
		t.Fatalf("HS256 with secret should build: %v", err)
	}
	if _, err := NewTokenService("HS256", "", nil, nil); !errors.Is(err, domain.ErrSigningKey) {
		t.Fatalf("HS256 without secret should fail with ErrSigningKey, got %v", err)
	}
	if _, err := NewTokenService("ES384", "secret", nil, nil); !errors.Is(err, domain.ErrSigningKey) {
		t.Fatalf("unknown alg should fail with ErrSigningKey, got %v", err)
	}

	privatePEM, publicPEM := testRSAKeyPEMs(t)
	if _, err := NewTokenService("rs256", "", privatePEM, publicPEM); err != nil {
		t.Fatalf("RS256 with keys should build: %v", err)
	}
	if _, err := NewTokenService("RS256", "", nil, nil); !errors.Is(err, domain.ErrSigningKey) {
		t.Fatalf("RS256 without keys should fail with ErrSigningKey, got %v", err)
	}
}
