package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Issuer mints HS256 tokens for authenticated patients and admins.
type Issuer struct {
	issuer     string
	signingKey []byte
	ttl        time.Duration
}

func NewIssuer(issuer string, signingKey []byte, ttl time.Duration) *Issuer {
	return &Issuer{
		issuer:     issuer,
		signingKey: signingKey,
		ttl:        ttl,
	}
}

// Mint signs a token whose subject is the given identifier. Roles end up in
// the "roles" claim and drive the RequireRole guard.
func (i *Issuer) Mint(subject string, roles ...string) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
		Roles: roles,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
