package token

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"accounthub/internal/credentials"
	"accounthub/internal/domain"
)

// Claims are the decoded contents of an issued token. The subject is the
// account id and the registered ID claim carries the unique token id.
type Claims struct {
	Scopes []string `json:"scopes,omitempty"`
	jwt.RegisteredClaims
}

// AccountID parses the subject claim.
func (c *Claims) AccountID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}

// RevocationCheck reports whether a structurally valid token has been
// revoked. The hook is pluggable but the default never revokes.
type RevocationCheck func(ctx context.Context, claims *Claims) (bool, error)

// NeverRevoked is the default revocation check: every token passes.
func NeverRevoked(ctx context.Context, claims *Claims) (bool, error) {
	return false, nil
}

// Issuer creates and verifies HS256 tokens under one shared secret.
type Issuer struct {
	secret    []byte
	ttl       time.Duration
	issuer    string
	codec     *credentials.Codec
	isRevoked RevocationCheck
}

// NewIssuer creates a token issuer. A nil revocation check defaults to
// NeverRevoked.
func NewIssuer(secret string, ttl time.Duration, issuerName string, codec *credentials.Codec, isRevoked RevocationCheck) *Issuer {
	if isRevoked == nil {
		isRevoked = NeverRevoked
	}
	return &Issuer{
		secret:    []byte(secret),
		ttl:       ttl,
		issuer:    issuerName,
		codec:     codec,
		isRevoked: isRevoked,
	}
}

// Issue signs a token carrying accountID as subject and a fresh 24-character
// alphanumeric token id. Returns the signed token and the token id.
func (i *Issuer) Issue(accountID uuid.UUID) (string, string, error) {
	now := time.Now()
	tokenID := i.codec.GenerateCode(credentials.TokenIDLength, credentials.CharsetAlphanumeric)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    i.issuer,
			Subject:   accountID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        tokenID,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret)
	if err != nil {
		return "", "", err
	}
	return signed, tokenID, nil
}

// Verify decodes tokenString and returns its claims. Malformed, unsigned,
// expired or wrongly signed tokens fail with ErrUnauthorized, as does a token
// missing any of requiredScopes.
func (i *Issuer) Verify(ctx context.Context, tokenString string, requiredScopes ...string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, domain.ErrUnauthorized
	}

	revoked, err := i.isRevoked(ctx, claims)
	if err != nil || revoked {
		return nil, domain.ErrUnauthorized
	}

	for _, required := range requiredScopes {
		if !containsScope(claims.Scopes, required) {
			return nil, domain.ErrUnauthorized
		}
	}

	return claims, nil
}

func containsScope(scopes []string, scope string) bool {
	for _, s := range scopes {
		if s == scope {
			return true
		}
	}
	return false
}
