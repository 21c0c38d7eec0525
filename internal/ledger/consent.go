package ledger

import (
	"crypto/ed25519"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ConsentGrant is a verified, time-boxed delegation: the granter (record
// holder) allows the grantee to decrypt data sealed under PolicyID until
// ExpiresAt. The raw compact token travels inside access proofs so the
// decryption network can re-verify the delegation independently.
type ConsentGrant struct {
	Granter   string
	Grantee   string
	PolicyID  string
	ExpiresAt time.Time

	// Token is the compact serialized JWT the grant was parsed from.
	Token string
}

// NewConsentToken issues a consent token: an EdDSA JWT signed with the
// granter wallet's key, delegating decryption under policyID to grantee
// until expiresAt. The embedding application drives issuance; this library
// only consumes the result.
func NewConsentToken(granterKey ed25519.PrivateKey, granter, grantee, policyID string, expiresAt time.Time) (string, error) {
	if granter == "" || grantee == "" || policyID == "" {
		return "", fmt.Errorf("%w: incomplete grant", ErrConsentInvalid)
	}

	claims := jwt.RegisteredClaims{
		Issuer:    granter,
		Subject:   grantee,
		Audience:  jwt.ClaimStrings{policyID},
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims).SignedString(granterKey)
	if err != nil {
		return "", fmt.Errorf("sign consent token: %w", err)
	}
	return token, nil
}

// ParseConsentGrant verifies token against the granter's public key and
// returns the grant it encodes. The token must be EdDSA-signed, unexpired,
// and carry issuer, subject, and exactly one audience (the policy id).
func ParseConsentGrant(token string, granterKey ed25519.PublicKey) (*ConsentGrant, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(t *jwt.Token) (any, error) { return granterKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConsentInvalid, err)
	}
	if !parsed.Valid {
		return nil, ErrConsentInvalid
	}
	if claims.Issuer == "" || claims.Subject == "" || len(claims.Audience) != 1 {
		return nil, fmt.Errorf("%w: incomplete claims", ErrConsentInvalid)
	}

	return &ConsentGrant{
		Granter:   claims.Issuer,
		Grantee:   claims.Subject,
		PolicyID:  claims.Audience[0],
		ExpiresAt: claims.ExpiresAt.Time,
		Token:     token,
	}, nil
}
