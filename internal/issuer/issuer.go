// Package issuer produces ES256-signed JSON Web Tokens carrying an issuer
// and issued-at claim, keyed by a key identifier header.
//
// Tokens carry no exp claim. Callers that need bounded lifetimes must track
// the issue time themselves.
package issuer

import (
	"crypto/ecdsa"
	"time"

	"github.com/dskow/token-issuer/internal/config"
	"github.com/golang-jwt/jwt/v5"
)

// Issue reads the private key at keyPath and returns a token with claims
// {"iss": issuer, "iat": now} and header {"alg":"ES256","kid": keyID,"typ":"JWT"}.
// now is a Unix timestamp in seconds.
func Issue(issuer, keyID, keyPath string, now int64) (string, error) {
	cfg := &config.Config{TeamID: issuer, KeyID: keyID, KeyFile: keyPath}
	if err := cfg.Validate(); err != nil {
		return "", err
	}

	key, err := LoadKey(keyPath)
	if err != nil {
		return "", err
	}

	return Sign(key, issuer, keyID, now)
}

// IssueWithConfig is Issue driven by a loaded configuration.
func IssueWithConfig(cfg *config.Config, now time.Time) (string, error) {
	return Issue(cfg.TeamID, cfg.KeyID, cfg.KeyFile, now.Unix())
}

// Sign builds and signs the token with an already parsed key.
func Sign(key *ecdsa.PrivateKey, issuer, keyID string, now int64) (string, error) {
	if key == nil {
		return "", &SigningError{Err: errNilKey}
	}

	claims := jwt.RegisteredClaims{
		Issuer:   issuer,
		IssuedAt: jwt.NewNumericDate(time.Unix(now, 0)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodES256, claims)
	token.Header["kid"] = keyID

	signed, err := token.SignedString(key)
	if err != nil {
		return "", &SigningError{Err: err}
	}
	return signed, nil
}
