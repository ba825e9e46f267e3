package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens

	"github.com/iliyamo/trip-planner/internal/model"
)

// Verification failures are collapsed to a generic 401 at the HTTP boundary;
// these sentinels exist so logs and tests can still tell the cases apart.
var (
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token signature invalid")
	ErrTokenMalformed = errors.New("token malformed")
)

// Claims carries the identity encoded in an access token.  The subject
// fields mirror the public user view; RegisteredClaims supplies issued-at
// and expiry.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// IssueToken builds and signs an HS256 JWT for a user.  The token embeds the
// user's id, email and name plus iat/exp, and expires ttl from now.  Any
// mutation of the payload after signing invalidates the signature.
func IssueToken(secret string, u model.User, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: u.ID,
		Email:  u.Email,
		Name:   u.Name,
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// VerifyToken parses and validates a token string.  It enforces the HS256
// signing method, checks the signature against secret and rejects expired
// tokens.  The returned error is one of the sentinels above.
func VerifyToken(secret, raw string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrTokenMalformed
		default:
			return nil, ErrTokenInvalid
		}
	}
	if !tok.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
