package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenInvalid covers malformed tokens, bad signatures and claim
	// mismatches.
	ErrTokenInvalid = errors.New("invalid token")

	// ErrTokenExpired is returned for an otherwise well-formed token whose
	// expiry has passed.
	ErrTokenExpired = errors.New("token expired")
)

// SessionClaims are the claims embedded in a session token.
type SessionClaims struct {
	UserID string `json:"id"`
	jwt.RegisteredClaims
}

// JWTAuthenticator issues and verifies HS256 session tokens.
type JWTAuthenticator struct {
	secret    string
	issuer    string
	expiresIn time.Duration
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance.
func NewJWTAuthenticator(secret, issuer string, expiresIn time.Duration) JWTAuthenticator {
	return JWTAuthenticator{
		secret:    secret,
		issuer:    issuer,
		expiresIn: expiresIn,
	}
}

// GenerateToken mints a signed session token for the given user ID with an
// absolute expiry relative to now.
func (a *JWTAuthenticator) GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    a.issuer,
			Audience:  jwt.ClaimStrings{a.issuer},
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.expiresIn)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString([]byte(a.secret))
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// ValidateToken verifies the signature and expiry of a session token and
// returns its claims. Expired tokens fail with ErrTokenExpired; every other
// failure is ErrTokenInvalid.
func (a *JWTAuthenticator) ValidateToken(tokenStr string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(a.secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(a.issuer),
		jwt.WithIssuer(a.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
