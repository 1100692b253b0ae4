package utils

import (
	"time" // Time for token expiration

	"github.com/golang-jwt/jwt/v5" // JWT library
)

// Claims carried by a session token. RegisteredClaims.ID holds the session id.
type Claims struct {
	UserID               string `json:"user_id"` // Acting user
	jwt.RegisteredClaims        // Standard JWT claims
}

// SessionID returns the session the token was issued for
func (c *Claims) SessionID() string {
	return c.ID
}

// GenerateJWT signs a token for the given user and session that expires after ttl
func GenerateJWT(userID, sessionID, secret string, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,                     // Looked up in the session store on every request
			Subject:   userID,                        // Same as UserID, for generic tooling
			ExpiresAt: jwt.NewNumericDate(expiresAt), // Matches the session TTL
			IssuedAt:  jwt.NewNumericDate(now),       // Issued at current time
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims) // Create token with claims
	signed, err := token.SignedString([]byte(secret))          // Sign the token with the secret
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ParseJWT parses and validates a token string. Only HS256 is accepted.
func ParseJWT(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil // Return the secret key for validation
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err // Expired, malformed or wrongly signed
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" || claims.ID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
