package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims represents the session cookie claims.
type Claims struct {
	jwt.RegisteredClaims
	SessionID uuid.UUID `json:"session_id"`
}

// SessionCodec signs and verifies session cookie values. The cookie carries
// only the server-side session ID; signing makes it tamper-evident and the
// embedded expiry makes it time-bounded.
type SessionCodec struct {
	secretKey string
	ttl       time.Duration
}

// NewSessionCodec creates a codec with the given secret and cookie lifetime.
func NewSessionCodec(secretKey string, ttl time.Duration) *SessionCodec {
	return &SessionCodec{secretKey: secretKey, ttl: ttl}
}

// TTL returns the configured cookie lifetime.
func (c *SessionCodec) TTL() time.Duration {
	return c.ttl
}

// Encode produces a signed cookie value for the given session ID.
func (c *SessionCodec) Encode(sessionID uuid.UUID) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		SessionID: sessionID,
	})

	tokenString, err := token.SignedString([]byte(c.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign session cookie: %w", err)
	}

	return tokenString, nil
}

// Decode validates a cookie value and extracts the session ID.
func (c *SessionCodec) Decode(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(c.secretKey), nil
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to parse session cookie: %w", err)
	}
	if !token.Valid {
		return uuid.Nil, fmt.Errorf("session cookie is invalid")
	}
	if claims.SessionID == uuid.Nil {
		return uuid.Nil, fmt.Errorf("session cookie has no session id")
	}
	return claims.SessionID, nil
}
