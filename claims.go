package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims is the structured payload carried inside a token: subject
// plus expiry plus optional extensions.
type AuthClaims interface {
	Subject() string
	UserID() string
	Expires() time.Time
	IssuedAt() time.Time
	Extension(key string) (any, bool)
}

// JWTClaims is the concrete implementation of AuthClaims signed into
// tokens. Metadata is the open extension map; everything in
// RegisteredClaims is protected and immutable after issuance.
type JWTClaims struct {
	jwt.RegisteredClaims
	UID      string         `json:"uid,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

var _ AuthClaims = (*JWTClaims)(nil)

// Subject returns the subject claim.
func (c *JWTClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID returns the user ID, falling back to the subject when the uid
// claim was not set.
func (c *JWTClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.Subject()
}

// Expires returns the expiration time.
func (c *JWTClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time.
func (c *JWTClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Extension returns a value from the metadata extension map.
func (c *JWTClaims) Extension(key string) (any, bool) {
	if c.Metadata == nil {
		return nil, false
	}
	v, ok := c.Metadata[key]
	return v, ok
}

// SetExtension stores a value in the metadata extension map.
func (c *JWTClaims) SetExtension(key string, val any) *JWTClaims {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = val
	return c
}
