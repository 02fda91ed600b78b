package auth

import (
	"context"
	"fmt"
	"time"
)

// Logger is the minimal logging surface the package needs. Components
// fall back to defLogger when none is configured.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an authenticated identity.
type Identity interface {
	ID() string
	Username() string
	Email() string
}

// IdentityProvider is the user-lookup capability the core consumes. It
// must never be handed raw secrets except through VerifyIdentity, which
// only uses them for comparison against the stored hash.
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// Authenticator holds methods to deal with authentication.
type Authenticator interface {
	Login(ctx context.Context, identifier, password string) (string, error)
	ResolvePrincipal(ctx context.Context, token string) (Principal, error)
}

// TokenService signs claims into opaque token strings and validates
// them back. Implementations are stateless: a validation is a pure
// function of (token, secret, now).
type TokenService interface {
	TokenValidator
	Generate(identity Identity) (string, error)
	Issue(claims *JWTClaims, ttl time.Duration) (string, error)
}

// TokenValidator validates a raw token string into structured claims.
// Split from TokenService so externally issued tokens (e.g. via JWKS)
// can plug into the same middleware.
type TokenValidator interface {
	Validate(raw string) (AuthClaims, error)
}

// PasswordAuthenticator hashes and verifies passwords.
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// LoginPayload is the credential submission shape accepted by the HTTP
// layer.
type LoginPayload interface {
	GetIdentifier() string
	GetPassword() string
}

// Config holds process-wide auth options, loaded once at startup and
// read-only afterwards.
type Config interface {
	GetSigningKey() string
	GetSigningMethod() string
	GetContextKey() string
	GetTokenExpiration() int // minutes
	GetTokenLookup() string
	GetAuthScheme() string
	GetIssuer() string
	GetAudience() []string
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
