package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// ScopedTokenOptions controls how MintScopedToken issues short-lived tokens.
type ScopedTokenOptions struct {
	// TTL overrides the default token expiration. Zero uses TokenService defaults.
	TTL time.Duration
	// Scopes sets the optional scopes extension on the minted token.
	Scopes []string
}

type tokenTTLProvider interface {
	defaultTTL() time.Duration
}

// MintScopedToken mints a short-lived JWT with optional scopes and TTL
// override. Meant for machine tokens: CLI sessions, webhooks, download
// links. Issuer and audience always come from the token service.
func MintScopedToken(tokenService TokenService, identity Identity, opts ScopedTokenOptions) (string, time.Time, error) {
	if tokenService == nil {
		return "", time.Time{}, goerrors.New("token service is required", goerrors.CategoryBadInput)
	}
	if identity == nil {
		return "", time.Time{}, goerrors.New("identity is required", goerrors.CategoryBadInput)
	}

	ttl := opts.TTL
	if ttl == 0 {
		if provider, ok := tokenService.(tokenTTLProvider); ok {
			ttl = provider.defaultTTL()
		}
	}

	if ttl <= 0 {
		return "", time.Time{}, goerrors.New("token TTL must be positive", goerrors.CategoryBadInput)
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: identity.ID(),
		},
		UID: identity.ID(),
	}

	if len(opts.Scopes) > 0 {
		claims.SetExtension("scopes", append([]string(nil), opts.Scopes...))
	}

	token, err := tokenService.Issue(claims, ttl)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, claims.Expires(), nil
}
