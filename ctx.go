package auth

import (
	"context"

	"github.com/goliatone/go-router"
)

var principalCtxKey = &contextKey{"principal"}
var claimsCtxKey = &contextKey{"claims"}

type contextKey struct {
	name string
}

// WithPrincipalContext sets the Principal in the given context.
func WithPrincipalContext(ctx context.Context, principal Principal) context.Context {
	return context.WithValue(ctx, principalCtxKey, principal)
}

// PrincipalFromContext finds the principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	raw, ok := ctx.Value(principalCtxKey).(Principal)
	return raw, ok
}

// WithClaimsContext sets the AuthClaims in the given context.
func WithClaimsContext(ctx context.Context, claims AuthClaims) context.Context {
	return context.WithValue(ctx, claimsCtxKey, claims)
}

// GetClaims extracts the AuthClaims from the standard context.
func GetClaims(ctx context.Context) (AuthClaims, bool) {
	raw, ok := ctx.Value(claimsCtxKey).(AuthClaims)
	return raw, ok
}

// GetRouterClaims extracts the AuthClaims from the router context.
func GetRouterClaims(ctx router.Context, key string) (AuthClaims, bool) {
	if key == "" {
		key = "user" // default key used by the JWT middleware
	}
	raw := ctx.Locals(key)
	if raw == nil {
		return nil, false
	}
	claims, ok := raw.(AuthClaims)
	return claims, ok
}

// CanMutate is a convenience check for handlers: it reads the principal
// from the standard context and applies the self-only ownership rule
// against the resource owner.
func CanMutate(ctx context.Context, resourceOwnerID string) bool {
	principal, ok := PrincipalFromContext(ctx)
	if !ok {
		return false
	}
	return AuthorizeOwner(principal, resourceOwnerID) == nil
}
