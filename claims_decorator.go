package auth

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
)

// ClaimsDecorator can enrich the claim extensions before a token is
// signed. Implementations may only touch the Metadata map; registered
// claims (sub, iss, aud, iat, exp, jti) and uid are protected and any
// mutation aborts issuance.
type ClaimsDecorator interface {
	Decorate(ctx context.Context, identity Identity, claims *JWTClaims) error
}

// ClaimsDecoratorFunc adapts a function into a ClaimsDecorator.
type ClaimsDecoratorFunc func(ctx context.Context, identity Identity, claims *JWTClaims) error

// Decorate satisfies the ClaimsDecorator interface.
func (f ClaimsDecoratorFunc) Decorate(ctx context.Context, identity Identity, claims *JWTClaims) error {
	if f == nil {
		return nil
	}
	return f(ctx, identity, claims)
}

type noopClaimsDecorator struct{}

func (noopClaimsDecorator) Decorate(context.Context, Identity, *JWTClaims) error {
	return nil
}

func normalizeClaimsDecorator(d ClaimsDecorator) ClaimsDecorator {
	if d == nil {
		return noopClaimsDecorator{}
	}
	return d
}

// ErrImmutableClaimMutation signals that a decorator touched a protected
// claim.
var ErrImmutableClaimMutation = errors.New("immutable claim mutated", errors.CategoryInternal)

type protectedClaims struct {
	subject  string
	issuer   string
	uid      string
	tokenID  string
	audience string
	issued   int64
	expires  int64
}

func captureProtectedClaims(claims *JWTClaims) protectedClaims {
	snap := protectedClaims{
		subject:  claims.RegisteredClaims.Subject,
		issuer:   claims.RegisteredClaims.Issuer,
		uid:      claims.UID,
		tokenID:  claims.RegisteredClaims.ID,
		audience: fmt.Sprint([]string(claims.RegisteredClaims.Audience)),
	}
	if claims.RegisteredClaims.IssuedAt != nil {
		snap.issued = claims.RegisteredClaims.IssuedAt.Unix()
	}
	if claims.RegisteredClaims.ExpiresAt != nil {
		snap.expires = claims.RegisteredClaims.ExpiresAt.Unix()
	}
	return snap
}

func (snap protectedClaims) validate(claims *JWTClaims) error {
	if captureProtectedClaims(claims) != snap {
		return ErrImmutableClaimMutation
	}
	return nil
}
