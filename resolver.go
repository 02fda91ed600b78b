package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// Principal is the identity resolved from a token for the duration of
// one request. It is created per request and never persisted.
type Principal struct {
	ID         string
	Identifier string
}

// IsZero reports whether the principal carries no identity.
func (p Principal) IsZero() bool {
	return p.ID == "" && p.Identifier == ""
}

// PrincipalResolver turns raw bearer tokens into authenticated
// principals. Token validation is local and stateless; only the final
// subject lookup touches the identity store.
type PrincipalResolver struct {
	validator TokenValidator
	provider  IdentityProvider
	logger    Logger
}

// NewPrincipalResolver returns a resolver backed by the given validator
// and identity provider.
func NewPrincipalResolver(validator TokenValidator, provider IdentityProvider) *PrincipalResolver {
	return &PrincipalResolver{
		validator: validator,
		provider:  provider,
		logger:    defLogger{},
	}
}

func (r *PrincipalResolver) WithLogger(logger Logger) *PrincipalResolver {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// Resolve validates the raw token and resolves its subject to a
// Principal. Every authentication failure, malformed or forged or
// expired token, empty subject, or unknown subject, collapses into
// ErrUnauthenticated so a probing client learns nothing about which
// check failed. Store faults surface as ErrLookupFailure instead so
// operators can tell "token bad" from "database down". Failures are
// terminal; no retry is attempted.
func (r *PrincipalResolver) Resolve(ctx context.Context, raw string) (Principal, error) {
	if raw == "" {
		return Principal{}, ErrUnauthenticated
	}

	claims, err := r.validator.Validate(raw)
	if err != nil {
		r.logger.Debug("Resolve token validation failed", "error", err)
		return Principal{}, ErrUnauthenticated
	}

	subject := claims.Subject()
	if subject == "" {
		r.logger.Debug("Resolve token carries empty subject")
		return Principal{}, ErrUnauthenticated
	}

	identity, err := r.provider.FindIdentityByIdentifier(ctx, subject)
	if err != nil {
		if errors.IsNotFound(err) || errors.Is(err, ErrIdentityNotFound) || isAuthCategory(err) {
			r.logger.Debug("Resolve subject not resolvable", "subject", subject)
			return Principal{}, ErrUnauthenticated
		}
		r.logger.Error("Resolve identity lookup failed", "error", err)
		return Principal{}, errors.Wrap(err, ErrLookupFailure.Category, ErrLookupFailure.Message).
			WithTextCode(ErrLookupFailure.TextCode)
	}

	if identity == nil {
		return Principal{}, ErrUnauthenticated
	}

	return Principal{
		ID:         identity.ID(),
		Identifier: identity.Username(),
	}, nil
}

// isAuthCategory reports whether err is a structured auth failure, e.g.
// an account whose status blocks authentication.
func isAuthCategory(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.Category == errors.CategoryAuth
}
