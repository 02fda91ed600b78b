package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// Auther orchestrates the credential exchange: it verifies a credential
// against the identity provider and issues a signed, time-limited token.
// It also exposes principal resolution for the request path.
type Auther struct {
	provider        IdentityProvider
	signingKey      []byte
	tokenExpiration int
	issuer          string
	audience        []string
	logger          Logger
	tokenService    TokenService
	tokenValidator  TokenValidator
	resolver        *PrincipalResolver
	activitySink    ActivitySink
	claimsDecorator ClaimsDecorator
}

// NewAuthenticator returns a new Authenticator.
func NewAuthenticator(provider IdentityProvider, opts Config) *Auther {
	tokenService := NewTokenService(
		[]byte(opts.GetSigningKey()),
		opts.GetTokenExpiration(),
		opts.GetIssuer(),
		opts.GetAudience(),
		defLogger{},
	)

	a := &Auther{
		provider:        provider,
		signingKey:      []byte(opts.GetSigningKey()),
		tokenExpiration: opts.GetTokenExpiration(),
		audience:        opts.GetAudience(),
		issuer:          opts.GetIssuer(),
		logger:          defLogger{},
		tokenService:    tokenService,
		activitySink:    noopActivitySink{},
		claimsDecorator: noopClaimsDecorator{},
	}

	a.resolver = NewPrincipalResolver(tokenService, provider)

	return a
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	s.tokenService = NewTokenService(
		s.signingKey,
		s.tokenExpiration,
		s.issuer,
		s.audience,
		logger,
	)
	s.resolver = NewPrincipalResolver(s.activeValidator(), s.provider).WithLogger(logger)
	return s
}

// WithActivitySink configures an ActivitySink for emitting auth events.
func (s *Auther) WithActivitySink(sink ActivitySink) *Auther {
	s.activitySink = normalizeActivitySink(sink)
	return s
}

// WithClaimsDecorator configures a ClaimsDecorator for enriching JWTs.
func (s *Auther) WithClaimsDecorator(decorator ClaimsDecorator) *Auther {
	s.claimsDecorator = normalizeClaimsDecorator(decorator)
	return s
}

// WithTokenValidator sets a custom token validator for externally issued
// tokens. Issuance still goes through the internal TokenService.
func (s *Auther) WithTokenValidator(validator TokenValidator) *Auther {
	s.tokenValidator = validator
	s.resolver = NewPrincipalResolver(s.activeValidator(), s.provider).WithLogger(s.logger)
	return s
}

// TokenService returns the TokenService instance used by this
// Authenticator.
func (s *Auther) TokenService() TokenService {
	return s.tokenService
}

func (s *Auther) activeValidator() TokenValidator {
	if s.tokenValidator != nil {
		return s.tokenValidator
	}
	return s.tokenService
}

// Login exchanges a credential for a signed bearer token. An unknown
// identifier and a wrong password fail with the identical
// ErrMismatchedHashAndPassword value; only store faults surface
// differently, as ErrLookupFailure.
func (s *Auther) Login(ctx context.Context, identifier, password string) (string, error) {
	identity, err := s.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		if IsAuthenticationError(err) || errors.Is(err, ErrTooManyLoginAttempts) {
			s.logger.Info("Login rejected", "identifier", identifier)
		} else {
			s.logger.Error("Login verify identity error", "error", err)
		}
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, "", map[string]any{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return "", err
	}

	if identity == nil {
		s.logger.Error("Login identity is nil")
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, "", map[string]any{
			"identifier": identifier,
			"error":      ErrMismatchedHashAndPassword.Error(),
		})
		return "", ErrMismatchedHashAndPassword
	}

	token, err := s.generateJWT(ctx, identity)
	if err != nil {
		s.emitAuthEvent(ctx, ActivityEventLoginFailure, identity.ID(), map[string]any{
			"identifier": identifier,
			"error":      err.Error(),
		})
		return "", err
	}

	s.emitAuthEvent(ctx, ActivityEventLoginSuccess, identity.ID(), map[string]any{
		"identifier": identifier,
	})

	return token, nil
}

// ResolvePrincipal validates the raw token and resolves its subject to
// an authenticated Principal.
func (s *Auther) ResolvePrincipal(ctx context.Context, token string) (Principal, error) {
	principal, err := s.resolver.Resolve(ctx, token)
	if err != nil {
		return Principal{}, err
	}

	s.emitAuthEvent(ctx, ActivityEventTokenResolved, principal.ID, nil)

	return principal, nil
}

// generateJWT builds the claim set, lets decorators enrich extensions,
// and signs. Protected claims are snapshotted so a misbehaving decorator
// aborts issuance instead of minting a token with altered identity.
func (s *Auther) generateJWT(ctx context.Context, identity Identity) (string, error) {
	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: identity.ID(),
		},
		UID: identity.ID(),
	}

	snapshot := captureProtectedClaims(claims)

	decorator := normalizeClaimsDecorator(s.claimsDecorator)
	if err := decorator.Decorate(ctx, identity, claims); err != nil {
		s.logger.Error("claims decorator failed", "error", err)
		return "", err
	}

	if err := snapshot.validate(claims); err != nil {
		s.logger.Error("claims decorator mutated immutable claims", "error", err)
		return "", err
	}

	return s.tokenService.Issue(claims, time.Duration(s.tokenExpiration)*time.Minute)
}

func (s *Auther) emitAuthEvent(ctx context.Context, eventType ActivityEventType, userID string, metadata map[string]any) {
	sink := normalizeActivitySink(s.activitySink)
	event := ActivityEvent{
		EventType: eventType,
		UserID:    userID,
		Metadata:  metadata,
	}

	if event.Metadata == nil {
		event.Metadata = map[string]any{}
	}

	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	if err := sink.Record(ctx, event); err != nil {
		s.logger.Warn("activity sink record error: %v", err)
	}
}
