package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

// TokenServiceImpl implements the TokenService interface. It is safe for
// concurrent use: the signing key is read-only after construction and no
// mutable state is touched during issuance or validation.
type TokenServiceImpl struct {
	signingKey      []byte
	tokenExpiration time.Duration
	issuer          string
	audience        jwt.ClaimStrings
	logger          Logger
	now             func() time.Time
}

// NewTokenService creates a new TokenService instance. tokenExpiration
// is the default TTL in minutes applied by Generate.
func NewTokenService(signingKey []byte, tokenExpiration int, issuer string, audience jwt.ClaimStrings, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey:      signingKey,
		tokenExpiration: time.Duration(tokenExpiration) * time.Minute,
		issuer:          issuer,
		audience:        audience,
		logger:          logger,
		now:             time.Now,
	}
}

// WithTimeFunc overrides the time source. Meant for expiry tests.
func (ts *TokenServiceImpl) WithTimeFunc(now func() time.Time) *TokenServiceImpl {
	if now != nil {
		ts.now = now
	}
	return ts
}

func (ts *TokenServiceImpl) defaultTTL() time.Duration {
	return ts.tokenExpiration
}

// Generate creates a token for an identity using the default TTL.
func (ts *TokenServiceImpl) Generate(identity Identity) (string, error) {
	if identity == nil {
		return "", errors.New("identity must not be nil", errors.CategoryInternal)
	}

	claims := &JWTClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: identity.ID(),
		},
		UID: identity.ID(),
	}

	return ts.Issue(claims, ts.tokenExpiration)
}

// Issue signs the given claims with the configured key and a TTL. It
// stamps issuer, audience, iat, exp, and jti; the subject must already
// be set and non-empty. The result is a pure function of (claims, ttl,
// secret, now).
func (ts *TokenServiceImpl) Issue(claims *JWTClaims, ttl time.Duration) (string, error) {
	if claims == nil {
		return "", errors.New("claims must not be nil", errors.CategoryInternal)
	}

	if claims.RegisteredClaims.Subject == "" {
		return "", errors.New("claims subject must not be empty", errors.CategoryValidation)
	}

	if ttl <= 0 {
		return "", errors.New("token ttl must be positive", errors.CategoryValidation)
	}

	now := ts.now()

	claims.RegisteredClaims.Issuer = ts.issuer
	if len(ts.audience) > 0 {
		aud := make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
		claims.RegisteredClaims.Audience = aud
	}
	claims.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now)
	claims.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	ensureTokenID(&claims.RegisteredClaims)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedString, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign JWT")
	}

	return signedString, nil
}

// Validate parses and validates a token string, returning the claims
// exactly as issued. Failures are split into ErrTokenExpired,
// ErrTokenBadSignature, and ErrTokenMalformed so callers can challenge,
// alert, or reject accordingly.
func (ts *TokenServiceImpl) Validate(tokenString string) (AuthClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience...))
	}

	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService validate encountered unexpected signing method", "alg", t.Header["alg"])
			return nil, ErrTokenBadSignature
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrTokenBadSignature
		default:
			return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		}
	}

	if claims, ok := token.Claims.(*JWTClaims); ok && token.Valid {
		return claims, nil
	}

	ts.logger.Error("TokenService validate could not decode claims")
	return nil, ErrUnableToMapClaims
}

// ensureTokenID sets a jti when the caller did not provide one, so every
// issued token is individually identifiable in logs.
func ensureTokenID(claims *jwt.RegisteredClaims) {
	if claims.ID == "" {
		claims.ID = uuid.NewString()
	}
}
