package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Text codes attached to structured errors so API clients can branch
// without string matching the message.
const (
	TextCodeInvalidCreds       = "INVALID_CREDENTIALS"
	TextCodeUnauthenticated    = "UNAUTHENTICATED"
	TextCodeNotResourceOwner   = "NOT_RESOURCE_OWNER"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeTokenMalformed     = "TOKEN_MALFORMED"
	TextCodeTokenBadSignature  = "TOKEN_BAD_SIGNATURE"
	TextCodeTooManyAttempts    = "TOO_MANY_LOGIN_ATTEMPTS"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
	TextCodeHashingFailure     = "HASHING_FAILURE"
	TextCodeLookupFailure      = "LOOKUP_FAILURE"
	TextCodeClaimsMappingError = "CLAIMS_MAPPING_ERROR"
)

// ErrIdentityNotFound is returned by providers when no record matches an
// identifier. It never crosses the Login or Resolve boundary: both
// collapse it into the generic credential/authentication failures below.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound)

// ErrMismatchedHashAndPassword is the single login-time failure. Unknown
// identifier and wrong password produce this same value so a caller
// cannot tell which half of the credential was bad.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is the single request-time failure: missing,
// malformed, forged, or expired token, or a token whose subject no
// longer resolves to an identity.
var ErrUnauthenticated = errors.New("could not validate credentials", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrNotResourceOwner means the caller is authenticated but does not own
// the resource it is trying to mutate. Deliberately distinct from
// ErrUnauthenticated.
var ErrNotResourceOwner = errors.New("not enough permissions", errors.CategoryAuthz).
	WithTextCode(TextCodeNotResourceOwner).
	WithCode(errors.CodeForbidden)

// ErrTokenExpired is returned by TokenService.Validate for tokens past
// their expiry claim.
var ErrTokenExpired = errors.New("token is expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed is returned for tokens that cannot be parsed into
// header, payload, and signature.
var ErrTokenMalformed = errors.New("token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrTokenBadSignature is returned when the recomputed signature does
// not match: the token was tampered with or signed with another secret.
var ErrTokenBadSignature = errors.New("token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenBadSignature).
	WithCode(errors.CodeUnauthorized)

// ErrTooManyLoginAttempts is returned when an account is cooling down
// after repeated failed logins.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)

// ErrHashingFailure is an infrastructure fault inside the hasher, e.g.
// entropy exhaustion. Safe for the caller to retry; never produced on a
// simple mismatch.
var ErrHashingFailure = errors.New("unable to hash password", errors.CategoryInternal).
	WithTextCode(TextCodeHashingFailure)

// ErrLookupFailure is an infrastructure fault in the identity store.
// Surfaced as-is so operators can tell "database down" from "wrong
// password"; the package performs no retries of its own.
var ErrLookupFailure = errors.New("identity lookup failed", errors.CategoryInternal).
	WithTextCode(TextCodeLookupFailure)

// ErrUnableToMapClaims means a parsed token carried claims we could not
// decode into JWTClaims.
var ErrUnableToMapClaims = errors.New("unable to map claims", errors.CategoryAuth).
	WithTextCode(TextCodeClaimsMappingError).
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError checks for expired tokens, including legacy
// string-form errors from middleware layers.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenExpired) {
		return true
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError checks for malformed-token errors, including the
// middleware's missing-JWT message.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrTokenMalformed) {
		return true
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsAuthenticationError reports whether err is one of the terminal
// authentication failures (login or request time). These must not be
// retried: credential and token failures are not transient.
func IsAuthenticationError(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrMismatchedHashAndPassword) ||
		errors.Is(err, ErrUnauthenticated) ||
		errors.Is(err, ErrTokenExpired) ||
		errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenBadSignature)
}
