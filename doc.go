// Package auth provides bearer-token authentication and per-resource
// ownership authorization for networked APIs.
//
// Credential exchange:
//   - HashPassword and ComparePasswordAndHash wrap bcrypt so stored
//     secrets are salted, one-way, and verified in constant time.
//   - Auther.Login verifies a credential against an IdentityProvider and
//     issues a signed, time-limited JWT. Unknown identifiers and wrong
//     passwords fail with the same ErrMismatchedHashAndPassword shape so
//     callers cannot enumerate accounts.
//
// Request authentication:
//   - TokenService signs and validates HS256 tokens against a single
//     process-wide secret; validation is stateless and needs no storage
//     round trip.
//   - PrincipalResolver turns a raw token into a Principal by validating
//     the signature and expiry, extracting the subject, and resolving it
//     through the IdentityProvider. Every failure mode collapses into
//     ErrUnauthenticated.
//
// Authorization:
//   - OwnershipGuard enforces the self-only mutation rule: a Principal
//     may act on a resource only when its ID matches the resource owner.
//     Richer policies plug in through OwnershipPolicy.
//
// The middleware/jwtware subpackage adapts all of this to HTTP routes:
// it extracts the bearer token, validates it, and stores the claims in
// the request context, answering 401 with a WWW-Authenticate challenge
// when the token is missing or bad.
package auth
