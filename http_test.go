package auth_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-router"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	auth "github.com/rodbv/authkit"
)

// MockAuthenticator implements auth.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, identifier, password string) (string, error) {
	args := m.Called(ctx, identifier, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) ResolvePrincipal(ctx context.Context, token string) (auth.Principal, error) {
	args := m.Called(ctx, token)
	principal, _ := args.Get(0).(auth.Principal)
	return principal, args.Error(1)
}

// recorderContext captures the response the handlers write.
type recorderContext struct {
	*router.MockContext
	status  int
	body    any
	headers map[string]string
}

func newRecorderContext() *recorderContext {
	return &recorderContext{
		MockContext: router.NewMockContext(),
		headers:     map[string]string{},
	}
}

func (r *recorderContext) Context() context.Context {
	return context.Background()
}

func (r *recorderContext) JSON(code int, val any) error {
	r.status = code
	r.body = val
	return nil
}

func (r *recorderContext) SetHeader(key, val string) router.Context {
	r.headers[key] = val
	return r
}

func (r *recorderContext) OriginalURL() string {
	return "/token"
}

func newTestRouteAuthenticator(t *testing.T, auther auth.Authenticator) *auth.RouteAuthenticator {
	t.Helper()

	validator := new(MockTokenValidator)
	ra, err := auth.NewHTTPAuthenticator(auther, validator, newTestConfig())
	require.NoError(t, err)
	ra.Logger = noopTestLogger{}
	return ra
}

func TestNewHTTPAuthenticatorRequiresCollaborators(t *testing.T) {
	cfg := newTestConfig()

	_, err := auth.NewHTTPAuthenticator(nil, new(MockTokenValidator), cfg)
	assert.Error(t, err)

	_, err = auth.NewHTTPAuthenticator(new(MockAuthenticator), nil, cfg)
	assert.Error(t, err)
}

func TestHTTPLoginWritesBearerEnvelope(t *testing.T) {
	auther := new(MockAuthenticator)
	auther.On("Login", mock.Anything, "pepe@example.com", "secret-password").
		Return("signed.jwt.token", nil)

	ra := newTestRouteAuthenticator(t, auther)
	ctx := newRecorderContext()

	payload := MockLoginPayload{Identifier: "pepe@example.com", Password: "secret-password"}
	err := ra.Login(ctx, payload)
	require.NoError(t, err)

	assert.Equal(t, router.StatusOK, ctx.status)
	body, ok := ctx.body.(auth.TokenResponse)
	require.True(t, ok)
	assert.Equal(t, "signed.jwt.token", body.AccessToken)
	assert.Equal(t, "Bearer", body.TokenType)
}

func TestHTTPLoginCredentialFailureIsGeneric(t *testing.T) {
	auther := new(MockAuthenticator)
	auther.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return("", auth.ErrMismatchedHashAndPassword)

	ra := newTestRouteAuthenticator(t, auther)
	ctx := newRecorderContext()

	err := ra.Login(ctx, MockLoginPayload{Identifier: "ghost@example.com", Password: "whatever"})
	require.NoError(t, err)

	assert.Equal(t, router.StatusUnauthorized, ctx.status)
	body, ok := ctx.body.(map[string]string)
	require.True(t, ok)
	// one body for unknown identifier and wrong password alike
	assert.Equal(t, "incorrect identifier or secret", body["detail"])
}

func TestHTTPUnauthenticatedGetsBearerChallenge(t *testing.T) {
	auther := new(MockAuthenticator)
	auther.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return("", auth.ErrUnauthenticated)

	ra := newTestRouteAuthenticator(t, auther)
	ctx := newRecorderContext()

	err := ra.Login(ctx, MockLoginPayload{Identifier: "pepe", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, router.StatusUnauthorized, ctx.status)
	assert.Equal(t, "Bearer", ctx.headers[auth.HeaderWWWAuthenticate])

	body, ok := ctx.body.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "could not validate credentials", body["detail"])
}

func TestHTTPForbiddenResponse(t *testing.T) {
	auther := new(MockAuthenticator)
	auther.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return("", auth.ErrNotResourceOwner)

	ra := newTestRouteAuthenticator(t, auther)
	ctx := newRecorderContext()

	err := ra.Login(ctx, MockLoginPayload{Identifier: "pepe", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, router.StatusForbidden, ctx.status)
	body, ok := ctx.body.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "not enough permissions", body["detail"])
	// a 403 never carries a challenge, the caller is already authenticated
	assert.Empty(t, ctx.headers[auth.HeaderWWWAuthenticate])
}

func TestHTTPRateLimitedLogin(t *testing.T) {
	auther := new(MockAuthenticator)
	auther.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return("", auth.ErrTooManyLoginAttempts)

	ra := newTestRouteAuthenticator(t, auther)
	ctx := newRecorderContext()

	err := ra.Login(ctx, MockLoginPayload{Identifier: "pepe", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, 429, ctx.status)
}

func TestHTTPInternalFaultHidesDetails(t *testing.T) {
	auther := new(MockAuthenticator)
	auther.On("Login", mock.Anything, mock.Anything, mock.Anything).
		Return("", auth.ErrLookupFailure)

	ra := newTestRouteAuthenticator(t, auther)
	ctx := newRecorderContext()

	err := ra.Login(ctx, MockLoginPayload{Identifier: "pepe", Password: "secret"})
	require.NoError(t, err)

	assert.Equal(t, 503, ctx.status)
	body, ok := ctx.body.(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "service unavailable", body["detail"])
}

func TestMakeClientRouteAuthErrorHandler(t *testing.T) {
	auther := new(MockAuthenticator)
	ra := newTestRouteAuthenticator(t, auther)

	t.Run("required auth rejects with challenge", func(t *testing.T) {
		handler := ra.MakeClientRouteAuthErrorHandler(false)

		ctx := newRecorderContext()
		err := handler(ctx, auth.ErrTokenExpired)
		require.NoError(t, err)

		assert.Equal(t, router.StatusUnauthorized, ctx.status)
		assert.Equal(t, "Bearer", ctx.headers[auth.HeaderWWWAuthenticate])
	})

	t.Run("optional auth proceeds unauthenticated", func(t *testing.T) {
		handler := ra.MakeClientRouteAuthErrorHandler(true)

		ctx := newRecorderContext()
		err := handler(ctx, auth.ErrTokenExpired)
		require.NoError(t, err)

		assert.True(t, ctx.NextCalled)
		assert.Zero(t, ctx.status)
	})
}

func TestProtectedRouteBuildsMiddleware(t *testing.T) {
	auther := new(MockAuthenticator)
	ra := newTestRouteAuthenticator(t, auther)

	middleware := ra.ProtectedRoute(newTestConfig(), func(c router.Context, err error) error {
		return err
	})
	assert.NotNil(t, middleware)
}
