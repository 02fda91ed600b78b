package auth_test

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	auth "github.com/rodbv/authkit"
)

// testIdentity implements auth.Identity
type testIdentity struct {
	id       string
	username string
	email    string
}

func (t testIdentity) ID() string       { return t.id }
func (t testIdentity) Username() string { return t.username }
func (t testIdentity) Email() string    { return t.email }

// MockIdentityProvider implements auth.IdentityProvider
type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) VerifyIdentity(ctx context.Context, identifier, password string) (auth.Identity, error) {
	args := m.Called(ctx, identifier, password)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

func (m *MockIdentityProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (auth.Identity, error) {
	args := m.Called(ctx, identifier)
	identity, _ := args.Get(0).(auth.Identity)
	return identity, args.Error(1)
}

// MockTokenValidator implements auth.TokenValidator
type MockTokenValidator struct {
	mock.Mock
}

func (m *MockTokenValidator) Validate(raw string) (auth.AuthClaims, error) {
	args := m.Called(raw)
	claims, _ := args.Get(0).(auth.AuthClaims)
	return claims, args.Error(1)
}

// MockUserStore implements auth.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	user, _ := args.Get(0).(*auth.User)
	return user, args.Error(1)
}

func (m *MockUserStore) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

// MockLoginPayload implements auth.LoginPayload
type MockLoginPayload struct {
	Identifier string
	Password   string
}

func (m MockLoginPayload) GetIdentifier() string {
	return m.Identifier
}

func (m MockLoginPayload) GetPassword() string {
	return m.Password
}

// testConfig implements auth.Config
type testConfig struct {
	signingKey      string
	signingMethod   string
	contextKey      string
	tokenExpiration int
	tokenLookup     string
	authScheme      string
	issuer          string
	audience        []string
}

func newTestConfig() *testConfig {
	return &testConfig{
		signingKey:      "test-signing-key-0123456789",
		signingMethod:   "HS256",
		contextKey:      "user",
		tokenExpiration: 30,
		tokenLookup:     "header:Authorization",
		authScheme:      "Bearer",
		issuer:          "authkit-test",
	}
}

func (c *testConfig) GetSigningKey() string    { return c.signingKey }
func (c *testConfig) GetSigningMethod() string { return c.signingMethod }
func (c *testConfig) GetContextKey() string    { return c.contextKey }
func (c *testConfig) GetTokenExpiration() int  { return c.tokenExpiration }
func (c *testConfig) GetTokenLookup() string   { return c.tokenLookup }
func (c *testConfig) GetAuthScheme() string    { return c.authScheme }
func (c *testConfig) GetIssuer() string        { return c.issuer }
func (c *testConfig) GetAudience() []string    { return c.audience }

// recordingSink captures activity events for assertions.
type recordingSink struct {
	mu     sync.Mutex
	events []auth.ActivityEvent
}

func (s *recordingSink) Record(ctx context.Context, event auth.ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

func (s *recordingSink) Events() []auth.ActivityEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]auth.ActivityEvent, len(s.events))
	copy(out, s.events)
	return out
}

// noopTestLogger silences component logging in tests.
type noopTestLogger struct{}

func (noopTestLogger) Debug(format string, args ...any) {}
func (noopTestLogger) Info(format string, args ...any)  {}
func (noopTestLogger) Warn(format string, args ...any)  {}
func (noopTestLogger) Error(format string, args ...any) {}
