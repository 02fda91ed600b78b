package auth_test

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/rodbv/authkit"
)

func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	require.NoError(t, err)

	db := bun.NewDB(sqldb, sqlitedialect.New())
	t.Cleanup(func() { db.Close() })

	_, err = db.NewCreateTable().
		Model((*auth.User)(nil)).
		IfNotExists().
		Exec(context.Background())
	require.NoError(t, err)

	return db
}

func registerTestUser(t *testing.T, repo auth.RepositoryManager, email, password string) {
	t.Helper()

	handler := auth.NewRegisterUserHandler(repo, nil)
	err := handler.Execute(context.Background(), auth.RegisterUserMessage{
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)
}

func TestEndToEndCredentialFlow(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	registerTestUser(t, repo, "a@x.com", "testtest")

	provider := auth.NewUserProvider(auth.NewUserStore(repo.Users())).WithLogger(noopTestLogger{})
	auther := auth.NewAuthenticator(provider, newTestConfig()).WithLogger(noopTestLogger{})

	// exchange the credential for a token
	token, err := auther.Login(ctx, "a@x.com", "testtest")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// wrong password and unknown user are the same failure
	_, errWrong := auther.Login(ctx, "a@x.com", "wrong-password")
	_, errUnknown := auther.Login(ctx, "ghost@x.com", "testtest")
	require.Error(t, errWrong)
	require.Error(t, errUnknown)
	assert.ErrorIs(t, errWrong, auth.ErrMismatchedHashAndPassword)
	assert.Equal(t, errWrong, errUnknown)

	// the token resolves back to the account
	principal, err := auther.ResolvePrincipal(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "a", principal.Identifier)
	assert.NotEmpty(t, principal.ID)

	// ownership: self passes, anyone else is forbidden
	assert.NoError(t, auth.AuthorizeOwner(principal, principal.ID))
	assert.ErrorIs(t, auth.AuthorizeOwner(principal, "someone-else"), auth.ErrNotResourceOwner)

	// garbage tokens never resolve
	_, err = auther.ResolvePrincipal(ctx, "not-a-token")
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestLoginAttemptTrackingPersists(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := auth.NewRepositoryManager(db)
	registerTestUser(t, repo, "b@x.com", "testtest")

	provider := auth.NewUserProvider(auth.NewUserStore(repo.Users())).WithLogger(noopTestLogger{})

	for i := 0; i < 3; i++ {
		_, err := provider.VerifyIdentity(ctx, "b@x.com", "bad-password")
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	}

	user, err := repo.Users().GetByIdentifier(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, 3, user.LoginAttempts)
	assert.NotNil(t, user.LoginAttemptAt)

	// a successful login clears the counters
	_, err = provider.VerifyIdentity(ctx, "b@x.com", "testtest")
	require.NoError(t, err)

	user, err = repo.Users().GetByIdentifier(ctx, "b@x.com")
	require.NoError(t, err)
	assert.Equal(t, 0, user.LoginAttempts)
	assert.Nil(t, user.LoginAttemptAt)
	assert.NotNil(t, user.LoggedInAt)
}

func TestLoginLockoutAfterRepeatedFailures(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := auth.NewRepositoryManager(db)
	registerTestUser(t, repo, "c@x.com", "testtest")

	provider := auth.NewUserProvider(auth.NewUserStore(repo.Users())).WithLogger(noopTestLogger{})

	for i := 0; i <= auth.MaxLoginAttempts; i++ {
		_, err := provider.VerifyIdentity(ctx, "c@x.com", "bad-password")
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)
	}

	// over the limit, even the correct password is rejected
	_, err := provider.VerifyIdentity(ctx, "c@x.com", "testtest")
	assert.ErrorIs(t, err, auth.ErrTooManyLoginAttempts)
}

func TestRegisterUserHandler(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := auth.NewRepositoryManager(db)
	sink := &recordingSink{}
	handler := auth.NewRegisterUserHandler(repo, sink)

	err := handler.Execute(ctx, auth.RegisterUserMessage{
		Email:    "d@x.com",
		Password: "testtest",
	})
	require.NoError(t, err)

	user, err := repo.Users().GetByIdentifier(ctx, "d@x.com")
	require.NoError(t, err)
	assert.Equal(t, "d", user.Username, "username defaults to the email local part")
	assert.Equal(t, auth.UserStatusActive, user.Status)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "testtest", user.PasswordHash)

	events := sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, auth.ActivityEventUserRegistered, events[0].EventType)
	assert.Equal(t, user.ID.String(), events[0].UserID)

	// duplicate email conflicts
	err = handler.Execute(ctx, auth.RegisterUserMessage{
		Email:    "d@x.com",
		Password: "testtest",
	})
	require.Error(t, err)

	var richErr *errors.Error
	require.True(t, errors.As(err, &richErr))
	assert.Equal(t, errors.CategoryConflict, richErr.Category)
}

func TestRegisterUserHandlerEmptyPassword(t *testing.T) {
	db := setupTestDB(t)

	repo := auth.NewRepositoryManager(db)
	handler := auth.NewRegisterUserHandler(repo, nil)

	err := handler.Execute(context.Background(), auth.RegisterUserMessage{
		Email: "e@x.com",
	})
	require.Error(t, err)

	var richErr *errors.Error
	require.True(t, errors.As(err, &richErr))
	assert.Equal(t, errors.CategoryValidation, richErr.Category)
}

func TestRegisterUserHandlerHashid(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := auth.NewRepositoryManager(db)
	handler := auth.NewRegisterUserHandler(repo, nil)

	err := handler.Execute(ctx, auth.RegisterUserMessage{
		Email:     "f@x.com",
		Password:  "testtest",
		UseHashid: true,
	})
	require.NoError(t, err)

	user, err := repo.Users().GetByIdentifier(ctx, "f@x.com")
	require.NoError(t, err)

	// hashid derives a stable id from the email
	expected, err := hashid.NewUUID("f@x.com")
	require.NoError(t, err)
	assert.Equal(t, expected, user.ID)
}

func TestGetByIdentifierAcceptsIDEmailOrUsername(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	repo := auth.NewRepositoryManager(db)
	registerTestUser(t, repo, "g@x.com", "testtest")

	byEmail, err := repo.Users().GetByIdentifier(ctx, "g@x.com")
	require.NoError(t, err)

	byUsername, err := repo.Users().GetByIdentifier(ctx, "g")
	require.NoError(t, err)
	assert.Equal(t, byEmail.ID, byUsername.ID)

	byID, err := repo.Users().GetByIdentifier(ctx, byEmail.ID.String())
	require.NoError(t, err)
	assert.Equal(t, byEmail.ID, byID.ID)

	_, err = repo.Users().GetByIdentifier(ctx, "nobody@x.com")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}
