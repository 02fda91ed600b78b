package auth

import (
	"context"

	"github.com/goliatone/go-errors"
)

// UserStore is the storage capability the provider consumes. It is only
// ever asked to fetch a record for comparison; raw secrets never reach
// it.
type UserStore interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// MaxLoginAttempts is the maximum number of failed attempts a user gets
// within the cooldown period.
var MaxLoginAttempts = 5

// CoolDownPeriod is the window in which failed attempts accumulate.
var CoolDownPeriod = "24h"

// UserProvider resolves identities from a UserStore. It is the default
// IdentityProvider implementation.
type UserProvider struct {
	store  UserStore
	logger Logger
}

// NewUserProvider will create a new UserProvider.
func NewUserProvider(store UserStore) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(l Logger) *UserProvider {
	if l != nil {
		u.logger = l
	}
	return u
}

// VerifyIdentity finds the user and compares the password against the
// stored hash. A missing record and a failed comparison return the same
// ErrMismatchedHashAndPassword so callers cannot probe for registered
// identifiers. Store faults are wrapped, not collapsed.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.IsNotFound(err) || errors.Is(err, ErrIdentityNotFound) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, ErrLookupFailure.Category, ErrLookupFailure.Message).
			WithTextCode(ErrLookupFailure.TextCode)
	}

	if err := ensureAuthenticatableUser(user); err != nil {
		if errors.Is(err, ErrIdentityNotFound) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, err
	}

	if user.LoginAttemptAt != nil {
		expired, err := IsOutsideThresholdPeriod(*user.LoginAttemptAt, CoolDownPeriod)
		if err != nil {
			return nil, errors.Wrap(err, errors.CategoryInternal, "failed to calculate login attempt cooldown")
		}

		if expired {
			user.LoginAttempts = 0
		}
	}

	// too many attempts in the window, cool off
	if user.LoginAttempts > MaxLoginAttempts {
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if err2 := u.store.TrackAttemptedLogin(ctx, user); err2 != nil {
			return nil, errors.Wrap(err2, errors.CategoryInternal, "failed to track login attempt")
		}

		return nil, ErrMismatchedHashAndPassword
	}

	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		u.logger.Error("failed to track successful login", "error", err)
	}

	return userIdentity{
		id:       user.ID.String(),
		email:    user.Email,
		username: user.Username,
	}, nil
}

// FindIdentityByIdentifier resolves an identifier without touching
// credentials. Used by the principal resolver on the request path.
func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}

	if err := ensureAuthenticatableUser(user); err != nil {
		return nil, err
	}

	return userIdentity{
		id:       user.ID.String(),
		email:    user.Email,
		username: user.Username,
	}, nil
}

type userIdentity struct {
	id       string
	username string
	email    string
}

func (a userIdentity) ID() string {
	return a.id
}

func (a userIdentity) Username() string {
	return a.username
}

func (a userIdentity) Email() string {
	return a.email
}

var _ Identity = userIdentity{}
var _ IdentityProvider = (*UserProvider)(nil)

func ensureAuthenticatableUser(user *User) error {
	if user == nil {
		return ErrIdentityNotFound
	}

	user.EnsureStatus()
	if err := statusAuthError(user.Status); err != nil {
		return err
	}

	return nil
}
