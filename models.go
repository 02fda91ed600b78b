package auth

import (
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserStatus is the lifecycle status of an account. Only active users
// can authenticate.
type UserStatus = string

const (
	// UserStatusPending means the account was created but not yet verified.
	UserStatusPending UserStatus = "pending"
	// UserStatusActive is the only status that can authenticate.
	UserStatusActive UserStatus = "active"
	// UserStatusSuspended is a reversible administrative lock.
	UserStatusSuspended UserStatus = "suspended"
	// UserStatusDisabled means the account was turned off.
	UserStatusDisabled UserStatus = "disabled"
)

// User is the stored account record. PasswordHash holds only the bcrypt
// output; the clear secret is never persisted.
type User struct {
	bun.BaseModel  `bun:"table:users,alias:usr"`
	ID             uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Username       string     `bun:"username,notnull,unique" json:"username,omitempty"`
	Email          string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash   string     `bun:"password_hash" json:"-"`
	Status         UserStatus `bun:"status,notnull,default:'active'" json:"status,omitempty"`
	LoginAttempts  int        `bun:"login_attempts" json:"login_attempts,omitempty"`
	LoginAttemptAt *time.Time `bun:"login_attempt_at" json:"login_attempt_at,omitempty"`
	LoggedInAt     *time.Time `bun:"loggedin_at" json:"loggedin_at,omitempty"`
	CreatedAt      *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt      *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt      *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureStatus backfills the default status for records created before
// the status column existed.
func (u *User) EnsureStatus() {
	if u.Status == "" {
		u.Status = UserStatusActive
	}
}

// CanAuthenticate reports whether the account's status permits login.
func (u *User) CanAuthenticate() bool {
	u.EnsureStatus()
	return u.Status == UserStatusActive
}

// statusAuthError maps a non-active status to the auth failure callers
// see. The specific status is kept in metadata for logs, not exposed in
// the message.
func statusAuthError(status UserStatus) error {
	if status == "" || status == UserStatusActive {
		return nil
	}
	return errors.New("account cannot authenticate", errors.CategoryAuth).
		WithTextCode(TextCodeInvalidCreds).
		WithCode(errors.CodeUnauthorized).
		WithMetadata(map[string]any{"status": status})
}
