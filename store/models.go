package store

import (
	"time"

	"github.com/google/uuid"
)

// Role is a permission grouping users can be assigned to. Identity is
// generated client-side at construction and is immutable once persisted.
type Role struct {
	RoleID uuid.UUID `db:"role_id"`
	Type   string    `db:"type"`
}

// NewRole constructs a Role with a fresh identity.
func NewRole(roleType string) *Role {
	return &Role{RoleID: uuid.New(), Type: roleType}
}

// User is an account row. ConcurrencyToken is assigned by the database on
// every successful insert or update and must never be set by callers; a stale
// token is how a lost update is detected. Roles is a transient projection
// populated only by GetUserWithRolesByID, never a source of truth.
type User struct {
	UserID           uuid.UUID  `db:"user_id"`
	Username         string     `db:"username"`
	Email            string     `db:"email"`
	PasswordHash     string     `db:"password_hash"`
	DeactivatedOn    *time.Time `db:"deactivated_on"`
	GDPRSignedOn     *time.Time `db:"gdpr_signed_on"`
	ConcurrencyToken uuid.UUID  `db:"concurrency_token"`

	Roles []Role `db:"-"`
}

// NewUser constructs a User with a fresh identity. The concurrency token is
// left zero until the first insert round trip fills it in.
func NewUser(username, email, passwordHash string) *User {
	return &User{
		UserID:       uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
	}
}

// UserRole links a user to a role. It has no identity of its own and the
// schema does not forbid duplicate pairs.
type UserRole struct {
	UserID uuid.UUID `db:"user_id"`
	RoleID uuid.UUID `db:"role_id"`
}

// NameProjection is a narrow read model over users, decoupled from the full
// User shape.
type NameProjection struct {
	ID   uuid.UUID `db:"id"`
	Name string    `db:"name"`
}
