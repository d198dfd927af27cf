package store

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"roster/pkg/db"
)

// GetUserByID returns the user row for id. ErrNotFound when no row matches,
// ErrAmbiguous when more than one does.
func (s *Store) GetUserByID(ctx context.Context, q db.Querier, id uuid.UUID) (*User, error) {
	ctx, done := s.observe(ctx, "get_user_by_id")

	var users []User
	if err := db.Select(ctx, q, &users, sqlUserGetByID, id); err != nil {
		done(err)
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	user, err := one(users)
	done(err)
	return user, err
}

// GetAllUsers returns every user row in store-defined order.
func (s *Store) GetAllUsers(ctx context.Context, q db.Querier) ([]User, error) {
	ctx, done := s.observe(ctx, "get_all_users")

	var users []User
	if err := db.Select(ctx, q, &users, sqlUserGetAll); err != nil {
		done(err)
		return nil, fmt.Errorf("get all users: %w", err)
	}

	done(nil)
	return users, nil
}

// InsertUser persists a user whose identity was assigned at construction. On
// success the database-assigned concurrency token is written back into user
// and the call reports true. False with a nil error means no row was written.
// Constraint violations propagate as errors.
func (s *Store) InsertUser(ctx context.Context, q db.Querier, user *User) (bool, error) {
	ctx, done := s.observe(ctx, "insert_user")

	var token uuid.UUID
	err := db.Get(ctx, q, &token, sqlUserInsert,
		user.UserID, user.Username, user.Email, user.PasswordHash, user.DeactivatedOn, user.GDPRSignedOn)
	if err != nil {
		if pgxscan.NotFound(err) {
			done(nil)
			return false, nil
		}
		done(err)
		return false, fmt.Errorf("insert user: %w", err)
	}

	user.ConcurrencyToken = token
	done(nil)
	return true, nil
}

// UpdateUser applies all mutable user columns, gated solely on the caller's
// concurrency token: the statement matches on user_id and the token as last
// read by this caller. When another writer advanced the token first, zero rows
// match and the call reports false, leaving the caller's token stale so it can
// reload and retry or abort. On success the token advances in the same
// statement and is written back into user.
//
// Serialisation of two racing updates relies on the database holding row
// locks on write under at least read-committed isolation; weaker isolation
// levels void the conflict guarantee.
func (s *Store) UpdateUser(ctx context.Context, q db.Querier, user *User) (bool, error) {
	ctx, done := s.observe(ctx, "update_user")

	var token uuid.UUID
	err := db.Get(ctx, q, &token, sqlUserUpdate,
		user.UserID, user.Username, user.Email, user.PasswordHash, user.DeactivatedOn, user.GDPRSignedOn,
		user.ConcurrencyToken)
	if err != nil {
		if pgxscan.NotFound(err) {
			if s.metrics != nil {
				s.metrics.writeConflicts.Inc()
			}
			done(nil)
			return false, nil
		}
		done(err)
		return false, fmt.Errorf("update user: %w", err)
	}

	user.ConcurrencyToken = token
	done(nil)
	return true, nil
}

// DeleteAllUsers removes every user row, cascading over role assignments, and
// reports how many user rows went away. It exists for benchmark and test
// cleanup.
func (s *Store) DeleteAllUsers(ctx context.Context, q db.Querier) (int64, error) {
	ctx, done := s.observe(ctx, "delete_all_users")

	tag, err := db.Exec(ctx, q, sqlUserDeleteAll)
	if err != nil {
		done(err)
		return 0, fmt.Errorf("delete all users: %w", err)
	}

	done(nil)
	return tag.RowsAffected(), nil
}

// GetAllNameProjections returns the id/name read model for every user.
func (s *Store) GetAllNameProjections(ctx context.Context, q db.Querier) ([]NameProjection, error) {
	ctx, done := s.observe(ctx, "get_all_name_projections")

	var projections []NameProjection
	if err := db.Select(ctx, q, &projections, sqlNameProjectionGetAll); err != nil {
		done(err)
		return nil, fmt.Errorf("get name projections: %w", err)
	}

	done(nil)
	return projections, nil
}

// userRoleRow is one row of the user/role inner join.
type userRoleRow struct {
	UserID           uuid.UUID  `db:"user_id"`
	Username         string     `db:"username"`
	Email            string     `db:"email"`
	PasswordHash     string     `db:"password_hash"`
	DeactivatedOn    *time.Time `db:"deactivated_on"`
	GDPRSignedOn     *time.Time `db:"gdpr_signed_on"`
	ConcurrencyToken uuid.UUID  `db:"concurrency_token"`
	RoleID           uuid.UUID  `db:"role_id"`
	RoleType         string     `db:"role_type"`
}

// split separates a joined row into its user and role halves.
func (r userRoleRow) split() (User, Role) {
	user := User{
		UserID:           r.UserID,
		Username:         r.Username,
		Email:            r.Email,
		PasswordHash:     r.PasswordHash,
		DeactivatedOn:    r.DeactivatedOn,
		GDPRSignedOn:     r.GDPRSignedOn,
		ConcurrencyToken: r.ConcurrencyToken,
	}
	role := Role{RoleID: r.RoleID, Type: r.RoleType}
	return user, role
}

// collateUserRows groups joined rows by user identity, appending roles in
// result-set order. ErrNotFound when the set is empty.
func collateUserRows(rows []userRoleRow) (*User, error) {
	if len(rows) == 0 {
		return nil, ErrNotFound
	}

	user, role := rows[0].split()
	user.Roles = append(user.Roles, role)
	for _, row := range rows[1:] {
		if row.UserID != user.UserID {
			continue
		}
		_, role := row.split()
		user.Roles = append(user.Roles, role)
	}
	return &user, nil
}

// GetUserWithRolesByID returns the user with its Roles projection populated
// from the association table. The join is inner: a user with zero role
// assignments is reported as ErrNotFound even though the user row exists.
func (s *Store) GetUserWithRolesByID(ctx context.Context, q db.Querier, id uuid.UUID) (*User, error) {
	ctx, done := s.observe(ctx, "get_user_with_roles_by_id")

	var rows []userRoleRow
	if err := db.Select(ctx, q, &rows, sqlUserGetByIDWithRoles, id); err != nil {
		done(err)
		return nil, fmt.Errorf("get user with roles: %w", err)
	}

	user, err := collateUserRows(rows)
	done(err)
	return user, err
}
