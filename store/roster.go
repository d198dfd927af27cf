package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Roster composes store operations into units of work that commit or roll
// back as one. Unlike Store it owns the pool, because it is the component
// that opens transactions.
type Roster struct {
	pool         *pgxpool.Pool
	store        *Store
	hashPassword func(string) string
}

// RosterOption customises a Roster.
type RosterOption func(*Roster)

// WithPasswordHasher replaces the password hash function. The default is a
// pass-through stub; production deployments must supply a real hasher.
func WithPasswordHasher(fn func(string) string) RosterOption {
	return func(r *Roster) { r.hashPassword = fn }
}

// NewRoster constructs a Roster over the provided pool and store.
func NewRoster(pool *pgxpool.Pool, store *Store, opts ...RosterOption) *Roster {
	r := &Roster{
		pool:         pool,
		store:        store,
		hashPassword: func(password string) string { return password },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// InTransaction runs fn inside a transaction, committing when fn returns nil
// and rolling back otherwise.
func (r *Roster) InTransaction(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// CreateUser creates a user and its role assignments atomically: either the
// user row and every assignment are persisted, or none are. The new user's
// username is its email and its concurrency token is the one assigned by the
// insert.
func (r *Roster) CreateUser(ctx context.Context, email, password string, gdprAccepted bool, roleIDs []uuid.UUID) (*User, error) {
	user := NewUser(email, email, r.hashPassword(password))
	if gdprAccepted {
		now := time.Now().UTC()
		user.GDPRSignedOn = &now
	}

	err := r.InTransaction(ctx, func(tx pgx.Tx) error {
		inserted, err := r.store.InsertUser(ctx, tx, user)
		if err != nil {
			return err
		}
		if !inserted {
			return errors.New("create user: insert affected no rows")
		}

		if len(roleIDs) == 0 {
			return nil
		}

		links := make([]UserRole, 0, len(roleIDs))
		for _, roleID := range roleIDs {
			links = append(links, UserRole{UserID: user.UserID, RoleID: roleID})
		}

		assigned, err := r.store.InsertUserRoles(ctx, tx, links)
		if err != nil {
			return err
		}
		if !assigned {
			return errors.New("create user: role assignments affected no rows")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// GetAllUsers returns every user row.
func (r *Roster) GetAllUsers(ctx context.Context) ([]User, error) {
	return r.store.GetAllUsers(ctx, r.pool)
}
