package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"roster/pkg/db"
)

// GetRoleByID returns the role for id. ErrNotFound when no row matches,
// ErrAmbiguous when more than one does.
func (s *Store) GetRoleByID(ctx context.Context, q db.Querier, id uuid.UUID) (*Role, error) {
	ctx, done := s.observe(ctx, "get_role_by_id")

	var roles []Role
	if err := db.Select(ctx, q, &roles, sqlRoleGetByID, id); err != nil {
		done(err)
		return nil, fmt.Errorf("get role by id: %w", err)
	}

	role, err := one(roles)
	done(err)
	return role, err
}

// InsertRole persists a role. False with a nil error means no row was written.
func (s *Store) InsertRole(ctx context.Context, q db.Querier, role *Role) (bool, error) {
	ctx, done := s.observe(ctx, "insert_role")

	tag, err := db.Exec(ctx, q, sqlRoleInsert, role.RoleID, role.Type)
	if err != nil {
		done(err)
		return false, fmt.Errorf("insert role: %w", err)
	}

	done(nil)
	return tag.RowsAffected() > 0, nil
}

// GetAllRoles returns every role in store-defined order.
func (s *Store) GetAllRoles(ctx context.Context, q db.Querier) ([]Role, error) {
	ctx, done := s.observe(ctx, "get_all_roles")

	var roles []Role
	if err := db.Select(ctx, q, &roles, sqlRoleGetAll); err != nil {
		done(err)
		return nil, fmt.Errorf("get all roles: %w", err)
	}

	done(nil)
	return roles, nil
}
