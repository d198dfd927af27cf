package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"roster/pkg/db"
)

// GetAllUserRoles returns every user/role association in store-defined order.
func (s *Store) GetAllUserRoles(ctx context.Context, q db.Querier) ([]UserRole, error) {
	ctx, done := s.observe(ctx, "get_all_user_roles")

	var links []UserRole
	if err := db.Select(ctx, q, &links, sqlUserRoleGetAll); err != nil {
		done(err)
		return nil, fmt.Errorf("get all user roles: %w", err)
	}

	done(nil)
	return links, nil
}

// InsertUserRoles writes all associations as one batch in a single round trip
// and reports true iff at least one row was affected overall. A failing row
// aborts the whole batch; individual row outcomes are not distinguishable
// beyond the aggregate count.
func (s *Store) InsertUserRoles(ctx context.Context, q db.Querier, links []UserRole) (bool, error) {
	ctx, done := s.observe(ctx, "insert_user_roles")

	if len(links) == 0 {
		done(nil)
		return false, nil
	}

	batch := &pgx.Batch{}
	for _, link := range links {
		batch.Queue(sqlUserRoleInsert, link.UserID, link.RoleID)
	}

	var affected int64
	err := db.WithTimeout(ctx, db.DefaultTimeout, func(ctx context.Context) error {
		results := q.SendBatch(ctx, batch)
		defer results.Close()

		for range links {
			tag, err := results.Exec()
			if err != nil {
				return err
			}
			affected += tag.RowsAffected()
		}
		return nil
	})
	if err != nil {
		done(err)
		return false, fmt.Errorf("insert user roles: %w", err)
	}

	done(nil)
	return affected > 0, nil
}
