package bench

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"roster/store"
)

// seedPasswordHash is a fixed stand-in; hashing cost is not what these
// scenarios measure.
const seedPasswordHash = "219031209481029348"

func seedEmail(i int) string {
	return fmt.Sprintf("alex%d@skynet.res", i)
}

// Seed inserts rows users and returns their identities in insertion order.
func Seed(ctx context.Context, pool *pgxpool.Pool, st *store.Store, rows int) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, rows)
	for i := 0; i < rows; i++ {
		email := seedEmail(i)
		user := store.NewUser(email, email, seedPasswordHash)

		inserted, err := st.InsertUser(ctx, pool, user)
		if err != nil {
			return nil, fmt.Errorf("seed user %d: %w", i, err)
		}
		if !inserted {
			return nil, errors.New("seeding failed to create user entry")
		}

		ids = append(ids, user.UserID)
	}
	return ids, nil
}

// Cleanup removes all seeded users (role assignments cascade).
func Cleanup(ctx context.Context, pool *pgxpool.Pool, st *store.Store) (int64, error) {
	return st.DeleteAllUsers(ctx, pool)
}
