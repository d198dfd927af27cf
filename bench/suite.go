package bench

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"roster/store"
)

// Suite seeds the store and times representative operations, including the
// two-writer conflict scenario that exercises the concurrency token protocol.
type Suite struct {
	pool  *pgxpool.Pool
	store *store.Store
	log   zerolog.Logger

	ids    []uuid.UUID
	cursor int
	rng    *rand.Rand
}

// Result is the timing outcome of one scenario.
type Result struct {
	Name  string
	Ops   int
	Total time.Duration
	PerOp time.Duration
}

// New constructs a Suite. Seed must be called before Run.
func New(pool *pgxpool.Pool, st *store.Store, log zerolog.Logger) *Suite {
	return &Suite{
		pool:  pool,
		store: st,
		log:   log,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed populates the store with rows users.
func (s *Suite) Seed(ctx context.Context, rows int) error {
	ids, err := Seed(ctx, s.pool, s.store, rows)
	if err != nil {
		return err
	}
	s.ids = ids
	s.cursor = 0
	s.log.Info().Int("rows", rows).Msg("seeded users")
	return nil
}

// Cleanup removes seeded data.
func (s *Suite) Cleanup(ctx context.Context) error {
	deleted, err := Cleanup(ctx, s.pool, s.store)
	if err != nil {
		return err
	}
	s.log.Info().Int64("deleted", deleted).Msg("cleaned up users")
	s.ids = nil
	return nil
}

func (s *Suite) nextID() uuid.UUID {
	if len(s.ids) == 0 {
		return uuid.Nil
	}
	if s.cursor >= len(s.ids) {
		s.cursor = 0
	}
	id := s.ids[s.cursor]
	s.cursor++
	return id
}

type scenario struct {
	name string
	run  func(context.Context) error
}

// Run executes every scenario ops times and returns per-scenario timings.
func (s *Suite) Run(ctx context.Context, ops int) ([]Result, error) {
	if len(s.ids) == 0 {
		return nil, errors.New("bench: suite not seeded")
	}

	scenarios := []scenario{
		{name: "get_user", run: s.getUser},
		{name: "update_ok", run: s.updateOK},
		{name: "update_conflict", run: s.updateConflict},
		{name: "name_projections", run: s.nameProjections},
	}

	results := make([]Result, 0, len(scenarios))
	for _, sc := range scenarios {
		start := time.Now()
		for i := 0; i < ops; i++ {
			if err := sc.run(ctx); err != nil {
				return nil, fmt.Errorf("bench %s: %w", sc.name, err)
			}
		}
		total := time.Since(start)
		result := Result{
			Name:  sc.name,
			Ops:   ops,
			Total: total,
			PerOp: total / time.Duration(ops),
		}
		results = append(results, result)
		s.log.Info().
			Str("scenario", result.Name).
			Int("ops", result.Ops).
			Dur("total", result.Total).
			Dur("per_op", result.PerOp).
			Msg("scenario complete")
	}
	return results, nil
}

func (s *Suite) getUser(ctx context.Context) error {
	user, err := s.store.GetUserByID(ctx, s.pool, s.nextID())
	if err != nil {
		return err
	}
	if user == nil {
		return errors.New("get returned no user")
	}
	return nil
}

func (s *Suite) updateOK(ctx context.Context) error {
	user, err := s.store.GetUserByID(ctx, s.pool, s.nextID())
	if err != nil {
		return err
	}

	user.Username = "Johnny"
	updated, err := s.store.UpdateUser(ctx, s.pool, user)
	if err != nil {
		return err
	}
	if !updated {
		return errors.New("uncontended update reported a conflict")
	}
	return nil
}

// updateConflict fetches the same row over two connections, updates it on
// both, and requires the second write to lose.
func (s *Suite) updateConflict(ctx context.Context) error {
	conn1, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn1.Release()

	conn2, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn2.Release()

	id := s.nextID()
	u1, err := s.store.GetUserByID(ctx, conn1.Conn(), id)
	if err != nil {
		return err
	}
	u2, err := s.store.GetUserByID(ctx, conn2.Conn(), id)
	if err != nil {
		return err
	}

	u2.Username = fmt.Sprint(s.rng.Intn(1000000))
	won, err := s.store.UpdateUser(ctx, conn2.Conn(), u2)
	if err != nil {
		return err
	}
	if !won {
		return errors.New("first writer unexpectedly lost")
	}

	u1.Username = fmt.Sprint(s.rng.Intn(1000000))
	won, err = s.store.UpdateUser(ctx, conn1.Conn(), u1)
	if err != nil {
		return err
	}
	if won {
		return errors.New("stale token was accepted")
	}
	return nil
}

func (s *Suite) nameProjections(ctx context.Context) error {
	projections, err := s.store.GetAllNameProjections(ctx, s.pool)
	if err != nil {
		return err
	}
	if len(projections) == 0 {
		return errors.New("no name projections returned")
	}
	return nil
}
