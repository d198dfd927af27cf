package store

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Store exposes typed CRUD and joined reads for users, roles and their
// associations. It keeps no entity state and no connection: every operation
// takes a db.Querier supplied by the caller, which may be the pool, a
// dedicated connection, or an open transaction. Methods are safe for
// concurrent use.
type Store struct {
	log     zerolog.Logger
	metrics *metrics
	tracer  trace.Tracer
}

// Option customises a Store.
type Option func(*Store)

// WithLogger attaches a logger used for per-operation debug logging.
func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// WithMetrics registers operation metrics with the provided registerer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(s *Store) { s.metrics = newMetrics(reg) }
}

// New constructs a Store.
func New(opts ...Option) *Store {
	s := &Store{
		log:    zerolog.Nop(),
		tracer: otel.Tracer("roster/store"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// observe opens a span for an operation and returns a completion callback
// recording duration, outcome and metrics.
func (s *Store) observe(ctx context.Context, op string) (context.Context, func(error)) {
	ctx, span := s.tracer.Start(ctx, "store."+op)
	start := time.Now()

	return ctx, func(err error) {
		elapsed := time.Since(start)
		if s.metrics != nil {
			s.metrics.opDuration.WithLabelValues(op).Observe(elapsed.Seconds())
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
		s.log.Debug().Str("op", op).Dur("elapsed", elapsed).Err(err).Msg("store op")
	}
}

// one reduces a result set that must contain exactly one row.
func one[T any](rows []T) (*T, error) {
	switch len(rows) {
	case 0:
		return nil, ErrNotFound
	case 1:
		return &rows[0], nil
	default:
		return nil, fmt.Errorf("%w: %d rows", ErrAmbiguous, len(rows))
	}
}
