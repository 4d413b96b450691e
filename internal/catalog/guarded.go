package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/facussc24/2026-sub001/internal/infra"
	"github.com/facussc24/2026-sub001/internal/model"

	"github.com/rs/zerolog/log"
)

// GuardedStore runs every call of the wrapped store through a circuit
// breaker. Only transport-level failures count against it; NotFound and
// DuplicateKey are ordinary answers. While open, calls fail immediately
// with model.ErrTransport.
type GuardedStore struct {
	next Store
	cb   *infra.CircuitBreaker
}

// NewGuardedStore wraps next. cfg.IsFailure is overridden; state changes
// are logged unless cfg.OnStateChange is set.
func NewGuardedStore(next Store, cfg infra.CircuitBreakerConfig) *GuardedStore {
	cfg.IsFailure = countsAsOutage
	if cfg.OnStateChange == nil {
		cfg.OnStateChange = func(from, to infra.CBState) {
			log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("catalogo: circuit breaker")
		}
	}
	return &GuardedStore{next: next, cb: infra.NewCircuitBreaker(cfg)}
}

// Breaker exposes the breaker for health reporting.
func (g *GuardedStore) Breaker() *infra.CircuitBreaker { return g.cb }

func countsAsOutage(err error) bool {
	if err == nil {
		return false
	}
	switch model.CodeOf(err) {
	case model.CodeNotFound, model.CodeDuplicateKey:
		return false
	}
	return !errors.Is(err, context.Canceled)
}

func (g *GuardedStore) run(fn func() error) error {
	err := g.cb.Execute(fn)
	if errors.Is(err, infra.ErrCircuitOpen) {
		return fmt.Errorf("%w: %v", model.ErrTransport, err)
	}
	return err
}

func (g *GuardedStore) Get(ctx context.Context, coll model.Collection, id string, dst any) error {
	return g.run(func() error { return g.next.Get(ctx, coll, id, dst) })
}

func (g *GuardedStore) QueryReverseIndex(ctx context.Context, q ReverseQuery) ([]string, error) {
	var ids []string
	err := g.run(func() error {
		var err error
		ids, err = g.next.QueryReverseIndex(ctx, q)
		return err
	})
	return ids, err
}

func (g *GuardedStore) Delete(ctx context.Context, coll model.Collection, id string) error {
	return g.run(func() error { return g.next.Delete(ctx, coll, id) })
}

func (g *GuardedStore) CreateIfAbsent(ctx context.Context, coll model.Collection, id string, rec any) error {
	return g.run(func() error { return g.next.CreateIfAbsent(ctx, coll, id, rec) })
}

func (g *GuardedStore) Write(ctx context.Context, coll model.Collection, id string, rec any, merge bool) error {
	return g.run(func() error { return g.next.Write(ctx, coll, id, rec, merge) })
}

// Ping forwards to the wrapped store when it supports it.
func (g *GuardedStore) Ping(ctx context.Context) error {
	if p, ok := g.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

var _ Store = (*GuardedStore)(nil)
