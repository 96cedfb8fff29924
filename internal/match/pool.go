package match

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Pool runs independent matches on a bounded number of goroutines.
type Pool struct {
	runner  *Runner
	workers int
	logger  zerolog.Logger
}

func NewPool(runner *Runner, workers int, logger zerolog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{
		runner:  runner,
		workers: workers,
		logger:  logger.With().Str("component", "MatchPool").Logger(),
	}
}

// RunAll plays every spec and returns outcomes in spec order. A failed
// match is reported in its Outcome.Err; only cancellation of ctx aborts
// the whole run.
func (p *Pool) RunAll(ctx context.Context, specs []Spec) ([]Outcome, error) {
	outcomes := make([]Outcome, len(specs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	p.logger.Info().Int("matches", len(specs)).Int("workers", p.workers).Msg("Starting match pool")
	for i := range specs {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := p.runner.Run(gctx, specs[i])
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				p.logger.Error().Err(err).Int("index", i).Int64("seed", specs[i].Seed).Msg("Match failed")
				out = Outcome{Seed: specs[i].Seed, Err: err}
			}
			outcomes[i] = out
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	p.logger.Info().Int("matches", len(specs)).Msg("Match pool finished")
	return outcomes, nil
}
