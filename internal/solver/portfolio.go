package solver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goodwing/timetabler/internal/model"
)

type SolverFactory func(Config, *zap.Logger) (Solver, error)

// Portfolio runs independent solver instances with derived seeds in
// parallel. The instances share nothing mutable (each seeds and mutates its
// own schedule; the Instance itself is read-only during search), so the only
// synchronization point is the final reduction picking the global best.
type Portfolio struct {
	cfg     Config
	workers int
	factory SolverFactory
	logger  *zap.Logger
}

func NewPortfolio(cfg Config, workers int, factory SolverFactory, logger *zap.Logger) (*Portfolio, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if workers <= 0 {
		return nil, fmt.Errorf("workers must be > 0 (got %d)", workers)
	}
	if factory == nil {
		return nil, fmt.Errorf("solver factory is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Portfolio{cfg: cfg, workers: workers, factory: factory, logger: logger}, nil
}

func (p *Portfolio) Solve(ctx context.Context, inst *model.Instance) (Result, error) {
	type outcome struct {
		worker int
		result Result
		err    error
	}

	outcomes := make(chan outcome)

	// Execute solver instances on different goroutines and collect their
	// incumbents over a channel.
	for worker := 0; worker < p.workers; worker++ {
		go func(worker int) {
			cfg := p.cfg
			cfg.Seed = p.cfg.Seed + int64(worker)

			instance, err := p.factory(cfg, p.logger.With(zap.Int("worker", worker)))
			if err != nil {
				outcomes <- outcome{worker: worker, err: err}
				return
			}

			result, err := instance.Solve(ctx, inst)
			outcomes <- outcome{worker: worker, result: result, err: err}
		}(worker)
	}

	results := make([]*Result, p.workers)
	var firstErr error

	collected := 0
	for out := range outcomes {
		if out.err != nil {
			if firstErr == nil {
				firstErr = out.err
			}
		} else {
			result := out.result
			results[out.worker] = &result
		}

		if collected++; collected == p.workers {
			close(outcomes)
		}
	}

	// Reduce in worker order: lower objective wins, ties go to the earlier
	// discovery, then to the lower worker index.
	var best *Result
	for _, result := range results {
		if result == nil {
			continue
		}
		if best == nil ||
			result.Objective < best.Objective ||
			(result.Objective == best.Objective && result.FoundAt < best.FoundAt) {
			best = result
		}
	}

	if best == nil {
		if firstErr != nil {
			return Result{}, firstErr
		}
		return Result{}, fmt.Errorf("no solver produced a result")
	}
	return *best, nil
}
