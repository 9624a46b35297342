package solver

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/goodwing/timetabler/internal/model"
)

// annealingSolver explores the assignment space by simulated annealing:
// improving moves are always accepted, worsening moves with the Metropolis
// probability under a geometrically cooled temperature. Cooling bottoms out
// at FinalTemp instead of stopping there, since termination is the external
// budget's call, not the temperature's.
type annealingSolver struct {
	cfg    Config
	logger *zap.Logger
	phase  phase
}

func (s *annealingSolver) Solve(ctx context.Context, inst *model.Instance) (Result, error) {
	start := time.Now()
	if inst == nil {
		return Result{}, fmt.Errorf("instance is nil")
	}

	rng := rand.New(rand.NewSource(s.cfg.Seed))

	s.phase = phaseInitializing
	sched := seedSchedule(inst, rng)
	eval := NewEvaluator(inst, sched, s.cfg.Weights)

	incumbent := sched.Clone()
	bestObjective := eval.Objective()
	bestBreakdown := eval.Breakdown()
	foundAt := time.Since(start)

	var deadline time.Time
	if s.cfg.TimeLimit > 0 {
		deadline = start.Add(s.cfg.TimeLimit)
	}

	solutions := 0
	evaluations := 1
	iterations := 0
	temperature := s.cfg.InitialTemp

	s.phase = phaseSearching
	for {
		// Budget checks are cooperative: one propose-evaluate-accept cycle
		// always completes before the next check.
		if s.cfg.Iterations > 0 && iterations >= s.cfg.Iterations {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		iterations++

		proposed, ok := proposeMove(inst, sched, rng, s.cfg.SwapProbability)
		if !ok {
			continue
		}

		before := eval.Objective()
		undo := applyMove(eval, proposed)
		evaluations++
		after := eval.Objective()
		delta := after - before

		accept := delta <= 0
		if !accept {
			accept = rng.Float64() < math.Exp(-float64(delta)/temperature)
		}

		if !accept {
			undo()
		} else if after < bestObjective {
			bestObjective = after
			bestBreakdown = eval.Breakdown()
			incumbent = sched.Clone()
			solutions++
			foundAt = time.Since(start)
			s.logger.Info("incumbent improved",
				zap.Int64("objective", after),
				zap.Int("solutions", solutions),
				zap.Int("iteration", iterations),
			)
		}

		temperature *= s.cfg.Alpha
		if temperature < s.cfg.FinalTemp {
			temperature = s.cfg.FinalTemp
		}
	}

	s.phase = phaseTerminated
	incumbent.Freeze()
	return Result{
		Schedule:    incumbent,
		Objective:   bestObjective,
		Breakdown:   bestBreakdown,
		Solutions:   solutions,
		Iterations:  iterations,
		Evaluations: evaluations,
		Duration:    time.Since(start),
		FoundAt:     foundAt,
	}, nil
}
