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

// tabuSolver samples a fixed number of candidate moves per iteration, takes
// the best one that is not tabu (aspiration: a move beating the incumbent is
// always allowed) and forbids its reverse for a randomized tenure.
type tabuSolver struct {
	cfg    Config
	logger *zap.Logger
	phase  phase
}

func (s *tabuSolver) Solve(ctx context.Context, inst *model.Instance) (Result, error) {
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

	tabu := newTabuList(max(32, (s.cfg.TabuTenure+s.cfg.TabuTenureRand)*4))

	solutions := 0
	evaluations := 1
	iterations := 0

	s.phase = phaseSearching
	for {
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

		var bestMove, fallbackMove move
		bestCost := int64(math.MaxInt64)
		fallbackCost := int64(math.MaxInt64)
		haveBest, haveFallback := false, false

		for k := 0; k < s.cfg.NeighborsPerIter; k++ {
			candidate, ok := proposeMove(inst, sched, rng, s.cfg.SwapProbability)
			if !ok {
				continue
			}

			undo := applyMove(eval, candidate)
			evaluations++
			cost := eval.Objective()
			undo()

			if !haveFallback || cost < fallbackCost {
				fallbackMove, fallbackCost = candidate, cost
				haveFallback = true
			}

			if tabu.IsTabu(candidate.key(), iterations) && cost >= bestObjective {
				continue
			}
			if !haveBest || cost < bestCost {
				bestMove, bestCost = candidate, cost
				haveBest = true
			}
		}

		// Every sampled move was tabu without aspiration: take the best one
		// regardless, standing still helps nobody.
		chosen, chosenCost := bestMove, bestCost
		if !haveBest {
			if !haveFallback {
				continue
			}
			chosen, chosenCost = fallbackMove, fallbackCost
		}

		applyMove(eval, chosen)

		tenure := s.cfg.TabuTenure
		if s.cfg.TabuTenureRand > 0 {
			tenure += rng.Intn(s.cfg.TabuTenureRand + 1)
		}
		tabu.Add(chosen.reverseKey(), iterations+tenure)

		if chosenCost < bestObjective {
			bestObjective = chosenCost
			bestBreakdown = eval.Breakdown()
			incumbent = sched.Clone()
			solutions++
			foundAt = time.Since(start)
			s.logger.Info("incumbent improved",
				zap.Int64("objective", chosenCost),
				zap.Int("solutions", solutions),
				zap.Int("iteration", iterations),
			)
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

// tabuList is a ring buffer of forbidden move keys with a map for O(1)
// expiry lookups.
type tabuList struct {
	m   map[uint64]int
	key []uint64
	exp []int
	i   int
	n   int
}

func newTabuList(capacity int) *tabuList {
	if capacity < 8 {
		capacity = 8
	}
	return &tabuList{
		m:   make(map[uint64]int, capacity*2),
		key: make([]uint64, capacity),
		exp: make([]int, capacity),
	}
}

func (t *tabuList) IsTabu(k uint64, iter int) bool {
	exp, ok := t.m[k]
	return ok && exp > iter
}

func (t *tabuList) Add(k uint64, expiry int) {
	// Evict only once the ring has wrapped: the occupancy counter, not a
	// sentinel key value, decides whether slot i holds a live entry.
	if t.n < len(t.key) {
		t.n++
	} else {
		oldKey, oldExp := t.key[t.i], t.exp[t.i]
		if curExp, ok := t.m[oldKey]; ok && curExp == oldExp {
			delete(t.m, oldKey)
		}
	}

	t.key[t.i] = k
	t.exp[t.i] = expiry
	t.m[k] = expiry

	t.i++
	if t.i >= len(t.key) {
		t.i = 0
	}
}
