package solver

import (
	"fmt"
	"time"
)

// Weights are the soft-objective coefficients. Conflict is intentionally
// large: hard-constraint violations are priced, not rejected, so the search
// may pass through infeasible states yet is strongly pushed back out.
type Weights struct {
	Conflict   int64
	Balance    int64
	Gap        int64
	Transition int64
}

func DefaultWeights() Weights {
	return Weights{
		Conflict:   1000,
		Balance:    1,
		Gap:        1,
		Transition: 1,
	}
}

func (w Weights) Validate() error {
	if w.Conflict <= 0 {
		return fmt.Errorf("conflict weight must be > 0 (got %d)", w.Conflict)
	}
	if w.Balance < 0 || w.Gap < 0 || w.Transition < 0 {
		return fmt.Errorf("penalty weights must be >= 0")
	}
	return nil
}

type Config struct {
	Weights Weights
	Seed    int64

	// Budget: the search terminates on whichever of the two is exhausted
	// first. Iterations == 0 means no iteration bound, TimeLimit == 0 means
	// no wall-clock bound; at least one must be set.
	Iterations int
	TimeLimit  time.Duration

	// Fraction of proposed moves that are pairwise placement swaps rather
	// than single-course reassignments.
	SwapProbability float64

	// Annealing parameters.
	InitialTemp float64
	FinalTemp   float64
	Alpha       float64

	// Tabu parameters.
	TabuTenure       int
	TabuTenureRand   int
	NeighborsPerIter int
}

func DefaultConfig() Config {
	return Config{
		Weights: DefaultWeights(),
		Seed:    1,

		Iterations: 200_000,
		TimeLimit:  0,

		SwapProbability: 0.3,

		InitialTemp: 50.0,
		FinalTemp:   0.1,
		Alpha:       0.9995,

		TabuTenure:       9,
		TabuTenureRand:   4,
		NeighborsPerIter: 40,
	}
}

func (c Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.Iterations <= 0 && c.TimeLimit <= 0 {
		return fmt.Errorf("either Iterations > 0 or TimeLimit > 0 must be set")
	}
	if c.SwapProbability < 0 || c.SwapProbability > 1 {
		return fmt.Errorf("SwapProbability must lie within [0, 1] (got %f)", c.SwapProbability)
	}
	if c.InitialTemp <= 0 {
		return fmt.Errorf("InitialTemp must be > 0 (got %f)", c.InitialTemp)
	}
	if c.FinalTemp <= 0 || c.FinalTemp >= c.InitialTemp {
		return fmt.Errorf("FinalTemp must lie within (0, InitialTemp) (got %f)", c.FinalTemp)
	}
	if c.Alpha <= 0 || c.Alpha >= 1 {
		return fmt.Errorf("Alpha must lie within (0, 1) (got %f)", c.Alpha)
	}
	if c.TabuTenure <= 0 {
		return fmt.Errorf("TabuTenure must be > 0 (got %d)", c.TabuTenure)
	}
	if c.TabuTenureRand < 0 {
		return fmt.Errorf("TabuTenureRand must be >= 0 (got %d)", c.TabuTenureRand)
	}
	if c.NeighborsPerIter <= 0 {
		return fmt.Errorf("NeighborsPerIter must be > 0 (got %d)", c.NeighborsPerIter)
	}
	return nil
}
