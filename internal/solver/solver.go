package solver

import (
	"context"

	"go.uber.org/zap"

	"github.com/goodwing/timetabler/internal/model"
)

// Solver searches for a low-penalty timetable within an external budget
// (wall-clock time and/or iteration count). Implementations are anytime:
// whenever the budget runs out they hand back the best incumbent found so
// far, never nothing.
type Solver interface {
	Solve(ctx context.Context, inst *model.Instance) (Result, error)
}

type phase int

const (
	phaseInitializing phase = iota
	phaseSearching
	phaseTerminated
)

func NewAnnealingSolver(cfg Config, logger *zap.Logger) (Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &annealingSolver{cfg: cfg, logger: logger}, nil
}

func NewTabuSolver(cfg Config, logger *zap.Logger) (Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tabuSolver{cfg: cfg, logger: logger}, nil
}
