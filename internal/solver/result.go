package solver

import (
	"time"

	"github.com/goodwing/timetabler/internal/model"
)

// Result is a solver's final state: the frozen incumbent schedule, its
// objective breakdown and the search counters the report layer consumes.
type Result struct {
	Schedule  *model.Schedule
	Objective int64
	Breakdown Breakdown

	// Solutions counts incumbent improvements: accepted moves that beat the
	// best-ever objective. The initial seed is not counted, so a run that
	// never improves on it reports zero.
	Solutions   int
	Iterations  int
	Evaluations int
	Duration    time.Duration

	// FoundAt is when the final incumbent was discovered, used by the
	// portfolio reduction to break objective ties in favor of the earlier
	// discovery.
	FoundAt time.Duration
}
