package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/goodwing/timetabler/internal/csvio"
	"github.com/goodwing/timetabler/internal/intel"
	"github.com/goodwing/timetabler/internal/model"
	"github.com/goodwing/timetabler/internal/solver"
)

var (
	validSolvers = []string{"annealing", "tabu"}
	solvers      = map[string]solver.SolverFactory{
		"annealing": solver.NewAnnealingSolver,
		"tabu":      solver.NewTabuSolver,
	}
)

func main() {
	// Define arguments
	filePtr := flag.String("file", "", "Path to the JSON input file")
	csvDirPtr := flag.String("csv", "", "Directory containing courses.csv, rooms.csv, teachers.csv and timeslots.csv; overrides -file")
	solverPtr := flag.String("solver", "annealing", "Search strategy to use. Allowed values are: \"annealing\" and \"tabu\", where \"annealing\" is the default")
	iterationsPtr := flag.Int("iterations", 0, "Iteration budget; 0 means unbounded (requires -time)")
	timePtr := flag.Duration("time", time.Minute, "Wall-clock budget; 0 means unbounded (requires -iterations)")
	seedPtr := flag.Int64("seed", 1, "Random seed; workers derive their own seeds from it")
	workersPtr := flag.Int("workers", 1, "Number of independent solver instances to run in parallel")
	swapPtr := flag.Float64("swap", 0.3, "Fraction of proposed moves that are pairwise swaps (between 0 and 1)")
	latePtr := flag.String("late", "17:00-18:30,18:45-20:15", "Comma-separated late timeslot ranges")
	outPtr := flag.String("out", "", "Path to the file where the report will be written; if empty, it'll be written into the Standard Output")
	exportPtr := flag.String("export", "", "Path to a CSV file where the final schedule will be exported; if empty, no export happens")
	verbosePtr := flag.Bool("verbose", false, "Log incumbent improvements to stderr")
	flag.Parse()
	solverStr := strings.ToLower(*solverPtr)

	// Validate arguments
	if !slices.Contains(validSolvers, solverStr) {
		log.Fatalf("%v is not a valid solver", solverStr)
	} else if *filePtr == "" && *csvDirPtr == "" {
		log.Fatal("an input file (-file) or CSV directory (-csv) must be specified")
	} else if *iterationsPtr <= 0 && *timePtr <= 0 {
		log.Fatal("a budget must be specified: -iterations > 0 or -time > 0")
	} else if *workersPtr < 1 {
		log.Fatalf("workers must be >= 1: %v", *workersPtr)
	}

	// Extract input
	var input model.ModelInput
	var err error
	if *csvDirPtr != "" {
		dir := *csvDirPtr
		input, err = csvio.LoadInput(
			dir+"/courses.csv",
			dir+"/rooms.csv",
			dir+"/teachers.csv",
			dir+"/timeslots.csv",
		)
	} else {
		input, err = model.InputFromJson(*filePtr)
	}
	if err != nil {
		log.Fatalf("cannot parse input: %v", err)
	}

	inst, err := model.NewInstance(input)
	if err != nil {
		log.Fatalf("inconsistent input: %v", err)
	}

	logger := zap.NewNop()
	if *verbosePtr {
		logger, err = zap.NewDevelopment()
		if err != nil {
			log.Fatalf("cannot initialize logger: %v", err)
		}
		defer logger.Sync()
	}

	// Configure the search
	cfg := solver.DefaultConfig()
	cfg.Seed = *seedPtr
	cfg.Iterations = *iterationsPtr
	cfg.TimeLimit = *timePtr
	cfg.SwapProbability = *swapPtr

	statsCfg := intel.DefaultConfig()
	statsCfg.LateWindows = lo.Map(strings.Split(*latePtr, ","), func(window string, _ int) string {
		return strings.TrimSpace(window)
	})

	// Run the search
	portfolio, err := solver.NewPortfolio(cfg, *workersPtr, solvers[solverStr], logger)
	if err != nil {
		log.Fatalf("cannot initialize solver: %v", err)
	}

	result, err := portfolio.Solve(context.Background(), inst)
	if err != nil {
		log.Fatalf("an error occurred during the search: %v", err)
	}

	// Collect statistics and render the report
	record, err := intel.Collect(inst, result, statsCfg)
	if err != nil {
		log.Fatalf("cannot collect statistics: %v", err)
	}
	report := intel.Render(record)

	if *outPtr == "" {
		fmt.Print(report)
	} else if err := os.WriteFile(*outPtr, []byte(report), 0644); err != nil {
		log.Fatalf("cannot write report: %v", err)
	}

	if *exportPtr != "" {
		if err := csvio.WriteSchedule(*exportPtr, inst, result.Schedule); err != nil {
			log.Fatalf("cannot export schedule: %v", err)
		}
	}
}
