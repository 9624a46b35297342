package intel

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/goodwing/timetabler/internal/model"
	"github.com/goodwing/timetabler/internal/solver"
)

type Config struct {
	// TopN bounds the usage listings; fewer distinct entities than N yields
	// a shorter listing, never padding.
	TopN int
	// LateWindows are clock ranges like "17:00-18:30"; a course is late when
	// its timeslot starts inside one of them.
	LateWindows []string
}

func DefaultConfig() Config {
	return Config{
		TopN:        3,
		LateWindows: []string{"17:00-18:30", "18:45-20:15"},
	}
}

type UsageCount struct {
	Id    uint64
	Name  string
	Count int
}

// Record is the reporting record: everything the textual report renders,
// derived from a finalized schedule and its solver result.
type Record struct {
	RoomOverlaps    int
	TeacherOverlaps int

	TopN         int
	TopRooms     []UsageCount
	TopTeachers  []UsageCount
	TopTimeslots []UsageCount

	Breakdown      solver.Breakdown
	TotalObjective int64

	Transitions int64

	LateWindows  []string
	LateCourses  int
	TotalCourses int

	Duration      time.Duration
	BestObjective int64
	Solutions     int
}

type window struct {
	start int
	end   int
}

// Collect reduces a finalized schedule plus its objective breakdown to a
// Record. It is a pure function: no mutation, no side effects, and it
// degrades to all-zero counts on an empty schedule instead of failing.
func Collect(inst *model.Instance, result solver.Result, cfg Config) (Record, error) {
	windows, err := parseWindows(cfg.LateWindows)
	if err != nil {
		return Record{}, err
	}
	if cfg.TopN <= 0 {
		return Record{}, fmt.Errorf("TopN must be > 0 (got %d)", cfg.TopN)
	}

	record := Record{
		TopN:           cfg.TopN,
		Breakdown:      result.Breakdown,
		TotalObjective: result.Breakdown.Total(),
		LateWindows:    slices.Clone(cfg.LateWindows),
		Duration:       result.Duration,
		BestObjective:  result.Objective,
		Solutions:      result.Solutions,
	}

	sched := result.Schedule
	if sched == nil || sched.Len() == 0 {
		return record, nil
	}

	checker := solver.NewChecker(sched)
	record.RoomOverlaps = checker.RoomOverlaps()
	record.TeacherOverlaps = checker.TeacherOverlaps()
	record.Transitions = solver.NewEvaluator(inst, sched, solver.DefaultWeights()).TransitionCount()

	roomCounts := make(map[uint64]int)
	teacherCounts := make(map[uint64]int)
	slotCounts := make(map[uint64]int)
	for _, assignment := range sched.Assignments() {
		roomCounts[assignment.Room]++
		teacherCounts[assignment.Teacher]++
		slotCounts[assignment.Timeslot]++

		record.TotalCourses++
		start, _ := inst.SlotMinutes(assignment.Timeslot)
		if isLate(start, windows) {
			record.LateCourses++
		}
	}

	record.TopRooms = topUsage(roomCounts, cfg.TopN, func(id uint64) string { return inst.Rooms[id].Name })
	record.TopTeachers = topUsage(teacherCounts, cfg.TopN, func(id uint64) string { return inst.Teachers[id].Name })
	record.TopTimeslots = topUsage(slotCounts, cfg.TopN, func(id uint64) string {
		return "Timeslot " + strconv.FormatUint(id, 10)
	})

	return record, nil
}

// topUsage ranks entities by descending count with a stable ascending-id
// tie-break, taking at most n.
func topUsage(counts map[uint64]int, n int, name func(uint64) string) []UsageCount {
	usage := make([]UsageCount, 0, len(counts))
	for id, count := range counts {
		usage = append(usage, UsageCount{Id: id, Name: name(id), Count: count})
	}

	slices.SortFunc(usage, func(a, b UsageCount) int {
		if a.Count != b.Count {
			if a.Count > b.Count {
				return -1
			}
			return 1
		}
		if a.Id < b.Id {
			return -1
		} else if a.Id > b.Id {
			return 1
		}
		return 0
	})

	if len(usage) > n {
		usage = usage[:n]
	}
	return usage
}

func isLate(startMinutes int, windows []window) bool {
	for _, w := range windows {
		if startMinutes >= w.start && startMinutes < w.end {
			return true
		}
	}
	return false
}

func parseWindows(ranges []string) ([]window, error) {
	windows := make([]window, 0, len(ranges))
	for _, r := range ranges {
		parts := strings.Split(r, "-")
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed late window %q", r)
		}
		start, err := parseClock(parts[0])
		if err != nil {
			return nil, fmt.Errorf("malformed late window %q: %v", r, err)
		}
		end, err := parseClock(parts[1])
		if err != nil {
			return nil, fmt.Errorf("malformed late window %q: %v", r, err)
		}
		if end <= start {
			return nil, fmt.Errorf("late window %q ends before it starts", r)
		}
		windows = append(windows, window{start: start, end: end})
	}
	return windows, nil
}

func parseClock(clock string) (int, error) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock time %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("malformed clock time %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("malformed clock time %q", clock)
	}
	return hours*60 + minutes, nil
}
