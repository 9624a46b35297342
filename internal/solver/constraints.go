package solver

import (
	"github.com/goodwing/timetabler/internal/model"
)

// Checker detects hard-constraint violations: two courses sharing a room or
// a teacher in the same timeslot. A (resource, timeslot) group of size n
// contributes n-1 overlaps, so a clean schedule counts zero.
type Checker struct {
	schedule *model.Schedule
}

func NewChecker(schedule *model.Schedule) *Checker {
	return &Checker{schedule: schedule}
}

// Overlaps counts the double-bookings of the given resource kind over the
// whole schedule.
func (c *Checker) Overlaps(kind model.ResourceKind) int {
	overlaps := 0
	for _, size := range c.schedule.GroupSizes(kind) {
		overlaps += size - 1
	}
	return overlaps
}

func (c *Checker) RoomOverlaps() int {
	return c.Overlaps(model.RoomResource)
}

func (c *Checker) TeacherOverlaps() int {
	return c.Overlaps(model.TeacherResource)
}

// groupContribution is the incremental form: the overlap contribution of the
// single group occupied by (key, slot), so a move's effect on the overlap
// count follows from inspecting only the groups it touches.
func groupContribution(schedule *model.Schedule, key model.ResourceKey, slot uint64) int {
	size := schedule.OccupancyAt(key, slot)
	if size <= 1 {
		return 0
	}
	return size - 1
}
