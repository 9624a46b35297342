package solver

import (
	"math/rand"

	"github.com/goodwing/timetabler/internal/model"
)

// move is a candidate mutation: either a single-course reassignment or a
// pairwise placement swap between two courses.
type move struct {
	swap   bool
	course uint64
	other  uint64
	from   model.Placement
	to     model.Placement
}

// Packed key field widths: 24 bits of course id and 20 bits of timeslot id
// for a reassignment, 28 bits per course id for a swap. Ids beyond these
// widths are masked, so they may alias; that only blurs the tabu memory,
// it never corrupts the schedule.
const (
	keyCourseMask uint64 = 1<<24 - 1
	keySlotMask   uint64 = 1<<20 - 1
	keySwapMask   uint64 = 1<<28 - 1
)

// key packs a move into a tabu identity. A swap is its own inverse, so it
// maps to a symmetric key; a reassignment is keyed on the course and the
// timeslots it moves between.
func (m move) key() uint64 {
	if m.swap {
		lo, hi := m.course&keySwapMask, m.other&keySwapMask
		if lo > hi {
			lo, hi = hi, lo
		}
		return 1<<63 | lo<<28 | hi
	}
	return (m.course&keyCourseMask)<<40 | (m.from.Timeslot&keySlotMask)<<20 | (m.to.Timeslot & keySlotMask)
}

func (m move) reverseKey() uint64 {
	if m.swap {
		return m.key()
	}
	return (m.course&keyCourseMask)<<40 | (m.to.Timeslot&keySlotMask)<<20 | (m.from.Timeslot & keySlotMask)
}

// proposeMove draws a random mutation: with probability swapProb a placement
// swap between two compatible courses, otherwise a reassignment of one
// course to a random compatible placement. Reports false when the draw
// produced no usable move (the caller just redraws next iteration).
func proposeMove(inst *model.Instance, sched *model.Schedule, rng *rand.Rand, swapProb float64) (move, bool) {
	if len(inst.CourseIds) >= 2 && rng.Float64() < swapProb {
		a := inst.CourseIds[rng.Intn(len(inst.CourseIds))]
		b := inst.CourseIds[rng.Intn(len(inst.CourseIds))]
		if a == b {
			return move{}, false
		}
		pa, okA := sched.PlacementOf(a)
		pb, okB := sched.PlacementOf(b)
		if !okA || !okB {
			return move{}, false
		}
		if !admissible(inst, inst.Courses[a], pb) || !admissible(inst, inst.Courses[b], pa) {
			return move{}, false
		}
		return move{swap: true, course: a, other: b, from: pa, to: pb}, true
	}

	course := inst.CourseIds[rng.Intn(len(inst.CourseIds))]
	from, ok := sched.PlacementOf(course)
	if !ok {
		return move{}, false
	}
	to := randomPlacement(inst, inst.Courses[course], rng)
	if to == from {
		return move{}, false
	}
	return move{course: course, from: from, to: to}, true
}

// admissible checks the compatibility invariants a move must preserve:
// room capacity and delivery mode, teacher availability, and fixed
// pre-assignments. Overlaps are deliberately not checked here.
func admissible(inst *model.Instance, course model.Course, p model.Placement) bool {
	if course.Room != nil && *course.Room != p.Room {
		return false
	}
	if course.Teacher != nil && *course.Teacher != p.Teacher {
		return false
	}
	if !inst.Compatible(course, inst.Rooms[p.Room]) {
		return false
	}
	return inst.Available(p.Teacher, p.Timeslot)
}

func randomPlacement(inst *model.Instance, course model.Course, rng *rand.Rand) model.Placement {
	rooms := inst.CandidateRooms(course)
	teachers := inst.CandidateTeachers(course)

	teacher := teachers[rng.Intn(len(teachers))]
	slots := inst.Teachers[teacher].Availability
	if len(slots) == 0 {
		slots = inst.SlotIds
	}

	return model.Placement{
		Room:     rooms[rng.Intn(len(rooms))],
		Timeslot: slots[rng.Intn(len(slots))],
		Teacher:  teacher,
	}
}

// applyMove applies the move through the evaluator and returns its inverse.
func applyMove(e *Evaluator, m move) func() {
	if m.swap {
		e.Swap(m.course, m.other)
		return func() { e.Swap(m.course, m.other) }
	}
	prev, _ := e.Reassign(m.course, m.to)
	return func() { e.Reassign(m.course, prev) }
}
