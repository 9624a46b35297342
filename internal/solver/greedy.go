package solver

import (
	"math/rand"
	"slices"

	"github.com/goodwing/timetabler/internal/model"
)

// seedSchedule builds the initial schedule greedily: largest enrollments
// first, each course into the first conflict-free (timeslot, teacher, room)
// triple found in randomized order. When no conflict-free triple exists the
// course is still placed on a random compatible one, since overlaps are
// priced by the evaluator rather than forbidden. Every course always ends up
// assigned, so the search never starts without an incumbent. A final matching
// pass spreads co-scheduled courses over distinct rooms.
func seedSchedule(inst *model.Instance, rng *rand.Rand) *model.Schedule {
	sched := model.NewSchedule()

	order := slices.Clone(inst.CourseIds)
	slices.SortFunc(order, func(a, b uint64) int {
		ea, eb := inst.Courses[a].Enrollment, inst.Courses[b].Enrollment
		if ea != eb {
			if ea > eb {
				return -1
			}
			return 1
		}
		if a < b {
			return -1
		}
		return 1
	})

	load := make(map[uint64]uint64, len(inst.TeacherIds))

	for _, id := range order {
		course := inst.Courses[id]
		rooms := shuffled(inst.CandidateRooms(course), rng)
		teachers := shuffled(inst.CandidateTeachers(course), rng)
		slots := shuffled(inst.SlotIds, rng)

		placement, ok := findFree(inst, sched, course, rooms, teachers, slots, load)
		if !ok {
			// No conflict-free triple: fall back to a random compatible
			// placement. The draw keeps teacher availability intact, since
			// availability violations are neither priced nor reported; only
			// overlaps are, and those the search can still repair.
			placement = randomPlacement(inst, course, rng)
		}
		sched.Assign(id, placement)
		load[placement.Teacher]++
	}

	rebalanceRooms(inst, sched)
	return sched
}

func findFree(
	inst *model.Instance,
	sched *model.Schedule,
	course model.Course,
	rooms, teachers, slots []uint64,
	load map[uint64]uint64,
) (model.Placement, bool) {
	for _, slot := range slots {
		for _, teacher := range teachers {
			if !inst.Available(teacher, slot) {
				continue
			}
			if maxLoad := inst.Teachers[teacher].MaxLoad; maxLoad > 0 && load[teacher] >= maxLoad {
				continue
			}
			if sched.OccupancyAt(model.TeacherKey(teacher), slot) > 0 {
				continue
			}
			for _, room := range rooms {
				if sched.OccupancyAt(model.RoomKey(room), slot) > 0 {
					continue
				}
				return model.Placement{Room: room, Timeslot: slot, Teacher: teacher}, true
			}
		}
	}
	return model.Placement{}, false
}

func shuffled(ids []uint64, rng *rand.Rand) []uint64 {
	out := slices.Clone(ids)
	rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}
