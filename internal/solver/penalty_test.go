package solver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goodwing/timetabler/internal/model"
)

func TestIncrementalMatchesRecompute(t *testing.T) {
	// Arrange
	inst := GenerateInstance(12)
	rng := rand.New(rand.NewSource(3))
	sched := seedSchedule(inst, rng)
	evaluator := NewEvaluator(inst, sched, DefaultWeights())

	// Act: drive a long random walk of reassignments, swaps and undos
	// through the incremental bookkeeping
	for range 500 {
		m, ok := proposeMove(inst, sched, rng, 0.3)
		if !ok {
			continue
		}
		undo := applyMove(evaluator, m)
		if rng.Float64() < 0.5 {
			undo()
		}

		// Assert: the cached terms always agree with a full rebuild
		fresh := NewEvaluator(inst, sched, DefaultWeights())
		assert.Equal(t, fresh.Breakdown(), evaluator.Breakdown())
		assert.Equal(t, fresh.Objective(), evaluator.Objective())
	}
}

func TestUndoRestoresScheduleAndObjective(t *testing.T) {
	// Arrange
	inst := GenerateInstance(8)
	rng := rand.New(rand.NewSource(11))
	sched := seedSchedule(inst, rng)
	evaluator := NewEvaluator(inst, sched, DefaultWeights())

	before := evaluator.Objective()
	placements := make(map[uint64]model.Placement, len(inst.CourseIds))
	for _, course := range inst.CourseIds {
		placements[course], _ = sched.PlacementOf(course)
	}

	// Act
	for range 50 {
		m, ok := proposeMove(inst, sched, rng, 0.5)
		if !ok {
			continue
		}
		undo := applyMove(evaluator, m)
		undo()
	}

	// Assert
	assert.Equal(t, before, evaluator.Objective())
	for _, course := range inst.CourseIds {
		placement, _ := sched.PlacementOf(course)
		assert.Equal(t, placements[course], placement)
	}
}

func TestConflictTermWeighsOverlaps(t *testing.T) {
	// Arrange: two courses forced onto the same room and teacher slot
	inst := GenerateInstance(2)
	sched := model.NewSchedule()
	sched.Assign(0, model.Placement{Room: 0, Timeslot: 0, Teacher: 0})
	sched.Assign(1, model.Placement{Room: 0, Timeslot: 0, Teacher: 0})

	// Act
	evaluator := NewEvaluator(inst, sched, DefaultWeights())

	// Assert: one room overlap plus one teacher overlap at weight 1000
	assert.Equal(t, int64(2000), evaluator.Breakdown().Conflict)
	assert.Equal(t, 1, evaluator.RoomOverlapCount())
	assert.Equal(t, 1, evaluator.TeacherOverlapCount())
}

func TestGapTermCountsIdleMidday(t *testing.T) {
	// Arrange: teacher 0 works positions 0 and 3 of day 0, leaving two idle
	// slots in between
	inst := GenerateInstance(2)
	sched := model.NewSchedule()
	sched.Assign(0, model.Placement{Room: 0, Timeslot: 0, Teacher: 0})
	sched.Assign(1, model.Placement{Room: 1, Timeslot: 3, Teacher: 0})

	// Act
	evaluator := NewEvaluator(inst, sched, DefaultWeights())

	// Assert
	assert.Equal(t, int64(2), evaluator.GapCount())
	assert.Equal(t, int64(0), evaluator.TransitionCount())
}

func TestTransitionTermCountsModeSwitches(t *testing.T) {
	// Arrange: course 0 is online, course 1 is physical (fixture parity);
	// back to back in positions 0 and 1 they force one delivery switch
	inst := GenerateInstance(2)
	sched := model.NewSchedule()
	sched.Assign(0, model.Placement{Room: 0, Timeslot: 0, Teacher: 0})
	sched.Assign(1, model.Placement{Room: 1, Timeslot: 1, Teacher: 0})

	// Act
	evaluator := NewEvaluator(inst, sched, DefaultWeights())

	// Assert
	assert.Equal(t, int64(1), evaluator.TransitionCount())
	assert.Equal(t, int64(0), evaluator.GapCount())
}

func TestTransitionSkipsNonConsecutiveSlots(t *testing.T) {
	// Arrange: same mode switch but with an idle slot separating the pair
	inst := GenerateInstance(2)
	sched := model.NewSchedule()
	sched.Assign(0, model.Placement{Room: 0, Timeslot: 0, Teacher: 0})
	sched.Assign(1, model.Placement{Room: 1, Timeslot: 2, Teacher: 0})

	// Act
	evaluator := NewEvaluator(inst, sched, DefaultWeights())

	// Assert
	assert.Equal(t, int64(0), evaluator.TransitionCount())
	assert.Equal(t, int64(1), evaluator.GapCount())
}

func TestMixedSlotCountsAsPhysical(t *testing.T) {
	// Arrange: an online and a physical course share teacher 0's slot 0,
	// followed by a physical course in slot 1
	inst := GenerateInstance(3)
	sched := model.NewSchedule()
	sched.Assign(0, model.Placement{Room: 0, Timeslot: 0, Teacher: 0})
	sched.Assign(1, model.Placement{Room: 1, Timeslot: 0, Teacher: 0})
	sched.Assign(2, model.Placement{Room: 2, Timeslot: 1, Teacher: 0})

	// Act
	evaluator := NewEvaluator(inst, sched, DefaultWeights())

	// Assert: the mixed slot classifies as physical, so no switch happens
	assert.Equal(t, int64(0), evaluator.TransitionCount())
}

func TestBalanceTermMeasuresDeviation(t *testing.T) {
	// Arrange: six courses piled onto one room, one teacher and one day
	inst := GenerateInstance(6)
	sched := model.NewSchedule()
	for course := uint64(0); course < 6; course++ {
		sched.Assign(course, model.Placement{Room: 0, Timeslot: course % 4, Teacher: 0})
	}

	// Act
	evaluator := NewEvaluator(inst, sched, DefaultWeights())

	// Assert: targets are 6/3=2 per room and teacher, 6/5=1 per day.
	// Rooms deviate |6-2|+2+2=8, teachers likewise 8, days |6-1|+4*1=9.
	assert.Equal(t, int64(25), evaluator.Breakdown().Balance)
}

func TestSwapPreservesSlotCardinality(t *testing.T) {
	// Arrange
	inst := GenerateInstance(6)
	rng := rand.New(rand.NewSource(5))
	sched := seedSchedule(inst, rng)
	evaluator := NewEvaluator(inst, sched, DefaultWeights())

	sizesBefore := len(sched.GroupSizes(model.RoomResource))
	pa, _ := sched.PlacementOf(0)
	pb, _ := sched.PlacementOf(1)

	// Act
	evaluator.Swap(0, 1)

	// Assert
	gotA, _ := sched.PlacementOf(0)
	gotB, _ := sched.PlacementOf(1)
	assert.Equal(t, pb, gotA)
	assert.Equal(t, pa, gotB)
	assert.Equal(t, sizesBefore, len(sched.GroupSizes(model.RoomResource)))

	fresh := NewEvaluator(inst, sched, DefaultWeights())
	assert.Equal(t, fresh.Objective(), evaluator.Objective())
}
