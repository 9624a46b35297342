package solver

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goodwing/timetabler/internal/model"
)

func TestOverlapCounts(t *testing.T) {
	// Arrange: three courses stacked in one room-slot, two of them sharing
	// a teacher there
	schedule := model.NewSchedule()
	schedule.Assign(1, model.Placement{Room: 0, Timeslot: 3, Teacher: 0})
	schedule.Assign(2, model.Placement{Room: 0, Timeslot: 3, Teacher: 0})
	schedule.Assign(3, model.Placement{Room: 0, Timeslot: 3, Teacher: 1})

	// Act
	checker := NewChecker(schedule)

	// Assert: a group of size n contributes n-1
	assert.Equal(t, 2, checker.RoomOverlaps())
	assert.Equal(t, 1, checker.TeacherOverlaps())
}

func TestZeroOverlapsIffNoSharedGroups(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for range 10 {
		// Arrange: a random schedule over a small resource pool
		schedule := model.NewSchedule()
		for course := uint64(0); course < 12; course++ {
			schedule.Assign(course, model.Placement{
				Room:     uint64(rng.Intn(4)),
				Timeslot: uint64(rng.Intn(6)),
				Teacher:  uint64(rng.Intn(4)),
			})
		}

		checker := NewChecker(schedule)

		// Assert: the counter is zero exactly when no (resource, timeslot)
		// group holds two or more assignments
		for _, kind := range []model.ResourceKind{model.RoomResource, model.TeacherResource} {
			crowded := false
			for _, size := range schedule.GroupSizes(kind) {
				if size >= 2 {
					crowded = true
				}
			}
			assert.Equal(t, crowded, checker.Overlaps(kind) > 0)
		}
	}
}

func TestOverlapDropsAfterSpreadingOut(t *testing.T) {
	// Arrange
	schedule := model.NewSchedule()
	schedule.Assign(1, model.Placement{Room: 0, Timeslot: 3, Teacher: 0})
	schedule.Assign(2, model.Placement{Room: 0, Timeslot: 3, Teacher: 1})
	checker := NewChecker(schedule)
	assert.Equal(t, 1, checker.RoomOverlaps())

	// Act
	schedule.Assign(2, model.Placement{Room: 1, Timeslot: 3, Teacher: 1})

	// Assert
	assert.Equal(t, 0, checker.RoomOverlaps())
	assert.Equal(t, 0, checker.TeacherOverlaps())
}
