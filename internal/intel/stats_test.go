package intel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/goodwing/timetabler/internal/model"
	"github.com/goodwing/timetabler/internal/solver"
)

func TestCollectTalliesUsageAndConflicts(t *testing.T) {
	// Arrange: four courses, two of them colliding in room 0 at slot 0,
	// one of them landing in the 17:00 slot
	inst := solver.GenerateInstance(4)
	sched := model.NewSchedule()
	sched.Assign(0, model.Placement{Room: 0, Timeslot: 0, Teacher: 0})
	sched.Assign(1, model.Placement{Room: 0, Timeslot: 0, Teacher: 1})
	sched.Assign(2, model.Placement{Room: 1, Timeslot: 1, Teacher: 0})
	sched.Assign(3, model.Placement{Room: 2, Timeslot: 3, Teacher: 2})

	result := solver.Result{
		Schedule:  sched,
		Objective: 1010,
		Breakdown: solver.Breakdown{Conflict: 1000, Balance: 10},
		Solutions: 4,
		Duration:  2 * time.Second,
	}

	// Act
	record, err := Collect(inst, result, DefaultConfig())

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 1, record.RoomOverlaps)
	assert.Equal(t, 0, record.TeacherOverlaps)
	assert.Equal(t, 4, record.TotalCourses)
	assert.Equal(t, 1, record.LateCourses)
	assert.Equal(t, int64(1), record.Transitions)
	assert.Equal(t, int64(1010), record.TotalObjective)
	assert.Equal(t, int64(1010), record.BestObjective)
	assert.Equal(t, 4, record.Solutions)
	assert.Equal(t, 2*time.Second, record.Duration)

	assert.Equal(t, []UsageCount{
		{Id: 0, Name: "A-101", Count: 2},
		{Id: 1, Name: "A-102", Count: 1},
		{Id: 2, Name: "B-201", Count: 1},
	}, record.TopRooms)
	assert.Equal(t, []UsageCount{
		{Id: 0, Name: "Reyes", Count: 2},
		{Id: 1, Name: "Okafor", Count: 1},
		{Id: 2, Name: "Lindqvist", Count: 1},
	}, record.TopTeachers)
	assert.Equal(t, []UsageCount{
		{Id: 0, Name: "Timeslot 0", Count: 2},
		{Id: 1, Name: "Timeslot 1", Count: 1},
		{Id: 3, Name: "Timeslot 3", Count: 1},
	}, record.TopTimeslots)
}

func TestCollectTruncatesToTopN(t *testing.T) {
	// Arrange
	inst := solver.GenerateInstance(4)
	sched := model.NewSchedule()
	sched.Assign(0, model.Placement{Room: 0, Timeslot: 0, Teacher: 0})
	sched.Assign(1, model.Placement{Room: 1, Timeslot: 1, Teacher: 1})
	sched.Assign(2, model.Placement{Room: 2, Timeslot: 2, Teacher: 2})
	sched.Assign(3, model.Placement{Room: 0, Timeslot: 4, Teacher: 0})

	cfg := DefaultConfig()
	cfg.TopN = 1

	// Act
	record, err := Collect(inst, solver.Result{Schedule: sched}, cfg)

	// Assert: ties below the cut are dropped, the top spot goes to the
	// highest count
	assert.NoError(t, err)
	assert.Equal(t, []UsageCount{{Id: 0, Name: "A-101", Count: 2}}, record.TopRooms)
	assert.Equal(t, []UsageCount{{Id: 0, Name: "Reyes", Count: 2}}, record.TopTeachers)
	assert.Equal(t, 1, len(record.TopTimeslots))
}

func TestCollectDegradesOnEmptySchedule(t *testing.T) {
	// Arrange
	inst := solver.GenerateInstance(2)

	scenarios := []struct {
		name     string
		schedule *model.Schedule
	}{
		{name: "nil schedule", schedule: nil},
		{name: "empty schedule", schedule: model.NewSchedule()},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			// Act
			record, err := Collect(inst, solver.Result{Schedule: scenario.schedule}, DefaultConfig())

			// Assert
			assert.NoError(t, err)
			assert.Equal(t, 0, record.RoomOverlaps)
			assert.Equal(t, 0, record.TotalCourses)
			assert.Equal(t, 0, record.LateCourses)
			assert.Empty(t, record.TopRooms)
			assert.Empty(t, record.TopTeachers)
			assert.Empty(t, record.TopTimeslots)
		})
	}
}

func TestCollectRejectsBadConfig(t *testing.T) {
	inst := solver.GenerateInstance(2)

	scenarios := []struct {
		name     string
		mutate   func(*Config)
		expected string
	}{
		{
			name:     "window without dash",
			mutate:   func(c *Config) { c.LateWindows = []string{"17:00"} },
			expected: "malformed late window",
		},
		{
			name:     "window with bad clock",
			mutate:   func(c *Config) { c.LateWindows = []string{"17:xx-18:30"} },
			expected: "malformed late window",
		},
		{
			name:     "inverted window",
			mutate:   func(c *Config) { c.LateWindows = []string{"18:30-17:00"} },
			expected: "ends before it starts",
		},
		{
			name:     "non-positive top n",
			mutate:   func(c *Config) { c.TopN = 0 },
			expected: "TopN must be > 0",
		},
	}

	for _, scenario := range scenarios {
		t.Run(scenario.name, func(t *testing.T) {
			cfg := DefaultConfig()
			scenario.mutate(&cfg)

			_, err := Collect(inst, solver.Result{}, cfg)

			assert.ErrorContains(t, err, scenario.expected)
		})
	}
}

func TestLateWindowBoundariesAreHalfOpen(t *testing.T) {
	// Arrange
	windows, err := parseWindows([]string{"17:00-18:30"})
	assert.NoError(t, err)

	// Assert: start is inclusive, end is exclusive
	assert.True(t, isLate(17*60, windows))
	assert.True(t, isLate(18*60+29, windows))
	assert.False(t, isLate(18*60+30, windows))
	assert.False(t, isLate(16*60+59, windows))
}
