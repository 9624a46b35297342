package csvio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/goodwing/timetabler/internal/model"
	"github.com/goodwing/timetabler/internal/solver"
)

func TestWriteScheduleExportsAssignments(t *testing.T) {
	// Arrange
	inst := solver.GenerateInstance(2)
	sched := model.NewSchedule()
	sched.Assign(1, model.Placement{Room: 1, Timeslot: 5, Teacher: 2})
	sched.Assign(0, model.Placement{Room: 0, Timeslot: 0, Teacher: 0})

	file := filepath.Join(t.TempDir(), "schedule.csv")

	// Act
	err := WriteSchedule(file, inst, sched)

	// Assert
	assert.NoError(t, err)
	raw, err := os.ReadFile(file)
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, 3, len(lines))
	assert.Equal(t, "course_id,course_name,day,position,start,end,room,teacher,online", lines[0])
	// Rows come out ordered by course id regardless of assignment order.
	assert.Equal(t, "0,C0,0,0,08:00,09:30,A-101,Reyes,true", lines[1])
	assert.Equal(t, "1,C1,1,1,09:45,11:15,A-102,Lindqvist,false", lines[2])
}

func TestWriteScheduleFailsOnUnwritablePath(t *testing.T) {
	inst := solver.GenerateInstance(1)
	sched := model.NewSchedule()
	sched.Assign(0, model.Placement{Room: 0, Timeslot: 0, Teacher: 0})

	err := WriteSchedule(filepath.Join(t.TempDir(), "absent", "schedule.csv"), inst, sched)

	assert.ErrorContains(t, err, "cannot create")
}
