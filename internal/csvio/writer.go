package csvio

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"github.com/goodwing/timetabler/internal/model"
)

type ScheduleCSVRow struct {
	CourseId   uint64 `csv:"course_id"`
	CourseName string `csv:"course_name"`
	Day        uint64 `csv:"day"`
	Position   uint64 `csv:"position"`
	Start      string `csv:"start"`
	End        string `csv:"end"`
	Room       string `csv:"room"`
	Teacher    string `csv:"teacher"`
	Online     bool   `csv:"online"`
}

// WriteSchedule exports a schedule to CSV, one row per assignment, ordered
// by ascending course id.
func WriteSchedule(file string, inst *model.Instance, sched *model.Schedule) error {
	rows := lo.Map(sched.Assignments(), func(assignment model.Assignment, _ int) *ScheduleCSVRow {
		course := inst.Courses[assignment.Course]
		slot := inst.Timeslots[assignment.Timeslot]
		return &ScheduleCSVRow{
			CourseId:   assignment.Course,
			CourseName: course.Name,
			Day:        slot.Day,
			Position:   slot.Position,
			Start:      slot.Start,
			End:        slot.End,
			Room:       inst.Rooms[assignment.Room].Name,
			Teacher:    inst.Teachers[assignment.Teacher].Name,
			Online:     course.Online,
		}
	})

	handle, err := os.Create(file)
	if err != nil {
		return fmt.Errorf("cannot create %v: %v", file, err)
	}
	defer handle.Close()

	if err := gocsv.MarshalFile(&rows, handle); err != nil {
		return fmt.Errorf("cannot write %v: %v", file, err)
	}
	return nil
}
