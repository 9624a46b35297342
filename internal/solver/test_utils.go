package solver

import (
	"fmt"

	"github.com/goodwing/timetabler/internal/model"
)

var fixtureHours = [][2]string{
	{"08:00", "09:30"},
	{"09:45", "11:15"},
	{"13:00", "14:30"},
	{"17:00", "18:30"},
}

// GenerateInstance builds a small consistent instance for tests: a 5-day,
// 4-position timeslot grid (the last position starting at 17:00), three
// rooms (two online-capable) and three fully available teachers. Every
// fourth course is online-deliverable.
func GenerateInstance(courses int) *model.Instance {
	input := model.ModelInput{
		Rooms: []model.RoomInput{
			{Id: 0, Name: "A-101", Capacity: 120, Building: "A", Online: true},
			{Id: 1, Name: "A-102", Capacity: 60, Building: "A"},
			{Id: 2, Name: "B-201", Capacity: 60, Building: "B", Online: true},
		},
		Teachers: []model.TeacherInput{
			{Id: 0, Name: "Reyes"},
			{Id: 1, Name: "Okafor"},
			{Id: 2, Name: "Lindqvist"},
		},
	}

	for day := uint64(0); day < 5; day++ {
		for position := uint64(0); position < 4; position++ {
			input.Timeslots = append(input.Timeslots, model.TimeslotInput{
				Id:       position + 4*day,
				Day:      day,
				Position: position,
				Start:    fixtureHours[position][0],
				End:      fixtureHours[position][1],
			})
		}
	}

	for i := 0; i < courses; i++ {
		input.Courses = append(input.Courses, model.CourseInput{
			Id:         uint64(i),
			Name:       fmt.Sprintf("C%v", i),
			Duration:   1,
			Enrollment: uint64(20 + (i%3)*10),
			Online:     i%4 == 0,
		})
	}

	inst, err := model.NewInstance(input)
	if err != nil {
		panic(fmt.Sprintf("fixture instance is inconsistent: %v", err))
	}
	return inst
}
