// Package csvio loads model input from CSV files and exports finalized
// schedules back to CSV.
package csvio

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/samber/lo"

	"github.com/goodwing/timetabler/internal/model"
)

type CourseCSV struct {
	Id         uint64 `csv:"course_id"`
	Name       string `csv:"course_name"`
	Duration   uint64 `csv:"duration"`
	Enrollment uint64 `csv:"enrollment"`
	Online     bool   `csv:"online"`
	TeacherId  string `csv:"teacher_id"`
	RoomId     string `csv:"room_id"`
}

type RoomCSV struct {
	Id       uint64 `csv:"room_id"`
	Name     string `csv:"room_name"`
	Capacity uint64 `csv:"capacity"`
	Building string `csv:"building"`
	Online   bool   `csv:"online"`
}

type TeacherCSV struct {
	Id   uint64 `csv:"teacher_id"`
	Name string `csv:"teacher_name"`
	// Availability is a semicolon-separated list of timeslot ids; empty
	// means available everywhere.
	Availability string `csv:"availability"`
	MaxLoad      uint64 `csv:"max_load"`
}

type TimeslotCSV struct {
	Id       uint64 `csv:"timeslot_id"`
	Day      uint64 `csv:"day"`
	Position uint64 `csv:"position"`
	Start    string `csv:"start"`
	End      string `csv:"end"`
}

// LoadInput reads and parses the four CSV files into a ModelInput. The
// result still goes through model.NewInstance for consistency validation.
func LoadInput(coursesFile, roomsFile, teachersFile, timeslotsFile string) (model.ModelInput, error) {
	courses, err := readAll[CourseCSV](coursesFile)
	if err != nil {
		return model.ModelInput{}, err
	}
	rooms, err := readAll[RoomCSV](roomsFile)
	if err != nil {
		return model.ModelInput{}, err
	}
	teachers, err := readAll[TeacherCSV](teachersFile)
	if err != nil {
		return model.ModelInput{}, err
	}
	timeslots, err := readAll[TimeslotCSV](timeslotsFile)
	if err != nil {
		return model.ModelInput{}, err
	}

	input := model.ModelInput{
		Rooms: lo.Map(rooms, func(room *RoomCSV, _ int) model.RoomInput {
			return model.RoomInput(*room)
		}),
		Timeslots: lo.Map(timeslots, func(slot *TimeslotCSV, _ int) model.TimeslotInput {
			return model.TimeslotInput(*slot)
		}),
	}

	for _, course := range courses {
		teacher, err := parseOptionalId(course.TeacherId)
		if err != nil {
			return model.ModelInput{}, fmt.Errorf("course %v: malformed teacher_id: %v", course.Id, err)
		}
		room, err := parseOptionalId(course.RoomId)
		if err != nil {
			return model.ModelInput{}, fmt.Errorf("course %v: malformed room_id: %v", course.Id, err)
		}
		input.Courses = append(input.Courses, model.CourseInput{
			Id:         course.Id,
			Name:       course.Name,
			Duration:   course.Duration,
			Enrollment: course.Enrollment,
			Online:     course.Online,
			Teacher:    teacher,
			Room:       room,
		})
	}

	for _, teacher := range teachers {
		availability, err := parseIdList(teacher.Availability)
		if err != nil {
			return model.ModelInput{}, fmt.Errorf("teacher %v: malformed availability: %v", teacher.Id, err)
		}
		input.Teachers = append(input.Teachers, model.TeacherInput{
			Id:           teacher.Id,
			Name:         teacher.Name,
			Availability: availability,
			MaxLoad:      teacher.MaxLoad,
		})
	}

	return input, nil
}

func readAll[T any](file string) ([]*T, error) {
	handle, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("cannot open %v: %v", file, err)
	}
	defer handle.Close()

	var records []*T
	if err := gocsv.UnmarshalFile(handle, &records); err != nil {
		return nil, fmt.Errorf("cannot parse %v: %v", file, err)
	}
	return records, nil
}

func parseOptionalId(raw string) (*uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

func parseIdList(raw string) ([]uint64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	splits := strings.Split(raw, ";")
	ids := make([]uint64, 0, len(splits))
	for _, split := range splits {
		id, err := strconv.ParseUint(strings.TrimSpace(split), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
