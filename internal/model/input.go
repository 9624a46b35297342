package model

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
)

type CourseInput struct {
	Id         uint64
	Name       string
	Duration   uint64
	Enrollment uint64
	Online     bool
	Teacher    *uint64
	Room       *uint64
}

type RoomInput struct {
	Id       uint64
	Name     string
	Capacity uint64
	Building string
	Online   bool
}

type TeacherInput struct {
	Id           uint64
	Name         string
	Availability []uint64
	MaxLoad      uint64 `mapstructure:"maxLoad"`
}

type TimeslotInput struct {
	Id       uint64
	Day      uint64
	Position uint64
	Start    string
	End      string
}

type ModelInput struct {
	Courses   []CourseInput
	Rooms     []RoomInput
	Teachers  []TeacherInput
	Timeslots []TimeslotInput
}

func InputFromJson(file string) (ModelInput, error) {
	bytes, err := os.ReadFile(file)
	if err != nil {
		return ModelInput{}, fmt.Errorf("cannot read input file: %v", err)
	}

	var inputJson map[string]any
	if err := json.Unmarshal(bytes, &inputJson); err != nil {
		return ModelInput{}, err
	}

	var input ModelInput
	if err := mapstructure.Decode(inputJson, &input); err != nil {
		return ModelInput{}, fmt.Errorf("cannot decode input: %v", err)
	}

	return input, nil
}
