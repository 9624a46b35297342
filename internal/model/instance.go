package model

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
)

// Instance is a validated, resolved model: every id referenced anywhere is
// guaranteed to exist, clock times are parsed, and the timeslot grid is
// consistent with the Indexer. All search and reporting code works on an
// Instance, never on raw input.
type Instance struct {
	Courses   map[uint64]Course
	Rooms     map[uint64]Room
	Teachers  map[uint64]Teacher
	Timeslots map[uint64]Timeslot

	CourseIds  []uint64
	RoomIds    []uint64
	TeacherIds []uint64
	SlotIds    []uint64

	Days      uint64
	Positions uint64
	Indexer   Indexer

	availability map[uint64]map[uint64]bool
	slotStart    map[uint64]int
	slotEnd      map[uint64]int
}

// NewInstance validates the raw input and resolves it into an Instance.
// Inconsistent input is fatal here, before any search begins: the engine
// must abort rather than silently drop constraints.
func NewInstance(input ModelInput) (*Instance, error) {
	if len(input.Courses) == 0 {
		return nil, fmt.Errorf("input contains no courses")
	} else if len(input.Rooms) == 0 {
		return nil, fmt.Errorf("input contains no rooms")
	} else if len(input.Teachers) == 0 {
		return nil, fmt.Errorf("input contains no teachers")
	} else if len(input.Timeslots) == 0 {
		return nil, fmt.Errorf("input contains no timeslots")
	}

	inst := &Instance{
		Courses:      make(map[uint64]Course, len(input.Courses)),
		Rooms:        make(map[uint64]Room, len(input.Rooms)),
		Teachers:     make(map[uint64]Teacher, len(input.Teachers)),
		Timeslots:    make(map[uint64]Timeslot, len(input.Timeslots)),
		availability: make(map[uint64]map[uint64]bool, len(input.Teachers)),
		slotStart:    make(map[uint64]int, len(input.Timeslots)),
		slotEnd:      make(map[uint64]int, len(input.Timeslots)),
	}

	//** Resolve timeslots and derive the (day, position) grid
	days := lo.Max(lo.Map(input.Timeslots, func(slot TimeslotInput, _ int) uint64 { return slot.Day })) + 1
	positions := lo.Max(lo.Map(input.Timeslots, func(slot TimeslotInput, _ int) uint64 { return slot.Position })) + 1
	inst.Days, inst.Positions = days, positions
	inst.Indexer = NewIndexer(days, positions)

	for _, slot := range input.Timeslots {
		if _, ok := inst.Timeslots[slot.Id]; ok {
			return nil, fmt.Errorf("duplicate timeslot id %v", slot.Id)
		}
		if expected := inst.Indexer.Index(slot.Day, slot.Position); slot.Id != expected {
			return nil, fmt.Errorf("timeslot id %v is inconsistent with its (day, position) grid index %v", slot.Id, expected)
		}
		start, err := parseMinutes(slot.Start)
		if err != nil {
			return nil, fmt.Errorf("timeslot %v: %v", slot.Id, err)
		}
		end, err := parseMinutes(slot.End)
		if err != nil {
			return nil, fmt.Errorf("timeslot %v: %v", slot.Id, err)
		}
		if end <= start {
			return nil, fmt.Errorf("timeslot %v ends before it starts", slot.Id)
		}
		inst.Timeslots[slot.Id] = Timeslot(slot)
		inst.slotStart[slot.Id] = start
		inst.slotEnd[slot.Id] = end
		inst.SlotIds = append(inst.SlotIds, slot.Id)
	}

	//** Resolve rooms
	for _, room := range input.Rooms {
		if _, ok := inst.Rooms[room.Id]; ok {
			return nil, fmt.Errorf("duplicate room id %v", room.Id)
		}
		inst.Rooms[room.Id] = Room(room)
		inst.RoomIds = append(inst.RoomIds, room.Id)
	}

	//** Resolve teachers and their availability sets
	for _, teacher := range input.Teachers {
		if _, ok := inst.Teachers[teacher.Id]; ok {
			return nil, fmt.Errorf("duplicate teacher id %v", teacher.Id)
		}
		available := make(map[uint64]bool, len(teacher.Availability))
		for _, slot := range teacher.Availability {
			if _, ok := inst.Timeslots[slot]; !ok {
				return nil, fmt.Errorf("teacher %v is available at unknown timeslot %v", teacher.Id, slot)
			}
			available[slot] = true
		}
		inst.Teachers[teacher.Id] = Teacher{
			Id:           teacher.Id,
			Name:         teacher.Name,
			Availability: teacher.Availability,
			MaxLoad:      teacher.MaxLoad,
		}
		inst.availability[teacher.Id] = available
		inst.TeacherIds = append(inst.TeacherIds, teacher.Id)
	}

	//** Resolve courses and check fixed pre-assignments
	for _, course := range input.Courses {
		if _, ok := inst.Courses[course.Id]; ok {
			return nil, fmt.Errorf("duplicate course id %v", course.Id)
		}
		if course.Duration != 1 {
			return nil, fmt.Errorf("course %v has unsupported duration %v (courses occupy exactly one timeslot)", course.Id, course.Duration)
		}
		if course.Room != nil {
			room, ok := inst.Rooms[*course.Room]
			if !ok {
				return nil, fmt.Errorf("course %v is fixed to unknown room %v", course.Id, *course.Room)
			}
			if !inst.Compatible(Course(course), room) {
				return nil, fmt.Errorf("course %v is fixed to incompatible room %v", course.Id, *course.Room)
			}
		}
		if course.Teacher != nil {
			if _, ok := inst.Teachers[*course.Teacher]; !ok {
				return nil, fmt.Errorf("course %v is fixed to unknown teacher %v", course.Id, *course.Teacher)
			}
		}
		inst.Courses[course.Id] = Course(course)
		inst.CourseIds = append(inst.CourseIds, course.Id)
	}

	slices.Sort(inst.CourseIds)
	slices.Sort(inst.RoomIds)
	slices.Sort(inst.TeacherIds)
	slices.Sort(inst.SlotIds)

	//** Every course must have at least one compatible room
	for _, id := range inst.CourseIds {
		if len(inst.CandidateRooms(inst.Courses[id])) == 0 {
			return nil, fmt.Errorf("course %v has no compatible room", id)
		}
	}

	return inst, nil
}

// Available reports whether the teacher may teach at the given timeslot. A
// teacher with an empty availability set is available everywhere.
func (inst *Instance) Available(teacher, slot uint64) bool {
	available := inst.availability[teacher]
	if len(available) == 0 {
		return true
	}
	return available[slot]
}

// Compatible reports whether the room can host the course: enough capacity
// and a matching delivery mode (online courses need an online-capable room).
func (inst *Instance) Compatible(course Course, room Room) bool {
	if room.Capacity < course.Enrollment {
		return false
	}
	if course.Online && !room.Online {
		return false
	}
	return true
}

// CandidateRooms returns the rooms the course may be placed in, honoring a
// fixed pre-assignment when present.
func (inst *Instance) CandidateRooms(course Course) []uint64 {
	if course.Room != nil {
		return []uint64{*course.Room}
	}
	return lo.Filter(inst.RoomIds, func(id uint64, _ int) bool {
		return inst.Compatible(course, inst.Rooms[id])
	})
}

// CandidateTeachers returns the teachers the course may be taught by,
// honoring a fixed pre-assignment when present.
func (inst *Instance) CandidateTeachers(course Course) []uint64 {
	if course.Teacher != nil {
		return []uint64{*course.Teacher}
	}
	return inst.TeacherIds
}

// SlotMinutes returns the start and end of a timeslot in minutes since
// midnight.
func (inst *Instance) SlotMinutes(slot uint64) (start, end int) {
	return inst.slotStart[slot], inst.slotEnd[slot]
}

// SlotAt returns the timeslot id occupying the given grid cell, if any.
func (inst *Instance) SlotAt(day, position uint64) (uint64, bool) {
	id := inst.Indexer.Index(day, position)
	_, ok := inst.Timeslots[id]
	return id, ok
}

func parseMinutes(clock string) (int, error) {
	parts := strings.Split(clock, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("malformed clock time %q", clock)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("malformed clock time %q", clock)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("malformed clock time %q", clock)
	}
	return hours*60 + minutes, nil
}
