package model

import (
	"fmt"
	"slices"
)

type slotKey struct {
	id   uint64
	slot uint64
}

// Schedule is the set of assignments, at most one per course. Besides the
// course -> placement mapping it maintains by-room, by-teacher and
// by-timeslot occupancy indices, updated on every Assign/Unassign, so
// overlap groups touched by a single move can be inspected without scanning
// the whole schedule.
type Schedule struct {
	byCourse      map[uint64]Placement
	byRoomSlot    map[slotKey][]uint64
	byTeacherSlot map[slotKey][]uint64
	byTimeslot    map[uint64][]uint64
	frozen        bool
}

func NewSchedule() *Schedule {
	return &Schedule{
		byCourse:      make(map[uint64]Placement),
		byRoomSlot:    make(map[slotKey][]uint64),
		byTeacherSlot: make(map[slotKey][]uint64),
		byTimeslot:    make(map[uint64][]uint64),
	}
}

// Assign places the course per the given placement, replacing any previous
// placement of the same course.
func (s *Schedule) Assign(course uint64, p Placement) error {
	if s.frozen {
		return fmt.Errorf("cannot assign course %v: schedule is frozen", course)
	}
	if _, ok := s.byCourse[course]; ok {
		s.remove(course)
	}

	s.byCourse[course] = p
	roomKey := slotKey{id: p.Room, slot: p.Timeslot}
	teacherKey := slotKey{id: p.Teacher, slot: p.Timeslot}
	s.byRoomSlot[roomKey] = append(s.byRoomSlot[roomKey], course)
	s.byTeacherSlot[teacherKey] = append(s.byTeacherSlot[teacherKey], course)
	s.byTimeslot[p.Timeslot] = append(s.byTimeslot[p.Timeslot], course)
	return nil
}

// Unassign removes the course's assignment and reports the placement it had.
func (s *Schedule) Unassign(course uint64) (Placement, bool) {
	if s.frozen {
		return Placement{}, false
	}
	p, ok := s.byCourse[course]
	if !ok {
		return Placement{}, false
	}
	s.remove(course)
	return p, true
}

func (s *Schedule) remove(course uint64) {
	p := s.byCourse[course]
	delete(s.byCourse, course)

	roomKey := slotKey{id: p.Room, slot: p.Timeslot}
	teacherKey := slotKey{id: p.Teacher, slot: p.Timeslot}
	s.byRoomSlot[roomKey] = removeCourse(s.byRoomSlot[roomKey], course)
	if len(s.byRoomSlot[roomKey]) == 0 {
		delete(s.byRoomSlot, roomKey)
	}
	s.byTeacherSlot[teacherKey] = removeCourse(s.byTeacherSlot[teacherKey], course)
	if len(s.byTeacherSlot[teacherKey]) == 0 {
		delete(s.byTeacherSlot, teacherKey)
	}
	s.byTimeslot[p.Timeslot] = removeCourse(s.byTimeslot[p.Timeslot], course)
	if len(s.byTimeslot[p.Timeslot]) == 0 {
		delete(s.byTimeslot, p.Timeslot)
	}
}

func (s *Schedule) PlacementOf(course uint64) (Placement, bool) {
	p, ok := s.byCourse[course]
	return p, ok
}

// AssignmentsAt returns the courses occupying the given resource at the
// given timeslot.
func (s *Schedule) AssignmentsAt(key ResourceKey, slot uint64) []uint64 {
	group := s.group(key, slot)
	return slices.Clone(group)
}

// OccupancyAt returns the size of a (resource, timeslot) group without
// copying it.
func (s *Schedule) OccupancyAt(key ResourceKey, slot uint64) int {
	return len(s.group(key, slot))
}

func (s *Schedule) group(key ResourceKey, slot uint64) []uint64 {
	k := slotKey{id: key.Id, slot: slot}
	if key.Kind == RoomResource {
		return s.byRoomSlot[k]
	}
	return s.byTeacherSlot[k]
}

func (s *Schedule) CoursesAt(slot uint64) []uint64 {
	return slices.Clone(s.byTimeslot[slot])
}

func (s *Schedule) Len() int {
	return len(s.byCourse)
}

// GroupSizes reports the size of every non-empty (resource, timeslot) group
// of the given kind, keyed by [resource id, timeslot id].
func (s *Schedule) GroupSizes(kind ResourceKind) map[[2]uint64]int {
	var index map[slotKey][]uint64
	if kind == RoomResource {
		index = s.byRoomSlot
	} else {
		index = s.byTeacherSlot
	}

	sizes := make(map[[2]uint64]int, len(index))
	for key, group := range index {
		sizes[[2]uint64{key.id, key.slot}] = len(group)
	}
	return sizes
}

// Assignments returns all assignments ordered by ascending course id.
func (s *Schedule) Assignments() []Assignment {
	assignments := make([]Assignment, 0, len(s.byCourse))
	for course, p := range s.byCourse {
		assignments = append(assignments, Assignment{Course: course, Placement: p})
	}
	slices.SortFunc(assignments, func(a, b Assignment) int {
		if a.Course < b.Course {
			return -1
		} else if a.Course > b.Course {
			return 1
		}
		return 0
	})
	return assignments
}

// Clone returns an independent, mutable copy of the schedule.
func (s *Schedule) Clone() *Schedule {
	clone := NewSchedule()
	for course, p := range s.byCourse {
		clone.Assign(course, p)
	}
	return clone
}

// Freeze finalizes the schedule: any further Assign/Unassign is rejected.
func (s *Schedule) Freeze() {
	s.frozen = true
}

func (s *Schedule) Frozen() bool {
	return s.frozen
}

func removeCourse(group []uint64, course uint64) []uint64 {
	for i, c := range group {
		if c == course {
			group[i] = group[len(group)-1]
			return group[:len(group)-1]
		}
	}
	return group
}
