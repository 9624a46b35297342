package model

// Course is the unit of scheduling: it needs one (room, timeslot, teacher)
// assignment. Duration is in timeslot units; only single-slot courses are
// supported, which NewInstance enforces. Teacher and Room, when non-nil, pin
// the course to a fixed teacher or room supplied by the input loader.
type Course struct {
	Id         uint64
	Name       string
	Duration   uint64
	Enrollment uint64
	Online     bool
	Teacher    *uint64
	Room       *uint64
}

type Room struct {
	Id       uint64
	Name     string
	Capacity uint64
	Building string
	Online   bool
}

type Teacher struct {
	Id           uint64
	Name         string
	Availability []uint64
	MaxLoad      uint64
}

// Timeslot identifies a teaching period. Position is the slot's ordinal
// within its day, Start and End are clock times in "HH:MM" format.
type Timeslot struct {
	Id       uint64
	Day      uint64
	Position uint64
	Start    string
	End      string
}

type ResourceKind int

const (
	RoomResource ResourceKind = iota
	TeacherResource
)

// ResourceKey is a tagged union over the two overlap-prone resources, so a
// single grouping algorithm can count room and teacher double-bookings.
type ResourceKey struct {
	Kind ResourceKind
	Id   uint64
}

func RoomKey(id uint64) ResourceKey    { return ResourceKey{Kind: RoomResource, Id: id} }
func TeacherKey(id uint64) ResourceKey { return ResourceKey{Kind: TeacherResource, Id: id} }

// Placement is the mutable part of an assignment: where and when a course
// takes place and who teaches it.
type Placement struct {
	Room     uint64
	Timeslot uint64
	Teacher  uint64
}

type Assignment struct {
	Course uint64
	Placement
}
