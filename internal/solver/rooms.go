package solver

import (
	"slices"

	"github.com/onsi/gomega/matchers/support/goraph/bipartitegraph"
	"github.com/samber/lo"

	"github.com/goodwing/timetabler/internal/model"
)

// rebalanceRooms spreads the courses sharing a timeslot over distinct
// compatible rooms via a largest bipartite matching, cutting the room
// overlaps a greedy placement leaves behind. Courses the matching leaves out
// keep their current room, and courses pinned to a fixed room never move.
func rebalanceRooms(inst *model.Instance, sched *model.Schedule) {
	for _, slot := range inst.SlotIds {
		courses := sched.CoursesAt(slot)
		if len(courses) < 2 {
			continue
		}
		slices.Sort(courses)

		free := lo.Filter(courses, func(course uint64, _ int) bool {
			return inst.Courses[course].Room == nil
		})
		if len(free) < 2 {
			continue
		}

		neighbors := func(courseAny any, roomAny any) (bool, error) {
			course := courseAny.(uint64)
			room := roomAny.(uint64)
			return inst.Compatible(inst.Courses[course], inst.Rooms[room]), nil
		}

		// Transform courses and rooms to slices of any
		coursesAny := lo.Map(free, func(course uint64, _ int) any { return course })
		roomsAny := lo.Map(inst.RoomIds, func(room uint64, _ int) any { return room })

		graph, err := bipartitegraph.NewBipartiteGraph(coursesAny, roomsAny, neighbors)
		if err != nil {
			continue
		}

		for _, edge := range graph.LargestMatching() {
			course := free[edge.Node1]
			room := inst.RoomIds[edge.Node2-len(free)]

			placement, _ := sched.PlacementOf(course)
			placement.Room = room
			sched.Assign(course, placement)
		}
	}
}
