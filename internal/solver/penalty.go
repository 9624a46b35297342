package solver

import (
	"github.com/goodwing/timetabler/internal/model"
)

// Breakdown holds the four weighted penalty terms of the objective.
type Breakdown struct {
	Conflict   int64
	Balance    int64
	Gap        int64
	Transition int64
}

func (b Breakdown) Total() int64 {
	return b.Conflict + b.Balance + b.Gap + b.Transition
}

type teacherDay struct {
	teacher uint64
	day     uint64
}

type resourceGroup struct {
	key  model.ResourceKey
	slot uint64
}

// Evaluator scores a schedule against the weighted soft objective. It keeps
// the raw term totals and per-entity utilization counters cached, so a
// single-course reassignment only recomputes the bounded neighborhood the
// move touches: the old and new overlap groups, utilization buckets and
// teacher-day chains. Recompute rebuilds everything from scratch and must
// always agree with the incremental bookkeeping.
type Evaluator struct {
	inst    *model.Instance
	sched   *model.Schedule
	weights Weights

	roomOverlaps    int
	teacherOverlaps int
	balance         int64
	gap             int64
	transitions     int64

	roomCounts    map[uint64]int64
	teacherCounts map[uint64]int64
	dayCounts     map[uint64]int64

	roomTarget    int64
	teacherTarget int64
	dayTarget     int64
}

func NewEvaluator(inst *model.Instance, sched *model.Schedule, weights Weights) *Evaluator {
	e := &Evaluator{
		inst:    inst,
		sched:   sched,
		weights: weights,
	}
	e.Recompute()
	return e
}

func (e *Evaluator) Objective() int64 {
	return e.Breakdown().Total()
}

func (e *Evaluator) Breakdown() Breakdown {
	return Breakdown{
		Conflict:   e.weights.Conflict * int64(e.roomOverlaps+e.teacherOverlaps),
		Balance:    e.weights.Balance * e.balance,
		Gap:        e.weights.Gap * e.gap,
		Transition: e.weights.Transition * e.transitions,
	}
}

func (e *Evaluator) RoomOverlapCount() int    { return e.roomOverlaps }
func (e *Evaluator) TeacherOverlapCount() int { return e.teacherOverlaps }
func (e *Evaluator) GapCount() int64          { return e.gap }
func (e *Evaluator) TransitionCount() int64   { return e.transitions }

// Reassign moves the course to the given placement, updating the cached
// terms incrementally, and returns the placement the course had before.
func (e *Evaluator) Reassign(course uint64, to model.Placement) (model.Placement, bool) {
	old, hadOld := e.sched.PlacementOf(course)

	groups := touchedGroups(old, hadOld, to)
	chains := touchedChains(e.inst, old, hadOld, to)

	//** Retract the contribution of everything the move touches
	for _, group := range groups {
		e.addOverlap(group, -groupContribution(e.sched, group.key, group.slot))
	}
	for _, chain := range chains {
		e.gap -= e.measureGap(chain)
		e.transitions -= e.measureTransitions(chain)
	}
	if hadOld {
		e.bumpCounts(old, -1)
	}

	e.sched.Assign(course, to)
	e.bumpCounts(to, 1)

	//** Re-add it on the mutated schedule
	for _, group := range groups {
		e.addOverlap(group, groupContribution(e.sched, group.key, group.slot))
	}
	for _, chain := range chains {
		e.gap += e.measureGap(chain)
		e.transitions += e.measureTransitions(chain)
	}

	return old, hadOld
}

// Swap exchanges the placements of two assigned courses. Per-slot
// cardinalities are preserved, which keeps overlap churn low.
func (e *Evaluator) Swap(a, b uint64) {
	pa, okA := e.sched.PlacementOf(a)
	pb, okB := e.sched.PlacementOf(b)
	if !okA || !okB {
		return
	}
	e.Reassign(a, pb)
	e.Reassign(b, pa)
}

// Recompute rebuilds every cached term by a full scan of the schedule.
func (e *Evaluator) Recompute() {
	checker := NewChecker(e.sched)
	e.roomOverlaps = checker.RoomOverlaps()
	e.teacherOverlaps = checker.TeacherOverlaps()

	e.roomCounts = make(map[uint64]int64, len(e.inst.RoomIds))
	e.teacherCounts = make(map[uint64]int64, len(e.inst.TeacherIds))
	e.dayCounts = make(map[uint64]int64, e.inst.Days)
	for _, assignment := range e.sched.Assignments() {
		day, _ := e.inst.Indexer.Attributes(assignment.Timeslot)
		e.roomCounts[assignment.Room]++
		e.teacherCounts[assignment.Teacher]++
		e.dayCounts[day]++
	}

	total := int64(e.sched.Len())
	e.roomTarget = total / int64(len(e.inst.RoomIds))
	e.teacherTarget = total / int64(len(e.inst.TeacherIds))
	e.dayTarget = total / int64(e.inst.Days)

	e.balance = 0
	for _, room := range e.inst.RoomIds {
		e.balance += absDev(e.roomCounts[room], e.roomTarget)
	}
	for _, teacher := range e.inst.TeacherIds {
		e.balance += absDev(e.teacherCounts[teacher], e.teacherTarget)
	}
	for day := uint64(0); day < e.inst.Days; day++ {
		e.balance += absDev(e.dayCounts[day], e.dayTarget)
	}

	e.gap = 0
	e.transitions = 0
	for _, teacher := range e.inst.TeacherIds {
		for day := uint64(0); day < e.inst.Days; day++ {
			chain := teacherDay{teacher: teacher, day: day}
			e.gap += e.measureGap(chain)
			e.transitions += e.measureTransitions(chain)
		}
	}
}

// bumpCounts shifts a placement's utilization buckets by delta and adjusts
// the balance term by the change in absolute deviation from each target.
func (e *Evaluator) bumpCounts(p model.Placement, delta int64) {
	day, _ := e.inst.Indexer.Attributes(p.Timeslot)

	e.balance -= absDev(e.roomCounts[p.Room], e.roomTarget)
	e.roomCounts[p.Room] += delta
	e.balance += absDev(e.roomCounts[p.Room], e.roomTarget)

	e.balance -= absDev(e.teacherCounts[p.Teacher], e.teacherTarget)
	e.teacherCounts[p.Teacher] += delta
	e.balance += absDev(e.teacherCounts[p.Teacher], e.teacherTarget)

	e.balance -= absDev(e.dayCounts[day], e.dayTarget)
	e.dayCounts[day] += delta
	e.balance += absDev(e.dayCounts[day], e.dayTarget)
}

func (e *Evaluator) addOverlap(group resourceGroup, delta int) {
	if group.key.Kind == model.RoomResource {
		e.roomOverlaps += delta
	} else {
		e.teacherOverlaps += delta
	}
}

// measureGap counts the idle timeslots strictly between the teacher's first
// and last occupied slot of the day.
func (e *Evaluator) measureGap(chain teacherDay) int64 {
	first, last := -1, -1
	occupied := make([]bool, e.inst.Positions)
	for position := uint64(0); position < e.inst.Positions; position++ {
		slot, ok := e.inst.SlotAt(chain.day, position)
		if !ok {
			continue
		}
		if e.sched.OccupancyAt(model.TeacherKey(chain.teacher), slot) > 0 {
			occupied[position] = true
			if first < 0 {
				first = int(position)
			}
			last = int(position)
		}
	}

	var gaps int64
	for position := first + 1; position < last; position++ {
		if !occupied[position] {
			gaps++
		}
	}
	return gaps
}

// measureTransitions counts the consecutive occupied slot pairs of the
// teacher's day whose delivery modes differ (online next to physical).
func (e *Evaluator) measureTransitions(chain teacherDay) int64 {
	var transitions int64
	prevOccupied := false
	prevOnline := false
	for position := uint64(0); position < e.inst.Positions; position++ {
		slot, ok := e.inst.SlotAt(chain.day, position)
		if !ok {
			prevOccupied = false
			continue
		}
		courses := e.sched.AssignmentsAt(model.TeacherKey(chain.teacher), slot)
		if len(courses) == 0 {
			prevOccupied = false
			continue
		}
		online := e.slotOnline(courses)
		if prevOccupied && online != prevOnline {
			transitions++
		}
		prevOccupied = true
		prevOnline = online
	}
	return transitions
}

// slotOnline classifies a teacher-slot as online only when every course in
// it is online-deliverable; a mixed group counts as physical.
func (e *Evaluator) slotOnline(courses []uint64) bool {
	for _, course := range courses {
		if !e.inst.Courses[course].Online {
			return false
		}
	}
	return true
}

func touchedGroups(old model.Placement, hadOld bool, to model.Placement) []resourceGroup {
	groups := make([]resourceGroup, 0, 4)
	if hadOld {
		groups = append(groups,
			resourceGroup{key: model.RoomKey(old.Room), slot: old.Timeslot},
			resourceGroup{key: model.TeacherKey(old.Teacher), slot: old.Timeslot},
		)
	}
	groups = appendGroup(groups, resourceGroup{key: model.RoomKey(to.Room), slot: to.Timeslot})
	groups = appendGroup(groups, resourceGroup{key: model.TeacherKey(to.Teacher), slot: to.Timeslot})
	return groups
}

func appendGroup(groups []resourceGroup, group resourceGroup) []resourceGroup {
	for _, existing := range groups {
		if existing == group {
			return groups
		}
	}
	return append(groups, group)
}

func touchedChains(inst *model.Instance, old model.Placement, hadOld bool, to model.Placement) []teacherDay {
	chains := make([]teacherDay, 0, 2)
	if hadOld {
		day, _ := inst.Indexer.Attributes(old.Timeslot)
		chains = append(chains, teacherDay{teacher: old.Teacher, day: day})
	}
	day, _ := inst.Indexer.Attributes(to.Timeslot)
	chain := teacherDay{teacher: to.Teacher, day: day}
	if len(chains) == 0 || chains[0] != chain {
		chains = append(chains, chain)
	}
	return chains
}

func absDev(count, target int64) int64 {
	if count > target {
		return count - target
	}
	return target - count
}
