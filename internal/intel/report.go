package intel

import (
	"fmt"
	"strings"
)

// Render serializes a Record into the textual intelligence report. Section
// order and wording are part of the contract with downstream consumers; do
// not reorder.
func Render(record Record) string {
	var builder strings.Builder

	builder.WriteString("==== SCHEDULING INTELLIGENCE REPORT ====\n")

	fmt.Fprintf(&builder, "\n1. CONFLICT ANALYSIS\n")
	fmt.Fprintf(&builder, "   - Room Overlaps: %d\n", record.RoomOverlaps)
	fmt.Fprintf(&builder, "   - Teacher Overlaps: %d\n", record.TeacherOverlaps)

	n := record.TopN
	if n <= 0 {
		n = 3
	}
	fmt.Fprintf(&builder, "\n2. RESOURCE UTILIZATION\n")
	fmt.Fprintf(&builder, "   Top %d Most Used Rooms:\n", n)
	writeUsage(&builder, record.TopRooms)
	fmt.Fprintf(&builder, "   Top %d Most Used Teachers:\n", n)
	writeUsage(&builder, record.TopTeachers)

	fmt.Fprintf(&builder, "\n3. TIMESLOT DISTRIBUTION\n")
	fmt.Fprintf(&builder, "   Top %d Most Used Timeslots:\n", n)
	writeUsage(&builder, record.TopTimeslots)

	total := record.TotalObjective
	fmt.Fprintf(&builder, "\n4. PENALTY BREAKDOWN\n")
	fmt.Fprintf(&builder, "   - Conflict Penalties: %d (%.1f%%)\n", record.Breakdown.Conflict, percentage(record.Breakdown.Conflict, total))
	fmt.Fprintf(&builder, "   - Balance Penalties: %d (%.1f%%)\n", record.Breakdown.Balance, percentage(record.Breakdown.Balance, total))
	fmt.Fprintf(&builder, "   - Gap Penalties: %d (%.1f%%)\n", record.Breakdown.Gap, percentage(record.Breakdown.Gap, total))
	fmt.Fprintf(&builder, "   - Transition Penalties: %d (%.1f%%)\n", record.Breakdown.Transition, percentage(record.Breakdown.Transition, total))
	fmt.Fprintf(&builder, "   - Total Objective Value: %d\n", total)

	fmt.Fprintf(&builder, "\n5. ONLINE-PHYSICAL TRANSITIONS\n")
	fmt.Fprintf(&builder, "   - Total Transitions: %d\n", record.Transitions)
	if record.Transitions == 0 {
		builder.WriteString("   - Courses are optimally grouped by delivery mode\n")
	}

	fmt.Fprintf(&builder, "\n6. LATE TIMESLOT ANALYSIS\n")
	fmt.Fprintf(&builder, "   - Late Timeslot Ranges: %s\n", strings.Join(record.LateWindows, ", "))
	fmt.Fprintf(&builder, "   - Courses in Late Timeslots: %d (%.1f%%)\n", record.LateCourses, percentage(int64(record.LateCourses), int64(record.TotalCourses)))
	if record.LateCourses == 0 {
		builder.WriteString("   - No courses scheduled in late timeslots\n")
	}

	builder.WriteString("\n==== END OF INTELLIGENCE REPORT ====\n")

	fmt.Fprintf(&builder, "\nComputational time: %.3f s\n", record.Duration.Seconds())
	fmt.Fprintf(&builder, "Best objective value: %d\n", record.BestObjective)
	fmt.Fprintf(&builder, "Total solutions found: %d\n", record.Solutions)

	return builder.String()
}

func writeUsage(builder *strings.Builder, usage []UsageCount) {
	for _, entry := range usage {
		fmt.Fprintf(builder, "     * %s: %d courses\n", entry.Name, entry.Count)
	}
}

func percentage(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(part) / float64(total)
}
