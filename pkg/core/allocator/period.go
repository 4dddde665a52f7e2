package allocator

// Period is the half-day partition used to scope room usage conflicts.
type Period string

const (
	Morning   Period = "MORNING"
	Afternoon Period = "AFTERNOON"
)

// PeriodOf returns the half-day period for a session start time given as
// minutes from midnight. Anything starting before 13:00 counts as morning.
func PeriodOf(startMin int) Period {
	if startMin < 13*60 {
		return Morning
	}
	return Afternoon
}
