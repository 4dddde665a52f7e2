package model

// Session represents one scheduled meeting of a cohort, as imported from a
// timetable. Start and end are minute offsets from midnight. Room holds the
// assigned room code and stays empty until the allocator (or a manual
// override) sets it.
type Session struct {
	ID       string
	Date     string // Date format (2006-01-02)
	StartMin int
	EndMin   int
	Cohort   string
	Subject  string
	Room     string // nullable
}

// Room represents a bookable physical space
type Room struct {
	Code       string
	Capacity   int
	Accessible bool
}

// Cohort represents a training cohort and its room requirements
type Cohort struct {
	Name               string
	Headcount          int
	RequiresAccessible bool
}
