package db

// Session is the persisted form of a class session
type Session struct {
	ID       string
	PlanYear string
	Date     string // Date format (2006-01-02)
	StartMin int
	EndMin   int
	Cohort   string
	Subject  string
	Room     string // nullable
}

// Cohort is the persisted form of a cohort's room requirements
type Cohort struct {
	PlanYear           string
	Name               string
	Headcount          int
	RequiresAccessible bool
}

// PlanYear is an academic year plan. A locked year refuses timetable
// imports and resets so a published plan cannot drift.
type PlanYear struct {
	Name   string
	Locked bool
}
