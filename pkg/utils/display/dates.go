// Package display renders dates the way the planning staff reads them.
// This is presentation only; everything else in the system speaks ISO dates.
package display

import (
	"fmt"
	"time"
)

var frenchDays = [...]string{
	time.Sunday:    "Dimanche",
	time.Monday:    "Lundi",
	time.Tuesday:   "Mardi",
	time.Wednesday: "Mercredi",
	time.Thursday:  "Jeudi",
	time.Friday:    "Vendredi",
	time.Saturday:  "Samedi",
}

var frenchMonths = [...]string{
	time.January:   "Janvier",
	time.February:  "Février",
	time.March:     "Mars",
	time.April:     "Avril",
	time.May:       "Mai",
	time.June:      "Juin",
	time.July:      "Juillet",
	time.August:    "Août",
	time.September: "Septembre",
	time.October:   "Octobre",
	time.November:  "Novembre",
	time.December:  "Décembre",
}

// FrenchDate formats a date as "Jeudi 05 Février 2026"
func FrenchDate(t time.Time) string {
	return fmt.Sprintf("%s %02d %s %d", frenchDays[t.Weekday()], t.Day(), frenchMonths[t.Month()], t.Year())
}
