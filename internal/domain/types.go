package domain

import "time"

// DefaultLunchMinutes is used when a profile has no positive lunch duration.
const DefaultLunchMinutes = 60

// Employee is the fixed profile of one employee for a report run.
type Employee struct {
	ID            uint
	Name          string
	Mode          EmploymentMode
	StartTime     *TimeOfDay
	EndTime       *TimeOfDay
	LunchStart    *TimeOfDay
	LunchDuration int // minutes, <= 0 means DefaultLunchMinutes
	Active        bool
}

// LunchMinutes returns the effective lunch duration.
func (e Employee) LunchMinutes() int {
	if e.LunchDuration <= 0 {
		return DefaultLunchMinutes
	}
	return e.LunchDuration
}

// PlanEntry is one baseline-plan row.
type PlanEntry struct {
	EmployeeID uint
	Date       time.Time
	Code       StatusCode
}

// Absence is a short leave inside a working day. From and To are free text
// as entered; an empty value is rendered as a placeholder.
type Absence struct {
	From    string `json:"from,omitempty"`
	To      string `json:"to,omitempty"`
	Comment string `json:"comment,omitempty"`
}

// Adjustment is a manual correction for one employee and one day.
type Adjustment struct {
	EmployeeID uint
	Date       time.Time
	StartTime  *TimeOfDay
	EndTime    *TimeOfDay
	LunchStart *TimeOfDay
	Override   Override
	Absences   []Absence
}

// DaySchedule is the effective timetable of a working day.
type DaySchedule struct {
	Start        *TimeOfDay
	End          *TimeOfDay
	LunchStart   *TimeOfDay
	LunchMinutes int
}

// Cell is the resolved status of one employee on one day.
type Cell struct {
	Code StatusCode `json:"code"`
	Note string     `json:"note"`

	// Schedule is nil for non-working days.
	Schedule *DaySchedule `json:"-"`
}

// DateOf truncates t to a calendar date at UTC midnight.
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// MonthBounds returns the first and last calendar day of the month.
func MonthBounds(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(year, month, DaysIn(year, month), 0, 0, 0, 0, time.UTC)
	return first, last
}

type dayKey struct {
	employeeID uint
	year       int
	month      time.Month
	day        int
}

func keyOf(employeeID uint, date time.Time) dayKey {
	return dayKey{employeeID: employeeID, year: date.Year(), month: date.Month(), day: date.Day()}
}
