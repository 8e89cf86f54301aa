package domain

import (
	"fmt"
	"strings"
	"time"
)

// Notes attached to a working day. Their order in a cell is fixed:
// location mismatch, start, end, lunch, then one line per absence.
const (
	NoteUnscheduledOffice = "unscheduled office attendance"
	NoteUnscheduledRemote = "unscheduled remote work"

	absencePlaceholder = "?"
)

// LunchNoteMode controls when a lunch note is written.
type LunchNoteMode int

const (
	// LunchNoteAlways writes a note whenever an effective lunch start exists.
	LunchNoteAlways LunchNoteMode = iota
	// LunchNoteOverride writes a note only for an adjusted lunch start.
	LunchNoteOverride
)

// ParseLunchNoteMode accepts "always" (also empty) and "override".
func ParseLunchNoteMode(s string) (LunchNoteMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "always":
		return LunchNoteAlways, nil
	case "override":
		return LunchNoteOverride, nil
	}
	return LunchNoteAlways, fmt.Errorf("unknown lunch note mode %q", s)
}

// Resolver turns the profile, plan and adjustment of one day into a Cell.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	Calendar  Calendar
	LunchNote LunchNoteMode
}

// NewResolver returns a resolver with a Saturday/Sunday weekend.
func NewResolver() *Resolver {
	return &Resolver{Calendar: WeekdayCalendar{}}
}

// ResolveDay resolves with the default resolver.
func ResolveDay(emp Employee, plan *PlanEntry, adj *Adjustment, date time.Time) Cell {
	return NewResolver().Resolve(emp, plan, adj, date)
}

// Resolve applies the precedence table; the first matching rule wins:
//  1. day-status override on the adjustment
//  2. non-working code on the plan row
//  3. weekend by calendar
//  4. working day: location override or the employment-mode default
//
// Working days then collect time, lunch and absence notes.
func (r *Resolver) Resolve(emp Employee, plan *PlanEntry, adj *Adjustment, date time.Time) Cell {
	if adj != nil && adj.Override.Kind == OverrideDayStatus {
		return Cell{Code: adj.Override.Code}
	}

	if plan != nil && plan.Code.IsNonWorking() {
		return Cell{Code: plan.Code}
	}

	if r.isWeekend(date) {
		return Cell{Code: CodeDayOff}
	}

	var notes []string

	code := emp.Mode.DefaultFormat()
	if adj != nil && adj.Override.Kind == OverrideLocation {
		code = adj.Override.Code
		if note := mismatchNote(emp.Mode, code); note != "" {
			notes = append(notes, note)
		}
	}

	sched := &DaySchedule{
		Start:        emp.StartTime,
		End:          emp.EndTime,
		LunchStart:   emp.LunchStart,
		LunchMinutes: emp.LunchMinutes(),
	}

	if adj != nil && adj.StartTime != nil {
		sched.Start = adj.StartTime
		notes = append(notes, "start: "+adj.StartTime.String())
	}

	if adj != nil && adj.EndTime != nil {
		sched.End = adj.EndTime
		notes = append(notes, "end: "+adj.EndTime.String())
	}

	lunchAdjusted := adj != nil && adj.LunchStart != nil
	if lunchAdjusted {
		sched.LunchStart = adj.LunchStart
	}
	if sched.LunchStart != nil && (lunchAdjusted || r.LunchNote == LunchNoteAlways) {
		lunchEnd := sched.LunchStart.AddMinutes(sched.LunchMinutes)
		notes = append(notes, fmt.Sprintf("lunch: %s-%s", sched.LunchStart, lunchEnd))
	}

	if adj != nil {
		for _, a := range adj.Absences {
			notes = append(notes, absenceNote(a))
		}
	}

	return Cell{
		Code:     code,
		Note:     strings.Join(notes, "\n"),
		Schedule: sched,
	}
}

func (r *Resolver) isWeekend(date time.Time) bool {
	if r.Calendar == nil {
		return WeekdayCalendar{}.IsWeekend(date)
	}
	return r.Calendar.IsWeekend(date)
}

func mismatchNote(mode EmploymentMode, format StatusCode) string {
	switch {
	case mode == ModeAlwaysRemote && !format.HasRemote():
		return NoteUnscheduledOffice
	case mode == ModeOfficeFixed && format.HasRemote():
		return NoteUnscheduledRemote
	}
	return ""
}

func absenceNote(a Absence) string {
	from := strings.TrimSpace(a.From)
	if from == "" {
		from = absencePlaceholder
	}
	to := strings.TrimSpace(a.To)
	if to == "" {
		to = absencePlaceholder
	}

	note := fmt.Sprintf("absence: %s-%s", from, to)
	if comment := strings.TrimSpace(a.Comment); comment != "" {
		note += " (" + comment + ")"
	}
	return note
}
