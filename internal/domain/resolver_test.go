package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	wednesday = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)
	saturday  = time.Date(2025, time.January, 18, 0, 0, 0, 0, time.UTC)
	sunday    = time.Date(2025, time.January, 19, 0, 0, 0, 0, time.UTC)
)

func officeEmployee() Employee {
	return Employee{
		ID:            1,
		Name:          "Иванов Иван",
		Mode:          ModeOfficeFixed,
		StartTime:     TimePtr("09:00"),
		EndTime:       TimePtr("18:00"),
		LunchStart:    TimePtr("13:00"),
		LunchDuration: 60,
		Active:        true,
	}
}

func remoteEmployee() Employee {
	return Employee{ID: 2, Name: "Петров Петр", Mode: ModeAlwaysRemote, Active: true}
}

func TestResolveWeekendDefault(t *testing.T) {
	for _, date := range []time.Time{saturday, sunday} {
		for _, emp := range []Employee{officeEmployee(), remoteEmployee()} {
			cell := ResolveDay(emp, nil, nil, date)
			assert.Equal(t, CodeDayOff, cell.Code)
			assert.Empty(t, cell.Note)
		}
	}
}

func TestResolveWeekendIgnoresWorkPlan(t *testing.T) {
	plan := &PlanEntry{EmployeeID: 1, Date: saturday, Code: CodeWork}
	cell := ResolveDay(officeEmployee(), plan, nil, saturday)
	assert.Equal(t, CodeDayOff, cell.Code)
	assert.Empty(t, cell.Note)
}

func TestResolveDayStatusOverrideWins(t *testing.T) {
	adj := &Adjustment{EmployeeID: 2, Date: saturday, Override: DayStatusOverride(CodeSickLeave)}
	cell := ResolveDay(remoteEmployee(), nil, adj, saturday)
	assert.Equal(t, CodeSickLeave, cell.Code)
	assert.Empty(t, cell.Note)

	plan := &PlanEntry{EmployeeID: 2, Date: wednesday, Code: CodeVacation}
	adj.Date = wednesday
	cell = ResolveDay(remoteEmployee(), plan, adj, wednesday)
	assert.Equal(t, CodeSickLeave, cell.Code)
}

func TestResolveNonWorkingPlan(t *testing.T) {
	codes := []StatusCode{CodeDayOff, CodeVacation, CodeSickLeave, CodeBusinessTrip, CodeStudyLeave}
	for _, code := range codes {
		t.Run(code.Name(), func(t *testing.T) {
			plan := &PlanEntry{EmployeeID: 1, Date: wednesday, Code: code}
			adj := &Adjustment{
				EmployeeID: 1,
				Date:       wednesday,
				StartTime:  TimePtr("10:00"),
				Override:   LocationOverride(CodeRemoteFull),
				Absences:   []Absence{{From: "11:00", To: "12:00"}},
			}
			cell := ResolveDay(officeEmployee(), plan, adj, wednesday)
			assert.Equal(t, code, cell.Code)
			assert.Empty(t, cell.Note)
			assert.Nil(t, cell.Schedule)
		})
	}
}

func TestResolveNonWorkingSuppressesNotes(t *testing.T) {
	adj := &Adjustment{
		EmployeeID: 1,
		Date:       wednesday,
		StartTime:  TimePtr("08:00"),
		EndTime:    TimePtr("20:00"),
		LunchStart: TimePtr("12:00"),
		Override:   DayStatusOverride(CodeBusinessTrip),
		Absences:   []Absence{{From: "14:00", To: "15:00", Comment: "bank"}},
	}
	cell := ResolveDay(officeEmployee(), nil, adj, wednesday)
	assert.Equal(t, CodeBusinessTrip, cell.Code)
	assert.Empty(t, cell.Note)
}

func TestResolveScenarioA(t *testing.T) {
	adj := &Adjustment{
		EmployeeID: 1,
		Date:       wednesday,
		StartTime:  TimePtr("10:00"),
		Override:   LocationOverride(CodeRemoteFull),
	}
	cell := ResolveDay(officeEmployee(), nil, adj, wednesday)

	assert.Equal(t, CodeRemoteFull, cell.Code)
	assert.Equal(t, "unscheduled remote work\nstart: 10:00\nlunch: 13:00-14:00", cell.Note)
	assert.Less(t, strings.Index(cell.Note, NoteUnscheduledRemote), strings.Index(cell.Note, "start: 10:00"))
}

func TestResolveScenarioB(t *testing.T) {
	plan := &PlanEntry{EmployeeID: 2, Date: wednesday, Code: CodeWork}
	cell := ResolveDay(remoteEmployee(), plan, nil, wednesday)
	assert.Equal(t, CodeRemoteFull, cell.Code)
	assert.Equal(t, "", cell.Note)
}

func TestResolveScenarioC(t *testing.T) {
	adj := &Adjustment{
		EmployeeID: 2,
		Date:       wednesday,
		Absences:   []Absence{{From: "14:00", To: "16:00", Comment: "clinic"}},
	}
	cell := ResolveDay(remoteEmployee(), nil, adj, wednesday)
	assert.Equal(t, CodeRemoteFull, cell.Code)
	assert.True(t, strings.HasSuffix(cell.Note, "absence: 14:00-16:00 (clinic)"), cell.Note)
}

func TestResolveEmploymentModeDefaults(t *testing.T) {
	tests := []struct {
		mode EmploymentMode
		want StatusCode
	}{
		{ModeAlwaysRemote, CodeRemoteFull},
		{ModeRemoteBySchedule, CodeOfficeFull},
		{ModeOfficeFixed, CodeOfficeFull},
		{ModeOfficeFlex, CodeOfficeFull},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			cell := ResolveDay(Employee{ID: 3, Mode: tt.mode}, nil, nil, wednesday)
			assert.Equal(t, tt.want, cell.Code)
			assert.Empty(t, cell.Note)
		})
	}
}

func TestResolveLocationMismatch(t *testing.T) {
	tests := []struct {
		name     string
		mode     EmploymentMode
		location StatusCode
		wantNote string
	}{
		{"remote employee in office", ModeAlwaysRemote, CodeOfficeFull, NoteUnscheduledOffice},
		{"remote employee half office", ModeAlwaysRemote, CodeOfficeToRemote, ""},
		{"remote employee remote", ModeAlwaysRemote, CodeRemoteFull, ""},
		{"office employee remote", ModeOfficeFixed, CodeRemoteFull, NoteUnscheduledRemote},
		{"office employee half remote", ModeOfficeFixed, CodeRemoteToOffice, NoteUnscheduledRemote},
		{"office employee office", ModeOfficeFixed, CodeOfficeFull, ""},
		{"flex employee remote", ModeOfficeFlex, CodeRemoteFull, ""},
		{"scheduled remote employee office", ModeRemoteBySchedule, CodeOfficeFull, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adj := &Adjustment{EmployeeID: 3, Date: wednesday, Override: LocationOverride(tt.location)}
			cell := ResolveDay(Employee{ID: 3, Mode: tt.mode}, nil, adj, wednesday)
			assert.Equal(t, tt.location, cell.Code)
			assert.Equal(t, tt.wantNote, cell.Note)
		})
	}
}

func TestResolveNoteOrder(t *testing.T) {
	adj := &Adjustment{
		EmployeeID: 2,
		Date:       wednesday,
		StartTime:  TimePtr("08:30"),
		EndTime:    TimePtr("17:15"),
		LunchStart: TimePtr("12:30"),
		Override:   LocationOverride(CodeOfficeFull),
		Absences: []Absence{
			{From: "10:00", To: "10:30"},
			{From: "15:00", To: "16:00", Comment: "почта"},
		},
	}
	emp := remoteEmployee()
	emp.LunchDuration = 45

	cell := ResolveDay(emp, nil, adj, wednesday)
	want := strings.Join([]string{
		NoteUnscheduledOffice,
		"start: 08:30",
		"end: 17:15",
		"lunch: 12:30-13:15",
		"absence: 10:00-10:30",
		"absence: 15:00-16:00 (почта)",
	}, "\n")
	assert.Equal(t, CodeOfficeFull, cell.Code)
	assert.Equal(t, want, cell.Note)
}

func TestResolveLunchUsesProfileDuration(t *testing.T) {
	emp := officeEmployee()
	emp.LunchDuration = 30
	cell := ResolveDay(emp, nil, nil, wednesday)
	assert.Equal(t, "lunch: 13:00-13:30", cell.Note)

	emp.LunchDuration = 0
	cell = ResolveDay(emp, nil, nil, wednesday)
	assert.Equal(t, "lunch: 13:00-14:00", cell.Note)

	adj := &Adjustment{EmployeeID: 1, Date: wednesday, LunchStart: TimePtr("23:30")}
	cell = ResolveDay(emp, nil, adj, wednesday)
	assert.Equal(t, "lunch: 23:30-00:30", cell.Note)
}

func TestResolveLunchOverrideMode(t *testing.T) {
	r := &Resolver{Calendar: WeekdayCalendar{}, LunchNote: LunchNoteOverride}

	cell := r.Resolve(officeEmployee(), nil, nil, wednesday)
	assert.Empty(t, cell.Note)
	require.NotNil(t, cell.Schedule)
	assert.Equal(t, "13:00", cell.Schedule.LunchStart.String())

	adj := &Adjustment{EmployeeID: 1, Date: wednesday, LunchStart: TimePtr("14:00")}
	cell = r.Resolve(officeEmployee(), nil, adj, wednesday)
	assert.Equal(t, "lunch: 14:00-15:00", cell.Note)
}

func TestResolveMalformedAbsence(t *testing.T) {
	adj := &Adjustment{
		EmployeeID: 2,
		Date:       wednesday,
		Absences:   []Absence{{}, {From: "09:00"}, {To: "18:00", Comment: "  "}},
	}
	cell := ResolveDay(remoteEmployee(), nil, adj, wednesday)
	assert.Equal(t, "absence: ?-?\nabsence: 09:00-?\nabsence: ?-18:00", cell.Note)
}

func TestResolveSchedule(t *testing.T) {
	adj := &Adjustment{EmployeeID: 1, Date: wednesday, EndTime: TimePtr("16:00")}
	cell := ResolveDay(officeEmployee(), nil, adj, wednesday)
	require.NotNil(t, cell.Schedule)
	assert.Equal(t, "09:00", cell.Schedule.Start.String())
	assert.Equal(t, "16:00", cell.Schedule.End.String())
	assert.Equal(t, 60, cell.Schedule.LunchMinutes)
}

func TestResolveIsIdempotent(t *testing.T) {
	adj := &Adjustment{
		EmployeeID: 1,
		Date:       wednesday,
		StartTime:  TimePtr("10:00"),
		Override:   LocationOverride(CodeOfficeToRemote),
		Absences:   []Absence{{From: "11:00", To: "12:00", Comment: "x"}},
	}
	first := ResolveDay(officeEmployee(), nil, adj, wednesday)
	second := ResolveDay(officeEmployee(), nil, adj, wednesday)
	assert.Equal(t, first, second)
	assert.Len(t, adj.Absences, 1)
}

func TestResolveWithHolidayCalendar(t *testing.T) {
	holiday := time.Date(2025, time.January, 8, 0, 0, 0, 0, time.UTC) // среда
	workingSaturday := time.Date(2025, time.January, 11, 0, 0, 0, 0, time.UTC)

	var nonWorking []time.Time
	for day := 1; day <= DaysIn(2025, time.January); day++ {
		date := time.Date(2025, time.January, day, 0, 0, 0, 0, time.UTC)
		if date.Equal(workingSaturday) {
			continue
		}
		if (WeekdayCalendar{}).IsWeekend(date) || date.Equal(holiday) {
			nonWorking = append(nonWorking, date)
		}
	}

	r := &Resolver{Calendar: NewHolidayCalendar(nonWorking)}
	emp := Employee{ID: 1, Mode: ModeOfficeFlex}

	assert.Equal(t, CodeDayOff, r.Resolve(emp, nil, nil, holiday).Code)
	assert.Equal(t, CodeOfficeFull, r.Resolve(emp, nil, nil, workingSaturday).Code)
	assert.Equal(t, CodeDayOff, r.Resolve(emp, nil, nil, saturday).Code)

	// февраль календарю неизвестен
	febSaturday := time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)
	febMonday := time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, CodeDayOff, r.Resolve(emp, nil, nil, febSaturday).Code)
	assert.Equal(t, CodeOfficeFull, r.Resolve(emp, nil, nil, febMonday).Code)
}
