package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	employees   *EmployeeService
	plans       *ScheduleBaseService
	adjustments *ScheduleAdjustmentService
	holidays    *NonWorkingDayService
	reports     *ReportService
	generator   *PlanGenerator
	importer    *PlanImporter
	stats       *MonthlyStatService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := repository.OpenSQLite(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repository.Close(db) })

	employeeRepo, err := repository.NewGormEmployeeRepository(db)
	require.NoError(t, err)
	planRepo, err := repository.NewGormScheduleBaseRepository(db)
	require.NoError(t, err)
	adjRepo, err := repository.NewGormScheduleAdjustmentRepository(db)
	require.NoError(t, err)
	holidayRepo, err := repository.NewGormNonWorkingDayRepository(db)
	require.NoError(t, err)
	statRepo, err := repository.NewGormMonthlyStatRepository(db)
	require.NoError(t, err)

	holidays := NewNonWorkingDayService(holidayRepo)
	plans := NewScheduleBaseService(planRepo, employeeRepo)

	return &testEnv{
		employees:   NewEmployeeService(employeeRepo),
		plans:       plans,
		adjustments: NewScheduleAdjustmentService(adjRepo, employeeRepo),
		holidays:    holidays,
		reports:     NewReportService(employeeRepo, planRepo, adjRepo, holidays, domain.LunchNoteAlways),
		generator:   NewPlanGenerator(employeeRepo, planRepo, holidays, nil),
		importer:    NewPlanImporter(employeeRepo, plans),
		stats:       NewMonthlyStatService(statRepo),
	}
}

func str(s string) *string { return &s }
func id(v uint) *uint      { return &v }

func (env *testEnv) addEmployee(t *testing.T, name, mode string) uint {
	t.Helper()
	e, err := env.employees.CreateEmployee(EmployeeInput{
		FullName:       str(name),
		Team:           str("Разработка"),
		EmploymentMode: str(mode),
		StartTime:      str("09:00"),
		EndTime:        str("18:00"),
		LunchStart:     str("13:00"),
	})
	require.NoError(t, err)
	return e.ID
}

const january2025 = `{"year": 2025, "months": [{"month": 1, "days": "1,2,3,4,5,6,7,8,11,12,18,19,25,26"}]}`

func TestEmployeeServiceCreate(t *testing.T) {
	env := newTestEnv(t)

	e, err := env.employees.CreateEmployee(EmployeeInput{FullName: str(" Иванов Иван "), Team: str("QA")})
	require.NoError(t, err)
	assert.Equal(t, "Иванов Иван", e.FullName)
	assert.Equal(t, string(domain.ModeOfficeFixed), e.EmploymentMode)
	assert.Equal(t, "user", e.Role)
	assert.True(t, e.IsActive)
	require.NotNil(t, e.LunchDuration)
	assert.Equal(t, 60, *e.LunchDuration)

	tests := []struct {
		name  string
		in    EmployeeInput
		field string
	}{
		{"no fio", EmployeeInput{Team: str("QA")}, "fio"},
		{"blank team", EmployeeInput{FullName: str("A"), Team: str(" ")}, "team"},
		{"bad mode", EmployeeInput{FullName: str("A"), Team: str("QA"), EmploymentMode: str("HYBRID")}, "employee_type"},
		{"bad role", EmployeeInput{FullName: str("A"), Team: str("QA"), Role: str("root")}, "role"},
		{"bad time", EmployeeInput{FullName: str("A"), Team: str("QA"), StartTime: str("25:00")}, "start_time"},
		{"end before start", EmployeeInput{FullName: str("A"), Team: str("QA"), StartTime: str("18:00"), EndTime: str("09:00")}, "end_time"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.employees.CreateEmployee(tt.in)
			require.ErrorIs(t, err, ErrValidation)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestEmployeeServiceUpdate(t *testing.T) {
	env := newTestEnv(t)

	tg := int64(42)
	a, err := env.employees.CreateEmployee(EmployeeInput{FullName: str("A"), Team: str("QA"), TelegramID: &tg})
	require.NoError(t, err)
	b, err := env.employees.CreateEmployee(EmployeeInput{FullName: str("B"), Team: str("QA")})
	require.NoError(t, err)

	_, err = env.employees.UpdateEmployee(b.ID, EmployeeInput{TelegramID: &tg})
	assert.ErrorIs(t, err, ErrConflict)

	inactive := false
	updated, err := env.employees.UpdateEmployee(a.ID, EmployeeInput{
		IsActive:       &inactive,
		EmploymentMode: str("always_remote"),
		Role:           str("ADMIN"),
		StartTime:      str("10.00"),
	})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
	assert.Equal(t, string(domain.ModeAlwaysRemote), updated.EmploymentMode)
	assert.Equal(t, "10:00", updated.StartTime.String())

	admin, err := env.employees.IsAdmin(42)
	require.NoError(t, err)
	assert.True(t, admin)

	active, err := env.employees.ListEmployees(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "B", active[0].FullName)

	cleared, err := env.employees.UpdateEmployee(a.ID, EmployeeInput{StartTime: str("")})
	require.NoError(t, err)
	assert.Nil(t, cleared.StartTime)

	_, err = env.employees.UpdateEmployee(999, EmployeeInput{})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, env.employees.DeleteEmployee(999), ErrNotFound)
	assert.NoError(t, env.employees.DeleteEmployee(a.ID))
}

func TestScheduleBaseService(t *testing.T) {
	env := newTestEnv(t)
	empID := env.addEmployee(t, "Иванов Иван", "OFFICE_FIXED")

	row, err := env.plans.CreatePlan(PlanInput{EmployeeID: id(empID), Date: str("2025-01-15"), BaseCode: str("vacation")})
	require.NoError(t, err)
	assert.Equal(t, "О", row.BaseCode)

	_, err = env.plans.CreatePlan(PlanInput{EmployeeID: id(empID), Date: str("15.01.2025"), BaseCode: str("Я")})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.plans.CreatePlan(PlanInput{EmployeeID: id(empID), Date: str("2025-01-16"), BaseCode: str("Д")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.plans.CreatePlan(PlanInput{EmployeeID: id(999), Date: str("2025-01-16"), BaseCode: str("Я")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.plans.CreatePlan(PlanInput{EmployeeID: id(empID), Date: str("16/01/2025"), BaseCode: str("Я")})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := env.plans.UpdatePlan(row.ID, PlanInput{BaseCode: str("Б")})
	require.NoError(t, err)
	assert.Equal(t, "Б", updated.BaseCode)

	rows, err := env.plans.ListPlans(empID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	require.NoError(t, env.plans.DeletePlan(row.ID))
	_, err = env.plans.GetPlan(row.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestScheduleBaseSetPeriod(t *testing.T) {
	env := newTestEnv(t)
	empID := env.addEmployee(t, "Иванов Иван", "OFFICE_FIXED")

	_, err := env.plans.CreatePlan(PlanInput{EmployeeID: id(empID), Date: str("2025-01-21"), BaseCode: str("Я")})
	require.NoError(t, err)

	days, err := env.plans.SetPeriod(PeriodInput{EmployeeID: id(empID), From: str("20.01.2025"), To: str("2025-01-24"), Code: str("vacation")})
	require.NoError(t, err)
	assert.Equal(t, 5, days)

	rows, err := env.plans.ListPlans(empID)
	require.NoError(t, err)
	require.Len(t, rows, 5)
	for _, row := range rows {
		assert.Equal(t, "О", row.BaseCode)
	}

	_, err = env.plans.SetPeriod(PeriodInput{EmployeeID: id(empID), From: str("2025-01-24"), To: str("2025-01-20"), Code: str("Б")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.plans.SetPeriod(PeriodInput{EmployeeID: id(empID), From: str("2025-01-20"), To: str("2025-01-24"), Code: str("Д")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.plans.SetPeriod(PeriodInput{EmployeeID: id(empID), From: str("2025-01-01"), To: str("2026-06-01"), Code: str("Б")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.plans.SetPeriod(PeriodInput{EmployeeID: id(999), From: str("2025-01-20"), To: str("2025-01-24"), Code: str("Б")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestScheduleAdjustmentService(t *testing.T) {
	env := newTestEnv(t)
	empID := env.addEmployee(t, "Иванов Иван", "OFFICE_FIXED")

	absences := []domain.Absence{{From: "14:00", To: "15:00", Comment: "врач"}}
	adj, err := env.adjustments.CreateAdjustment(AdjustmentInput{
		EmployeeID:        id(empID),
		Date:              str("2025-01-15"),
		StartTimeOverride: str("10:00"),
		StatusOverride:    str("remote-full"),
		Absences:          &absences,
	})
	require.NoError(t, err)
	assert.Equal(t, "Д", adj.StatusOverride)

	_, err = env.adjustments.CreateAdjustment(AdjustmentInput{EmployeeID: id(empID), Date: str("2025-01-15")})
	assert.ErrorIs(t, err, ErrConflict)

	_, err = env.adjustments.CreateAdjustment(AdjustmentInput{EmployeeID: id(empID), Date: str("2025-01-16"), StatusOverride: str("X")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = env.adjustments.CreateAdjustment(AdjustmentInput{EmployeeID: id(empID)})
	assert.ErrorIs(t, err, ErrValidation)

	empty := []domain.Absence{{}}
	_, err = env.adjustments.CreateAdjustment(AdjustmentInput{EmployeeID: id(empID), Date: str("2025-01-17"), Absences: &empty})
	assert.ErrorIs(t, err, ErrValidation)

	updated, err := env.adjustments.UpdateAdjustment(adj.ID, AdjustmentInput{StartTimeOverride: str(""), StatusOverride: str("")})
	require.NoError(t, err)
	assert.Nil(t, updated.StartTimeOverride)
	assert.Empty(t, updated.StatusOverride)
	assert.Len(t, updated.Absences, 1)

	assert.ErrorIs(t, env.adjustments.DeleteAdjustment(999), ErrNotFound)
}

func TestNonWorkingDayServiceCalendar(t *testing.T) {
	env := newTestEnv(t)

	n, err := env.holidays.LoadFromReader(strings.NewReader(january2025))
	require.NoError(t, err)
	assert.Equal(t, 14, n)

	cal, err := env.holidays.Calendar(2025, time.January)
	require.NoError(t, err)
	assert.IsType(t, &domain.HolidayCalendar{}, cal)
	assert.True(t, cal.IsWeekend(time.Date(2025, time.January, 3, 0, 0, 0, 0, time.UTC)))
	assert.False(t, cal.IsWeekend(time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC)))

	cal, err = env.holidays.Calendar(2025, time.February)
	require.NoError(t, err)
	assert.Equal(t, domain.WeekdayCalendar{}, cal)

	off, err := env.holidays.IsNonWorkingDay(time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, off)
}

type captureSink struct {
	runIDs  []string
	reports []*domain.Report
	err     error
	onWrite func()
}

func (s *captureSink) WriteReport(_ context.Context, runID string, report *domain.Report) error {
	s.runIDs = append(s.runIDs, runID)
	s.reports = append(s.reports, report)
	if s.onWrite != nil {
		s.onWrite()
	}
	return s.err
}

func TestReportServiceBuild(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	office := env.addEmployee(t, "Петров Петр", "OFFICE_FIXED")
	remote := env.addEmployee(t, "Алексеева Анна", "ALWAYS_REMOTE")
	gone := env.addEmployee(t, "Уволенный", "OFFICE_FIXED")

	inactive := false
	_, err := env.employees.UpdateEmployee(gone, EmployeeInput{IsActive: &inactive})
	require.NoError(t, err)

	_, err = env.plans.CreatePlan(PlanInput{EmployeeID: id(office), Date: str("2025-01-20"), BaseCode: str("О")})
	require.NoError(t, err)
	_, err = env.adjustments.CreateAdjustment(AdjustmentInput{
		EmployeeID:        id(office),
		Date:              str("2025-01-15"),
		StartTimeOverride: str("10:00"),
		StatusOverride:    str("Д"),
	})
	require.NoError(t, err)

	report, err := env.reports.BuildReport(ctx, 2025, time.January)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "Алексеева Анна", report.Rows[0].Name)
	assert.Nil(t, report.Row(gone))

	cell := report.Row(office).Days[15]
	assert.Equal(t, domain.CodeRemoteFull, cell.Code)
	assert.Equal(t, "unscheduled remote work\nstart: 10:00\nlunch: 13:00-14:00", cell.Note)
	assert.Equal(t, domain.CodeVacation, report.Row(office).Days[20].Code)
	assert.Equal(t, domain.CodeWork, report.Row(office).Days[2].Code)
	assert.Equal(t, domain.CodeRemoteFull, report.Row(remote).Days[16].Code)
	assert.Equal(t, domain.CodeDayOff, report.Row(remote).Days[18].Code)

	_, err = env.holidays.LoadFromReader(strings.NewReader(january2025))
	require.NoError(t, err)

	report, err = env.reports.BuildReport(ctx, 2025, time.January)
	require.NoError(t, err)
	assert.Equal(t, domain.CodeDayOff, report.Row(office).Days[2].Code)

	one, err := env.reports.ResolveEmployeeDay(ctx, office, time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, cell, one)

	_, err = env.reports.BuildReport(ctx, 2025, 13)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = env.reports.ResolveEmployeeDay(ctx, 999, time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportServiceSync(t *testing.T) {
	env := newTestEnv(t)
	env.addEmployee(t, "Петров Петр", "OFFICE_FIXED")

	sink := &captureSink{}
	runID, err := env.reports.Sync(context.Background(), 2025, time.February, sink)
	require.NoError(t, err)
	require.Len(t, sink.reports, 1)
	assert.Equal(t, runID, sink.runIDs[0])
	assert.Len(t, runID, 36)
	assert.Equal(t, 28, sink.reports[0].DaysInMonth())

	sink.err = errors.New("disk full")
	_, err = env.reports.Sync(context.Background(), 2025, time.February, sink)
	assert.ErrorContains(t, err, "disk full")
}

func TestMonthlyStatSink(t *testing.T) {
	env := newTestEnv(t)
	empID := env.addEmployee(t, "Петров Петр", "ALWAYS_REMOTE")
	ctx := context.Background()

	failing := &captureSink{err: errors.New("disk full")}
	sink := MultiSink{failing, nil, env.stats}

	runID, err := env.reports.Sync(ctx, 2025, time.February, sink)
	assert.ErrorContains(t, err, "disk full")
	require.Len(t, failing.reports, 1)

	stats, err := env.stats.GetMonth(2025, time.February)
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, empID, stats[0].EmployeeID)
	assert.Equal(t, runID, stats[0].RunID)
	assert.Equal(t, 20, stats[0].WorkDays)
	assert.Equal(t, 20, stats[0].RemoteDays)
	assert.Equal(t, 8, stats[0].NonWorkingDays)
	assert.Equal(t, "160", stats[0].ScheduledHours.String())

	failing.err = nil
	_, err = env.plans.SetPeriod(PeriodInput{EmployeeID: id(empID), From: str("2025-02-03"), To: str("2025-02-07"), Code: str("О")})
	require.NoError(t, err)
	secondRun, err := env.reports.Sync(ctx, 2025, time.February, sink)
	require.NoError(t, err)

	history, err := env.stats.GetEmployeeHistory(empID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, secondRun, history[0].RunID)
	assert.Equal(t, 15, history[0].WorkDays)

	_, err = env.stats.GetMonth(2025, 0)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestReportServicePeriodicSync(t *testing.T) {
	env := newTestEnv(t)
	env.addEmployee(t, "Петров Петр", "OFFICE_FIXED")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sink := &captureSink{onWrite: cancel}
	now := func() time.Time { return time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC) }

	err := env.reports.RunPeriodicSync(ctx, time.Hour, sink, now)
	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, sink.reports, 1)
	assert.Equal(t, time.March, sink.reports[0].Month)

	assert.Error(t, env.reports.RunPeriodicSync(context.Background(), 0, sink, now))
}

func TestPlanGenerator(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	empID := env.addEmployee(t, "Петров Петр", "OFFICE_FIXED")

	days, err := env.generator.WorkingDays(2025, time.January)
	require.NoError(t, err)
	assert.Len(t, days, 23)

	_, err = env.plans.CreatePlan(PlanInput{EmployeeID: id(empID), Date: str("2025-01-15"), BaseCode: str("О")})
	require.NoError(t, err)

	created, err := env.generator.Generate(ctx, 2025, time.January)
	require.NoError(t, err)
	assert.Equal(t, int64(30), created)

	rows, err := env.plans.ListPlans(empID)
	require.NoError(t, err)
	require.Len(t, rows, 31)
	codes := map[string]int{}
	for _, r := range rows {
		codes[r.BaseCode]++
	}
	assert.Equal(t, map[string]int{"Я": 22, "В": 8, "О": 1}, codes)

	created, err = env.generator.Generate(ctx, 2025, time.January)
	require.NoError(t, err)
	assert.Zero(t, created)

	_, err = env.holidays.LoadFromReader(strings.NewReader(january2025))
	require.NoError(t, err)
	days, err = env.generator.WorkingDays(2025, time.January)
	require.NoError(t, err)
	assert.Len(t, days, 17)

	_, err = env.generator.Generate(ctx, 2025, time.January, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
