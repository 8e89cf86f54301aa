package service

import (
	"context"
	"fmt"
	"time"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/logging"
	"schedule-reconciler/internal/models"
	"schedule-reconciler/internal/repository"

	"github.com/sirupsen/logrus"
	"github.com/teambition/rrule-go"
)

// DefaultWorkWeek - пятидневка
var DefaultWorkWeek = []rrule.Weekday{rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR}

// PlanGenerator заполняет базовый план месяца: "Я" в рабочие дни, "В" в остальные.
// Существующие строки плана не перезаписываются.
type PlanGenerator struct {
	employees repository.EmployeeRepository
	plans     repository.ScheduleBaseRepository
	calendar  CalendarSource
	workWeek  []rrule.Weekday
	logger    *logrus.Logger
}

func NewPlanGenerator(
	employees repository.EmployeeRepository,
	plans repository.ScheduleBaseRepository,
	calendar CalendarSource,
	workWeek []rrule.Weekday,
) *PlanGenerator {
	if len(workWeek) == 0 {
		workWeek = DefaultWorkWeek
	}
	return &PlanGenerator{
		employees: employees,
		plans:     plans,
		calendar:  calendar,
		workWeek:  workWeek,
		logger:    logging.New(),
	}
}

// WorkingDays возвращает рабочие дни месяца. Если для месяца загружен
// производственный календарь, решает он; иначе рабочая неделя.
func (g *PlanGenerator) WorkingDays(year int, month time.Month) ([]time.Time, error) {
	from, to := domain.MonthBounds(year, month)

	if g.calendar != nil {
		cal, err := g.calendar.Calendar(year, month)
		if err != nil {
			return nil, err
		}
		if hc, ok := cal.(*domain.HolidayCalendar); ok && hc.Covers(from) {
			var days []time.Time
			for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
				if !hc.IsWeekend(d) {
					days = append(days, d)
				}
			}
			return days, nil
		}
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: g.workWeek,
		Dtstart:   from,
		Until:     to,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid work week rule: %w", err)
	}

	dates := r.Between(from, to, true)
	days := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		days = append(days, domain.DateOf(d))
	}
	return days, nil
}

// Generate создает недостающие строки плана для активных сотрудников
// (или только для employeeIDs) и возвращает число созданных строк
func (g *PlanGenerator) Generate(ctx context.Context, year int, month time.Month, employeeIDs ...uint) (int64, error) {
	if month < time.January || month > time.December {
		return 0, invalid("month", "ожидается от 1 до 12")
	}

	working, err := g.WorkingDays(year, month)
	if err != nil {
		return 0, err
	}
	isWorking := make(map[time.Time]bool, len(working))
	for _, d := range working {
		isWorking[d] = true
	}

	targets, err := g.targets(employeeIDs)
	if err != nil {
		return 0, err
	}

	from, to := domain.MonthBounds(year, month)
	var total int64
	for _, e := range targets {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		rows := make([]*models.ScheduleBase, 0, to.Day())
		for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
			code := domain.CodeDayOff
			if isWorking[d] {
				code = domain.CodeWork
			}
			rows = append(rows, &models.ScheduleBase{EmployeeID: e.ID, Date: d, BaseCode: string(code)})
		}

		created, err := g.plans.CreateMissing(rows)
		if err != nil {
			return total, fmt.Errorf("employee %d: %w", e.ID, err)
		}
		total += created
	}

	g.logger.WithFields(logrus.Fields{
		"from":      dateString(from),
		"to":        dateString(to),
		"employees": len(targets),
		"created":   total,
	}).Info("Base plan generated")

	return total, nil
}

func (g *PlanGenerator) targets(ids []uint) ([]*models.Employee, error) {
	if len(ids) == 0 {
		return g.employees.GetActive()
	}

	targets := make([]*models.Employee, 0, len(ids))
	for _, id := range ids {
		e, err := g.employees.GetByID(id)
		if err != nil {
			return nil, err
		}
		if e == nil {
			return nil, notFound("employee", id)
		}
		targets = append(targets, e)
	}
	return targets, nil
}
