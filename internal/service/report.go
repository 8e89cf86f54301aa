package service

import (
	"context"
	"fmt"
	"time"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/logging"
	"schedule-reconciler/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReportSink принимает готовый табель за месяц
type ReportSink interface {
	WriteReport(ctx context.Context, runID string, report *domain.Report) error
}

type ReportService struct {
	employees   repository.EmployeeRepository
	plans       repository.ScheduleBaseRepository
	adjustments repository.ScheduleAdjustmentRepository
	calendar    CalendarSource
	lunchNote   domain.LunchNoteMode
	logger      *logrus.Logger
}

func NewReportService(
	employees repository.EmployeeRepository,
	plans repository.ScheduleBaseRepository,
	adjustments repository.ScheduleAdjustmentRepository,
	calendar CalendarSource,
	lunchNote domain.LunchNoteMode,
) *ReportService {
	return &ReportService{
		employees:   employees,
		plans:       plans,
		adjustments: adjustments,
		calendar:    calendar,
		lunchNote:   lunchNote,
		logger:      logging.New(),
	}
}

func (s *ReportService) resolver(year int, month time.Month) (*domain.Resolver, error) {
	r := &domain.Resolver{Calendar: domain.WeekdayCalendar{}, LunchNote: s.lunchNote}
	if s.calendar == nil {
		return r, nil
	}
	cal, err := s.calendar.Calendar(year, month)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки календаря: %w", err)
	}
	r.Calendar = cal
	return r, nil
}

// BuildReport собирает табель активных сотрудников за месяц
func (s *ReportService) BuildReport(ctx context.Context, year int, month time.Month) (*domain.Report, error) {
	if month < time.January || month > time.December {
		return nil, invalid("month", "ожидается от 1 до 12")
	}
	if year < 1 {
		return nil, invalid("year", "ожидается положительный год")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resolver, err := s.resolver(year, month)
	if err != nil {
		return nil, err
	}

	active, err := s.employees.GetActive()
	if err != nil {
		return nil, fmt.Errorf("ошибка получения сотрудников: %w", err)
	}
	employees := make([]domain.Employee, 0, len(active))
	for _, e := range active {
		employees = append(employees, e.ToDomain())
	}

	from, to := domain.MonthBounds(year, month)

	planRows, err := s.plans.GetByPeriod(from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения плана: %w", err)
	}
	plans := make([]domain.PlanEntry, 0, len(planRows))
	for _, p := range planRows {
		plans = append(plans, p.ToDomain())
	}

	adjRows, err := s.adjustments.GetByPeriod(from, to)
	if err != nil {
		return nil, fmt.Errorf("ошибка получения правок: %w", err)
	}
	adjustments := make([]domain.Adjustment, 0, len(adjRows))
	for _, a := range adjRows {
		adj, err := a.ToDomain()
		if err != nil {
			// Битая правка не должна ронять весь табель
			s.logger.WithError(err).WithField("id", a.ID).Warn("Skipping malformed adjustment")
			continue
		}
		adjustments = append(adjustments, adj)
	}

	return resolver.BuildMonth(year, month, employees, plans, adjustments), nil
}

// ResolveEmployeeDay рассчитывает одну клетку табеля
func (s *ReportService) ResolveEmployeeDay(ctx context.Context, employeeID uint, date time.Time) (domain.Cell, error) {
	if err := ctx.Err(); err != nil {
		return domain.Cell{}, err
	}
	date = domain.DateOf(date)

	employee, err := s.employees.GetByID(employeeID)
	if err != nil {
		return domain.Cell{}, err
	}
	if employee == nil {
		return domain.Cell{}, notFound("employee", employeeID)
	}

	resolver, err := s.resolver(date.Year(), date.Month())
	if err != nil {
		return domain.Cell{}, err
	}

	var plan *domain.PlanEntry
	planRow, err := s.plans.GetByEmployeeAndDate(employeeID, date)
	if err != nil {
		return domain.Cell{}, err
	}
	if planRow != nil {
		p := planRow.ToDomain()
		plan = &p
	}

	var adj *domain.Adjustment
	adjRow, err := s.adjustments.GetByEmployeeAndDate(employeeID, date)
	if err != nil {
		return domain.Cell{}, err
	}
	if adjRow != nil {
		a, err := adjRow.ToDomain()
		if err != nil {
			return domain.Cell{}, err
		}
		adj = &a
	}

	return resolver.Resolve(employee.ToDomain(), plan, adj, date), nil
}

// Sync собирает табель и передает его в sink
func (s *ReportService) Sync(ctx context.Context, year int, month time.Month, sink ReportSink) (string, error) {
	runID := uuid.NewString()
	logger := s.logger.WithFields(logrus.Fields{
		"run_id": runID,
		"year":   year,
		"month":  int(month),
	})

	started := time.Now()
	report, err := s.BuildReport(ctx, year, month)
	if err != nil {
		logger.WithError(err).Error("Failed to build report")
		return runID, err
	}

	if err := sink.WriteReport(ctx, runID, report); err != nil {
		logger.WithError(err).Error("Failed to write report")
		return runID, fmt.Errorf("ошибка записи табеля: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"employees": len(report.Rows),
		"elapsed":   time.Since(started).String(),
	}).Info("Report synced")

	return runID, nil
}

// RunPeriodicSync выгружает текущий месяц сразу и затем каждые interval,
// пока не отменен ctx. Ошибки выгрузки логируются, цикл продолжается.
func (s *ReportService) RunPeriodicSync(ctx context.Context, interval time.Duration, sink ReportSink, now func() time.Time) error {
	if interval <= 0 {
		return fmt.Errorf("sync interval must be positive, got %s", interval)
	}
	if now == nil {
		now = time.Now
	}

	syncCurrent := func() {
		t := now()
		_, _ = s.Sync(ctx, t.Year(), t.Month(), sink)
	}

	s.logger.WithField("interval", interval.String()).Info("Periodic sync started")
	syncCurrent()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Periodic sync stopped")
			return ctx.Err()
		case <-ticker.C:
			syncCurrent()
		}
	}
}
