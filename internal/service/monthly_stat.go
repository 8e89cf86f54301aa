package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/logging"
	"schedule-reconciler/internal/models"
	"schedule-reconciler/internal/repository"

	"github.com/sirupsen/logrus"
)

// MonthlyStatService сохраняет итоги табеля при каждой выгрузке.
// Реализует ReportSink.
type MonthlyStatService struct {
	repo   repository.MonthlyStatRepository
	logger *logrus.Logger
}

func NewMonthlyStatService(repo repository.MonthlyStatRepository) *MonthlyStatService {
	return &MonthlyStatService{repo: repo, logger: logging.New()}
}

func (s *MonthlyStatService) WriteReport(ctx context.Context, runID string, report *domain.Report) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	stats := make([]*models.MonthlyStat, 0, len(report.Rows))
	for _, row := range report.Rows {
		summary := domain.Summarize(row)
		stat := &models.MonthlyStat{
			EmployeeID:     row.EmployeeID,
			Year:           report.Year,
			Month:          int(report.Month),
			EmployeeName:   row.Name,
			WorkDays:       summary.WorkDays,
			RemoteDays:     summary.RemoteDays,
			NonWorkingDays: summary.NonWorkingDays,
			ScheduledHours: summary.ScheduledHours,
			RunID:          runID,
		}
		if !stat.IsValid() {
			return fmt.Errorf("invalid monthly stat for employee %d", row.EmployeeID)
		}
		stats = append(stats, stat)
	}

	if err := s.repo.Upsert(stats); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":    runID,
		"employees": len(stats),
	}).Info("Monthly stats stored")
	return nil
}

// GetMonth возвращает сохраненные итоги за месяц
func (s *MonthlyStatService) GetMonth(year int, month time.Month) ([]*models.MonthlyStat, error) {
	if month < time.January || month > time.December {
		return nil, invalid("month", "ожидается от 1 до 12")
	}
	return s.repo.GetByMonth(year, int(month))
}

// GetEmployeeHistory возвращает итоги сотрудника, последние месяцы первыми
func (s *MonthlyStatService) GetEmployeeHistory(employeeID uint) ([]*models.MonthlyStat, error) {
	return s.repo.GetByEmployee(employeeID)
}

// MultiSink передает табель нескольким получателям по очереди.
// Ошибки не прерывают остальных и возвращаются вместе.
type MultiSink []ReportSink

func (m MultiSink) WriteReport(ctx context.Context, runID string, report *domain.Report) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.WriteReport(ctx, runID, report); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
