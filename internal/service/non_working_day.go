package service

import (
	"io"
	"time"

	"schedule-reconciler/internal/domain"
	"schedule-reconciler/internal/logging"
	"schedule-reconciler/internal/models"
	"schedule-reconciler/internal/repository"
	"schedule-reconciler/pkg/weekends"

	"github.com/sirupsen/logrus"
)

// CalendarSource отдает календарь выходных для месяца отчета
type CalendarSource interface {
	Calendar(year int, month time.Month) (domain.Calendar, error)
}

type NonWorkingDayService struct {
	repo   repository.NonWorkingDayRepository
	logger *logrus.Logger
}

func NewNonWorkingDayService(repo repository.NonWorkingDayRepository) *NonWorkingDayService {
	return &NonWorkingDayService{repo: repo, logger: logging.New()}
}

// LoadFromJSON загружает производственный календарь из файла
func (s *NonWorkingDayService) LoadFromJSON(filePath string) (int, error) {
	cal, err := weekends.ParseFile(filePath)
	if err != nil {
		return 0, err
	}
	return s.store(cal)
}

// LoadFromReader загружает производственный календарь из потока
func (s *NonWorkingDayService) LoadFromReader(r io.Reader) (int, error) {
	cal, err := weekends.Parse(r)
	if err != nil {
		return 0, err
	}
	return s.store(cal)
}

func (s *NonWorkingDayService) store(cal *weekends.Calendar) (int, error) {
	days := make([]models.NonWorkingDay, 0, len(cal.Days))
	for _, wd := range cal.Days {
		days = append(days, models.NonWorkingDay{
			Date:  wd.Date,
			Year:  wd.Year,
			Month: wd.Month,
			Day:   wd.Day,
		})
	}

	// Год заменяется целиком, повторная загрузка не дублирует дни
	if err := s.repo.ReplaceYear(cal.Year, days); err != nil {
		return 0, err
	}

	s.logger.WithFields(logrus.Fields{
		"year":      cal.Year,
		"days":      len(days),
		"shortened": len(cal.Shortened),
	}).Info("Production calendar loaded")

	return len(days), nil
}

func (s *NonWorkingDayService) GetNonWorkingDaysForMonth(year, month int) ([]models.NonWorkingDay, error) {
	return s.repo.GetByYearMonth(year, month)
}

func (s *NonWorkingDayService) IsNonWorkingDay(date time.Time) (bool, error) {
	return s.repo.IsNonWorkingDay(date)
}

// Calendar возвращает календарь месяца: по производственному календарю,
// если месяц загружен, иначе суббота и воскресенье
func (s *NonWorkingDayService) Calendar(year int, month time.Month) (domain.Calendar, error) {
	days, err := s.repo.GetByYearMonth(year, int(month))
	if err != nil {
		return nil, err
	}
	if len(days) == 0 {
		return domain.WeekdayCalendar{}, nil
	}

	dates := make([]time.Time, 0, len(days))
	for _, d := range days {
		dates = append(dates, d.Date)
	}
	return domain.NewHolidayCalendar(dates), nil
}
